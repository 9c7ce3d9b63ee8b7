package pgsql

import (
	portsrepo "github.com/SscSPs/copro_ledger/internal/core/ports/repositories"
)

// NewRepositoryProvider binds every repository to one querier: the pool for
// autocommit reads, or a pgx.Tx inside a unit of work.
func NewRepositoryProvider(db Querier) portsrepo.RepositoryProvider {
	base := BaseRepository{db: db}
	return portsrepo.RepositoryProvider{
		AccountRepo:      &PgxAccountRepository{base},
		PeriodRepo:       &PgxPeriodRepository{base},
		BalanceRepo:      &PgxBalanceRepository{base},
		TransactionRepo:  &PgxTransactionRepository{base},
		SubscriptionRepo: &PgxSubscriptionRepository{base},
		SupplierRepo:     &PgxSupplierRepository{base},
	}
}
