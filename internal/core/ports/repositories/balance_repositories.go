package repositories

import (
	"context"

	"github.com/SscSPs/copro_ledger/internal/core/domain"
)

// BalanceReader defines read operations for account period balances
type BalanceReader interface {
	// FindBalance returns apperrors.ErrNotFound when no record exists yet.
	FindBalance(ctx context.Context, accountCode, periodID string) (*domain.AccountPeriodBalance, error)

	// ListBalancesByPeriod lists every record of a period ordered by account code.
	ListBalancesByPeriod(ctx context.Context, periodID string) ([]domain.AccountPeriodBalance, error)
}

// BalanceWriter defines write operations for account period balances
type BalanceWriter interface {
	// UpsertBalance inserts or replaces the record keyed by (account, period).
	UpsertBalance(ctx context.Context, balance domain.AccountPeriodBalance) error
}

// BalanceRepositoryFacade combines all balance-related repository interfaces
type BalanceRepositoryFacade interface {
	BalanceReader
	BalanceWriter
}
