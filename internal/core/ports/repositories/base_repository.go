package repositories

import (
	"context"
)

// TxFunc is a unit of work. Returning an error rolls every write back.
type TxFunc func(ctx context.Context, repos RepositoryProvider) error

// TransactionManager runs units of work atomically and in isolation.
type TransactionManager interface {
	// RunInTx executes fn inside one serializable database transaction.
	RunInTx(ctx context.Context, fn TxFunc) error
}

// Store gives services both committed reads and atomic units of work.
type Store interface {
	TransactionManager

	// Repositories returns repositories that read and write outside any unit of work.
	Repositories() RepositoryProvider
}
