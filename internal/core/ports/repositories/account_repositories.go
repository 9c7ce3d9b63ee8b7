package repositories

import (
	"context"

	"github.com/SscSPs/copro_ledger/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByCode retrieves an account by its code. Returns apperrors.ErrNotFound if absent.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByCodes retrieves the accounts that exist among codes, keyed by code.
	FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error)

	// ListAccounts lists the whole chart ordered by code.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// ListAccountsByClassification lists accounts of one class ordered by code.
	ListAccountsByClassification(ctx context.Context, classification domain.Classification) ([]domain.Account, error)

	// IsAccountReferenced reports whether any entry or balance row points at the account.
	IsAccountReferenced(ctx context.Context, code string) (bool, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. Returns apperrors.ErrDuplicateCode on code collision.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates label and classification of an existing account.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an unreferenced account.
	DeleteAccount(ctx context.Context, code string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
