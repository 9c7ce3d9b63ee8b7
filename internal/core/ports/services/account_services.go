package services

import (
	"context"

	"github.com/SscSPs/copro_ledger/internal/core/domain"
	"github.com/SscSPs/copro_ledger/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByCode retrieves an account by its code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts retrieves the whole chart ordered by code.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// ListAccountsByClassification retrieves the accounts of one class ordered by code.
	ListAccountsByClassification(ctx context.Context, classification domain.Classification) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount registers a new account. Fails with apperrors.ErrDuplicateCode if the code exists.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount changes the label, or the classification of an unreferenced account.
	UpdateAccount(ctx context.Context, code string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeleteAccount removes an account that no entry or balance references.
	DeleteAccount(ctx context.Context, code string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
