package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/copro_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/copro_ledger/internal/core/ports/services"
	"github.com/SscSPs/copro_ledger/internal/dto"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	store portsrepo.Store
	deps  dependencies
}

// NewAccountService creates the account registry service.
func NewAccountService(store portsrepo.Store, options ...ServiceOption) portssvc.AccountSvcFacade {
	return &accountService{store: store, deps: newDependencies(options...)}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: account code is required", apperrors.ErrValidation)
	}
	if !req.Classification.IsValid() {
		return nil, fmt.Errorf("%w: unknown classification %q for account %s", apperrors.ErrValidation, req.Classification, code)
	}

	account := domain.Account{
		Code:           code,
		Label:          domain.NormalizeLabel(req.Label),
		Classification: req.Classification,
		AuditFields:    newAudit(userID, s.deps.now()),
	}

	if err := s.store.Repositories().AccountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrDuplicateCode, code)
		}
		s.LogError(ctx, err, "Failed to save account", slog.String("account_code", code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_code", account.Code),
		slog.String("classification", string(account.Classification)))
	return &account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.store.Repositories().AccountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code", slog.String("account_code", code))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.store.Repositories().AccountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) ListAccountsByClassification(ctx context.Context, classification domain.Classification) ([]domain.Account, error) {
	if !classification.IsValid() {
		return nil, fmt.Errorf("%w: unknown classification %q", apperrors.ErrValidation, classification)
	}
	accounts, err := s.store.Repositories().AccountRepo.ListAccountsByClassification(ctx, classification)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts by classification", slog.String("classification", string(classification)))
		return nil, fmt.Errorf("failed to list %s accounts: %w", classification, err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// UpdateAccount changes the label freely. The classification is frozen as soon
// as an entry or a balance references the account.
func (s *accountService) UpdateAccount(ctx context.Context, code string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	var updated *domain.Account
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		account, err := repos.AccountRepo.FindAccountByCode(ctx, code)
		if err != nil {
			return err
		}

		if req.Label != nil {
			account.Label = domain.NormalizeLabel(*req.Label)
		}
		if req.Classification != nil && *req.Classification != account.Classification {
			if !req.Classification.IsValid() {
				return fmt.Errorf("%w: unknown classification %q", apperrors.ErrValidation, *req.Classification)
			}
			referenced, err := repos.AccountRepo.IsAccountReferenced(ctx, code)
			if err != nil {
				return err
			}
			if referenced {
				return fmt.Errorf("%w: cannot reclassify account %s", apperrors.ErrAccountInUse, code)
			}
			account.Classification = *req.Classification
		}

		account.LastUpdatedAt = s.deps.now()
		account.LastUpdatedBy = userID
		if err := repos.AccountRepo.UpdateAccount(ctx, *account); err != nil {
			return err
		}
		updated = account
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to update account", slog.String("account_code", code))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully", slog.String("account_code", code))
	return updated, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, code string) error {
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		if _, err := repos.AccountRepo.FindAccountByCode(ctx, code); err != nil {
			return err
		}
		referenced, err := repos.AccountRepo.IsAccountReferenced(ctx, code)
		if err != nil {
			return err
		}
		if referenced {
			return fmt.Errorf("%w: cannot delete account %s", apperrors.ErrAccountInUse, code)
		}
		return repos.AccountRepo.DeleteAccount(ctx, code)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to delete account", slog.String("account_code", code))
		}
		return err
	}

	s.LogInfo(ctx, "Account deleted successfully", slog.String("account_code", code))
	return nil
}
