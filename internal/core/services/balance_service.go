package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/copro_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/copro_ledger/internal/core/ports/services"
)

// balanceService implements the BalanceLedgerSvc interface
type balanceService struct {
	BaseService
	store portsrepo.Store
	deps  dependencies
}

// NewBalanceService creates the balance ledger.
func NewBalanceService(store portsrepo.Store, options ...ServiceOption) portssvc.BalanceLedgerSvc {
	return &balanceService{store: store, deps: newDependencies(options...)}
}

var _ portssvc.BalanceLedgerSvc = (*balanceService)(nil)

func (s *balanceService) GetBalance(ctx context.Context, accountCode, periodID string) (*domain.AccountPeriodBalance, error) {
	var balance *domain.AccountPeriodBalance
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		period, err := repos.PeriodRepo.FindPeriodByID(ctx, periodID)
		if err != nil {
			return err
		}
		if _, err := ensureAccountsExist(ctx, repos, accountCode); err != nil {
			return err
		}
		balance, err = getOrCreateBalance(ctx, repos, accountCode, period, s.deps.now())
		return err
	})
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to get balance", accountCode, periodID)
		return nil, err
	}
	return balance, nil
}

func (s *balanceService) Recompute(ctx context.Context, accountCode, periodID string) (*domain.AccountPeriodBalance, error) {
	var balance *domain.AccountPeriodBalance
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		period, err := repos.PeriodRepo.FindPeriodByID(ctx, periodID)
		if err != nil {
			return err
		}
		if _, err := ensureAccountsExist(ctx, repos, accountCode); err != nil {
			return err
		}
		balance, err = recomputeBalance(ctx, repos, accountCode, period, s.deps.now())
		return err
	})
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to recompute balance", accountCode, periodID)
		return nil, err
	}

	s.LogDebug(ctx, "Balance recomputed",
		slog.String("account_code", accountCode),
		slog.String("period_id", periodID),
		slog.String("current", balance.Current.String()))
	return balance, nil
}

func (s *balanceService) CarryForward(ctx context.Context, accountCode, fromPeriodID, toPeriodID string) (*domain.AccountPeriodBalance, error) {
	var balance *domain.AccountPeriodBalance
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		from, err := repos.PeriodRepo.FindPeriodByID(ctx, fromPeriodID)
		if err != nil {
			return err
		}
		to, err := repos.PeriodRepo.FindPeriodByID(ctx, toPeriodID)
		if err != nil {
			return err
		}
		if _, err := ensureAccountsExist(ctx, repos, accountCode); err != nil {
			return err
		}
		balance, err = carryForwardBalance(ctx, repos, accountCode, from, to, s.deps.now())
		return err
	})
	if err != nil {
		s.logUnexpected(ctx, err, "Failed to carry balance forward", accountCode, toPeriodID)
		return nil, err
	}

	s.LogInfo(ctx, "Balance carried forward",
		slog.String("account_code", accountCode),
		slog.String("from_period_id", fromPeriodID),
		slog.String("to_period_id", toPeriodID),
		slog.String("opening", balance.Opening.String()))
	return balance, nil
}

func (s *balanceService) ListPeriodBalances(ctx context.Context, periodID string) ([]domain.AccountPeriodBalance, error) {
	repos := s.store.Repositories()
	if _, err := repos.PeriodRepo.FindPeriodByID(ctx, periodID); err != nil {
		return nil, err
	}
	balances, err := repos.BalanceRepo.ListBalancesByPeriod(ctx, periodID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list balances", slog.String("period_id", periodID))
		return nil, err
	}
	if balances == nil {
		return []domain.AccountPeriodBalance{}, nil
	}
	return balances, nil
}

func (s *balanceService) logUnexpected(ctx context.Context, err error, msg, accountCode, periodID string) {
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrStateError) {
		return
	}
	s.LogError(ctx, err, msg, slog.String("account_code", accountCode), slog.String("period_id", periodID))
}
