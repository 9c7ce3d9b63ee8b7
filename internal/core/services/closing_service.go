package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/copro_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/copro_ledger/internal/core/ports/services"
	"github.com/SscSPs/copro_ledger/internal/utils/accounting"
	"github.com/google/uuid"
)

// closingService implements the ClosingSvc interface
type closingService struct {
	BaseService
	store portsrepo.Store
	deps  dependencies
}

// NewClosingService creates the period closing service.
func NewClosingService(store portsrepo.Store, options ...ServiceOption) portssvc.ClosingSvc {
	return &closingService{store: store, deps: newDependencies(options...)}
}

var _ portssvc.ClosingSvc = (*closingService)(nil)

// ClosePeriod zeroes revenue and expense into the result account, moves the
// net result to retained earnings, activates the successor period, carries
// balance-sheet balances forward and closes the period. Everything happens in
// a single unit of work.
func (s *closingService) ClosePeriod(ctx context.Context, periodID string, userID string) (*domain.ClosingResult, error) {
	var result *domain.ClosingResult
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		var err error
		result, err = s.close(ctx, repos, periodID, userID)
		return err
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrStateError) {
			s.LogError(ctx, err, "Failed to close fiscal period", slog.String("period_id", periodID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Fiscal period closed",
		slog.String("period", result.ClosedPeriod.String()),
		slog.String("successor", result.Successor.String()),
		slog.String("net_result", result.NetResult.StringFixed(2)),
		slog.Int("carried_forward", result.CarriedForward))
	return result, nil
}

func (s *closingService) close(ctx context.Context, repos portsrepo.RepositoryProvider, periodID, userID string) (*domain.ClosingResult, error) {
	cfg := s.deps.ledger
	now := s.deps.now()

	period, err := repos.PeriodRepo.LockPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if !period.IsOpen {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrAlreadyClosed, period)
	}

	if err := checkPeriodBalanced(ctx, repos, period); err != nil {
		return nil, err
	}
	if _, err := ensureAccountsExist(ctx, repos, cfg.ResultAccountCode, cfg.RetainedEarningsAccountCode); err != nil {
		return nil, fmt.Errorf("designated closing account: %w", err)
	}

	totals, err := repos.TransactionRepo.SumEntriesByAccount(ctx, period.PeriodID)
	if err != nil {
		return nil, err
	}
	result := &domain.ClosingResult{NetResult: accounting.NetResult(totals)}

	closing, err := s.zeroResultAccounts(ctx, repos, period, now)
	if err != nil {
		return nil, err
	}
	if len(closing.Entries) > 0 {
		if err := insertTransaction(ctx, repos, closing, period, userID, now); err != nil {
			return nil, err
		}
		result.ClosingTransactionID = closing.TransactionID
	}

	if transfer := accounting.TransferEntries(cfg.ResultAccountCode, cfg.RetainedEarningsAccountCode, result.NetResult); len(transfer) > 0 {
		tx := &domain.Transaction{
			OperationDate: period.EndDate,
			Label:         "RESULT TRANSFER " + period.String(),
			Source:        domain.SourceResultTransfer,
			Entries:       transfer,
		}
		if err := insertTransaction(ctx, repos, tx, period, userID, now); err != nil {
			return nil, err
		}
		result.TransferTransactionID = tx.TransactionID
	}

	successor, err := s.successorOf(ctx, repos, period, userID)
	if err != nil {
		return nil, err
	}
	if err := repos.PeriodRepo.ClearCurrentPeriod(ctx, now, userID); err != nil {
		return nil, err
	}
	if err := repos.PeriodRepo.SetCurrentPeriod(ctx, successor.PeriodID, now, userID); err != nil {
		return nil, err
	}
	successor.IsCurrent = true

	carried, err := s.carryForwardAll(ctx, repos, period, successor, now)
	if err != nil {
		return nil, err
	}
	result.CarriedForward = carried

	if err := repos.PeriodRepo.MarkPeriodClosed(ctx, period.PeriodID, now, userID); err != nil {
		return nil, err
	}
	period.IsOpen, period.IsCurrent = false, false
	period.LastUpdatedAt, period.LastUpdatedBy = now, userID

	result.ClosedPeriod = *period
	result.Successor = *successor
	return result, nil
}

func checkPeriodBalanced(ctx context.Context, repos portsrepo.RepositoryProvider, period *domain.FiscalPeriod) error {
	totals, err := repos.TransactionRepo.SumEntriesByTransaction(ctx, period.PeriodID)
	if err != nil {
		return err
	}
	for _, t := range totals {
		if !t.IsBalanced() {
			return fmt.Errorf("%w: cannot close %s, transaction %q (%s) debits sum is %s and credits sum is %s",
				apperrors.ErrUnbalancedTransaction, period, t.Label, t.Key, t.Debit.StringFixed(2), t.Credit.StringFixed(2))
		}
	}
	return nil
}

// zeroResultAccounts builds the closing transaction: one entry per revenue or
// expense account with a nonzero balance and its mirror on the result account.
func (s *closingService) zeroResultAccounts(ctx context.Context, repos portsrepo.RepositoryProvider, period *domain.FiscalPeriod, now time.Time) (*domain.Transaction, error) {
	closing := &domain.Transaction{
		OperationDate: period.EndDate,
		Label:         "CLOSING " + period.String(),
		Source:        domain.SourceClosing,
	}
	for _, class := range []domain.Classification{domain.Revenue, domain.Expense} {
		accounts, err := repos.AccountRepo.ListAccountsByClassification(ctx, class)
		if err != nil {
			return nil, err
		}
		for _, acc := range accounts {
			balance, err := recomputeBalance(ctx, repos, acc.Code, period, now)
			if err != nil {
				return nil, err
			}
			entry, mirror, ok := accounting.ZeroingEntry(acc.Code, s.deps.ledger.ResultAccountCode, balance.Current)
			if ok {
				closing.Entries = append(closing.Entries, entry, mirror)
			}
		}
	}
	return closing, nil
}

// successorOf reuses an open period starting the day after period ends, or
// creates one of the configured length. Any other overlap is a conflict.
func (s *closingService) successorOf(ctx context.Context, repos portsrepo.RepositoryProvider, period *domain.FiscalPeriod, userID string) (*domain.FiscalPeriod, error) {
	start := period.EndDate.AddDate(0, 0, 1)
	end := period.EndDate.AddDate(0, 0, s.deps.ledger.SuccessorPeriodDays)

	existing, err := repos.PeriodRepo.FindPeriodByStartDate(ctx, start)
	switch {
	case err == nil && existing.IsOpen:
		return existing, nil
	case err == nil:
		return nil, fmt.Errorf("%w: successor period %s is already closed", apperrors.ErrConflict, existing)
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	successor := domain.FiscalPeriod{
		PeriodID:    uuid.NewString(),
		StartDate:   start,
		EndDate:     end,
		IsOpen:      true,
		AuditFields: newAudit(userID, s.deps.now()),
	}
	overlapping, err := repos.PeriodRepo.FindOverlappingPeriods(ctx, start, end, period.PeriodID)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, fmt.Errorf("%w: successor %s overlaps existing period %s", apperrors.ErrConflict, successor, overlapping[0])
	}
	if err := repos.PeriodRepo.SavePeriod(ctx, successor); err != nil {
		return nil, err
	}
	return &successor, nil
}

func (s *closingService) carryForwardAll(ctx context.Context, repos portsrepo.RepositoryProvider, from, to *domain.FiscalPeriod, now time.Time) (int, error) {
	carried := 0
	for _, class := range []domain.Classification{domain.Asset, domain.Liability} {
		accounts, err := repos.AccountRepo.ListAccountsByClassification(ctx, class)
		if err != nil {
			return 0, err
		}
		for _, acc := range accounts {
			if _, err := recomputeBalance(ctx, repos, acc.Code, from, now); err != nil {
				return 0, err
			}
			if _, err := carryForwardBalance(ctx, repos, acc.Code, from, to, now); err != nil {
				return 0, fmt.Errorf("carry forward account %s: %w", acc.Code, err)
			}
			carried++
		}
	}
	return carried, nil
}
