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
)

// billingService implements the BillingSvc interface
type billingService struct {
	BaseService
	store portsrepo.Store
	deps  dependencies
}

// NewBillingService creates the recurring billing generator.
func NewBillingService(store portsrepo.Store, options ...ServiceOption) portssvc.BillingSvc {
	return &billingService{store: store, deps: newDependencies(options...)}
}

var _ portssvc.BillingSvc = (*billingService)(nil)

// RunBilling invoices every subscription active on target into the current
// period. The invoice label embeds the billing cycle, so a cycle that already
// has an invoice is reported AlreadyBilled unless force is set.
func (s *billingService) RunBilling(ctx context.Context, target time.Time, force bool, userID string) (*domain.BillingReport, error) {
	target = domain.DateOnly(target)
	repos := s.store.Repositories()

	if _, err := findCurrentPeriod(ctx, repos); err != nil {
		s.LogError(ctx, err, "Billing run aborted", slog.String("target_date", target.Format(domain.DateLayout)))
		return nil, err
	}

	subscriptions, err := repos.SubscriptionRepo.ListSubscriptions(ctx, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to list subscriptions")
		return nil, err
	}
	var candidates []domain.Subscription
	for _, sub := range subscriptions {
		if sub.ActiveOn(target) {
			candidates = append(candidates, sub)
		}
	}

	// Lots are resolved before the unit of work so no network call happens inside it.
	missing, err := s.missingLots(ctx, candidates)
	if err != nil {
		return nil, err
	}

	var report *domain.BillingReport
	err = s.store.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		report, err = s.bill(ctx, repos, target, force, candidates, missing, userID)
		return err
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrStateError) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Billing run failed", slog.String("target_date", target.Format(domain.DateLayout)))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Billing run completed",
		slog.String("target_date", target.Format(domain.DateLayout)),
		slog.Bool("forced", force),
		slog.Int("candidates", report.Candidates),
		slog.Int("already_billed", report.AlreadyBilled),
		slog.Int("newly_billed", report.NewlyBilled),
		slog.Int("lot_missing", report.LotMissing))
	return report, nil
}

func (s *billingService) bill(ctx context.Context, repos portsrepo.RepositoryProvider, target time.Time, force bool, candidates []domain.Subscription, missing map[string]bool, userID string) (*domain.BillingReport, error) {
	cfg := s.deps.ledger
	now := s.deps.now()

	current, err := findCurrentPeriod(ctx, repos)
	if err != nil {
		return nil, err
	}
	period, err := requireOpenPeriod(ctx, repos, current.PeriodID)
	if err != nil {
		return nil, err
	}
	if _, err := ensureAccountsExist(ctx, repos, cfg.ReceivableAccountCode, cfg.BillingRevenueAccountCode); err != nil {
		return nil, fmt.Errorf("designated billing account: %w", err)
	}

	yearStart, yearEnd := domain.Yearly.CycleWindow(target)
	billed, err := repos.TransactionRepo.FindTransactionLabels(ctx, period.PeriodID, yearStart, yearEnd, domain.ContributionMarker)
	if err != nil {
		return nil, err
	}

	report := &domain.BillingReport{
		TargetDate: target,
		PeriodID:   period.PeriodID,
		Forced:     force,
		Candidates: len(candidates),
		Lines:      []domain.BillingLine{},
	}
	for _, sub := range candidates {
		line := domain.BillingLine{
			SubscriptionID: sub.SubscriptionID,
			LotID:          sub.LotID,
			Label:          sub.InvoiceLabel(target),
			Amount:         sub.Amount,
		}
		if missing[sub.SubscriptionID] {
			line.Status = domain.LotMissing
			report.Add(line)
			continue
		}
		if _, exists := billed[line.Label]; exists && !force {
			line.Status = domain.AlreadyBilled
			report.Add(line)
			continue
		}

		tx := &domain.Transaction{
			OperationDate: target,
			Label:         line.Label,
			Source:        domain.SourceBilling,
			Entries: []domain.JournalEntry{
				{AccountCode: cfg.ReceivableAccountCode, Amount: sub.Amount, Type: domain.Debit, Counterparty: domain.ForLot(sub.LotID)},
				{AccountCode: cfg.BillingRevenueAccountCode, Amount: sub.Amount, Type: domain.Credit},
			},
		}
		if err := insertTransaction(ctx, repos, tx, period, userID, now); err != nil {
			return nil, fmt.Errorf("invoice %q: %w", line.Label, err)
		}
		billed[line.Label] = struct{}{}
		line.Status = domain.Billed
		line.TransactionID = tx.TransactionID
		report.Add(line)
	}
	return report, nil
}

// missingLots returns the subscriptions whose lot reference was cleared or no
// longer resolves in the lot registry.
func (s *billingService) missingLots(ctx context.Context, candidates []domain.Subscription) (map[string]bool, error) {
	missing := make(map[string]bool)
	known := make(map[string]bool)
	for _, sub := range candidates {
		if sub.LotID == "" {
			missing[sub.SubscriptionID] = true
			continue
		}
		if s.deps.lots == nil {
			continue
		}
		exists, checked := known[sub.LotID]
		if !checked {
			var err error
			exists, err = s.deps.lots.LotExists(ctx, sub.LotID)
			if err != nil {
				s.LogError(ctx, err, "Lot registry lookup failed", slog.String("lot_id", sub.LotID))
				return nil, fmt.Errorf("%w: lot registry: %v", apperrors.ErrExternalDependency, err)
			}
			known[sub.LotID] = exists
		}
		if !exists {
			missing[sub.SubscriptionID] = true
		}
	}
	return missing, nil
}
