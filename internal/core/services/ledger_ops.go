package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/copro_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/copro_ledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The helpers below run inside a unit of work and share its repositories, so
// that closing, billing and manual posting update balances the same way.

func requireOpenPeriod(ctx context.Context, repos portsrepo.RepositoryProvider, periodID string) (*domain.FiscalPeriod, error) {
	period, err := repos.PeriodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if !period.IsOpen {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrPeriodClosed, period)
	}
	return period, nil
}

func ensureAccountsExist(ctx context.Context, repos portsrepo.RepositoryProvider, codes ...string) (map[string]domain.Account, error) {
	accounts, err := repos.AccountRepo.FindAccountsByCodes(ctx, codes)
	if err != nil {
		return nil, err
	}
	for _, code := range codes {
		if _, ok := accounts[code]; !ok {
			return nil, apperrors.NewNotFoundError("account", code)
		}
	}
	return accounts, nil
}

// getOrCreateBalance returns the balance record, creating a zero one in open
// periods. Closed periods get an unsaved zero view.
func getOrCreateBalance(ctx context.Context, repos portsrepo.RepositoryProvider, accountCode string, period *domain.FiscalPeriod, now time.Time) (*domain.AccountPeriodBalance, error) {
	balance, err := repos.BalanceRepo.FindBalance(ctx, accountCode, period.PeriodID)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	balance = &domain.AccountPeriodBalance{
		AccountCode:   accountCode,
		PeriodID:      period.PeriodID,
		Opening:       decimal.Zero,
		Current:       decimal.Zero,
		LastUpdatedAt: now,
	}
	if !period.IsOpen {
		return balance, nil
	}
	if err := repos.BalanceRepo.UpsertBalance(ctx, *balance); err != nil {
		return nil, err
	}
	return balance, nil
}

// recomputeBalance sets current = opening + debits - credits over the entries of the period.
func recomputeBalance(ctx context.Context, repos portsrepo.RepositoryProvider, accountCode string, period *domain.FiscalPeriod, now time.Time) (*domain.AccountPeriodBalance, error) {
	if !period.IsOpen {
		return nil, fmt.Errorf("%w: cannot recompute account %s in %s", apperrors.ErrPeriodClosed, accountCode, period)
	}
	balance, err := getOrCreateBalance(ctx, repos, accountCode, period, now)
	if err != nil {
		return nil, err
	}
	debit, credit, err := repos.TransactionRepo.SumEntries(ctx, accountCode, period.PeriodID)
	if err != nil {
		return nil, err
	}
	balance.Current = accounting.ApplyTotals(balance.Opening, debit, credit)
	balance.LastUpdatedAt = now
	if err := repos.BalanceRepo.UpsertBalance(ctx, *balance); err != nil {
		return nil, err
	}
	return balance, nil
}

// carryForwardBalance seeds the opening of `to` from the current balance of
// `from`, keeping entries already posted in `to`.
func carryForwardBalance(ctx context.Context, repos portsrepo.RepositoryProvider, accountCode string, from, to *domain.FiscalPeriod, now time.Time) (*domain.AccountPeriodBalance, error) {
	if !to.IsOpen {
		return nil, fmt.Errorf("%w: cannot carry account %s forward into %s", apperrors.ErrPeriodClosed, accountCode, to)
	}
	source, err := getOrCreateBalance(ctx, repos, accountCode, from, now)
	if err != nil {
		return nil, err
	}
	target, err := getOrCreateBalance(ctx, repos, accountCode, to, now)
	if err != nil {
		return nil, err
	}
	debit, credit, err := repos.TransactionRepo.SumEntries(ctx, accountCode, to.PeriodID)
	if err != nil {
		return nil, err
	}
	target.Opening = source.Current
	target.Current = accounting.ApplyTotals(target.Opening, debit, credit)
	target.LastUpdatedAt = now
	if err := repos.BalanceRepo.UpsertBalance(ctx, *target); err != nil {
		return nil, err
	}
	return target, nil
}

// insertTransaction assigns identifiers and audit fields, persists the
// transaction with its entries and recomputes every touched account.
// The caller has already checked that period is open.
func insertTransaction(ctx context.Context, repos portsrepo.RepositoryProvider, tx *domain.Transaction, period *domain.FiscalPeriod, userID string, now time.Time) error {
	if tx.TransactionID == "" {
		tx.TransactionID = uuid.NewString()
	}
	tx.PeriodID = period.PeriodID
	tx.Label = domain.NormalizeLabel(tx.Label)
	tx.OperationDate = domain.DateOnly(tx.OperationDate)
	tx.AuditFields = newAudit(userID, now)
	for i := range tx.Entries {
		tx.Entries[i].EntryID = uuid.NewString()
		tx.Entries[i].TransactionID = tx.TransactionID
		tx.Entries[i].AuditFields = tx.AuditFields
	}
	if err := repos.TransactionRepo.SaveTransaction(ctx, *tx); err != nil {
		return err
	}
	return recomputeAccounts(ctx, repos, tx.AccountCodes(), period, now)
}

func recomputeAccounts(ctx context.Context, repos portsrepo.RepositoryProvider, codes []string, period *domain.FiscalPeriod, now time.Time) error {
	for _, code := range codes {
		if _, err := recomputeBalance(ctx, repos, code, period, now); err != nil {
			return fmt.Errorf("recompute account %s: %w", code, err)
		}
	}
	return nil
}

func newAudit(userID string, now time.Time) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
}
