package services

import (
	"context"

	"github.com/SscSPs/copro_ledger/internal/core/domain"
)

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	// TrialBalance lists every account balance of the period split into debit and credit columns.
	TrialBalance(ctx context.Context, periodID string) ([]domain.TrialBalanceRow, error)

	// ProfitAndLoss reports revenue and expense of the period, ignoring closing entries.
	ProfitAndLoss(ctx context.Context, periodID string) (*domain.PAndLReport, error)

	// BalanceSheet reports asset and liability balances of the period.
	BalanceSheet(ctx context.Context, periodID string) (*domain.BalanceSheetReport, error)
}
