package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/copro_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/copro_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/copro_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	store portsrepo.Store
}

// NewReportingService creates the reporting service.
func NewReportingService(store portsrepo.Store) portssvc.ReportingService {
	return &reportingService{store: store}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// TrialBalance lists the nonzero balances of the period, debit balances in the
// debit column and credit balances in the credit column.
func (s *reportingService) TrialBalance(ctx context.Context, periodID string) ([]domain.TrialBalanceRow, error) {
	balances, accounts, err := s.periodBalances(ctx, periodID)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.TrialBalanceRow, 0, len(balances))
	for _, b := range balances {
		if b.Current.IsZero() {
			continue
		}
		acc := accounts[b.AccountCode]
		row := domain.TrialBalanceRow{
			AccountCode:    b.AccountCode,
			Label:          acc.Label,
			Classification: acc.Classification,
			Debit:          decimal.Zero,
			Credit:         decimal.Zero,
		}
		if b.Current.IsPositive() {
			row.Debit = b.Current
		} else {
			row.Credit = b.Current.Neg()
		}
		rows = append(rows, row)
	}

	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.String("period_id", periodID),
		slog.Int("row_count", len(rows)))
	return rows, nil
}

// ProfitAndLoss reports revenue and expense movements of the period. Closing
// and result transfer transactions are left out so a closed period still
// shows what it earned.
func (s *reportingService) ProfitAndLoss(ctx context.Context, periodID string) (*domain.PAndLReport, error) {
	repos := s.store.Repositories()
	if _, err := repos.PeriodRepo.FindPeriodByID(ctx, periodID); err != nil {
		return nil, err
	}
	totals, err := repos.TransactionRepo.SumEntriesByAccount(ctx, periodID, domain.SourceClosing, domain.SourceResultTransfer)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve profit and loss data", slog.String("period_id", periodID))
		return nil, err
	}

	report := &domain.PAndLReport{
		PeriodID:  periodID,
		Revenue:   []domain.AccountAmount{},
		Expenses:  []domain.AccountAmount{},
		NetResult: decimal.Zero,
	}
	for _, t := range totals {
		switch t.Classification {
		case domain.Revenue:
			amount := t.Credit.Sub(t.Debit)
			report.Revenue = append(report.Revenue, domain.AccountAmount{AccountCode: t.Key, Label: t.Label, NetAmount: amount})
			report.NetResult = report.NetResult.Add(amount)
		case domain.Expense:
			amount := t.Debit.Sub(t.Credit)
			report.Expenses = append(report.Expenses, domain.AccountAmount{AccountCode: t.Key, Label: t.Label, NetAmount: amount})
			report.NetResult = report.NetResult.Sub(amount)
		}
	}

	s.LogInfo(ctx, "Profit and loss report generated successfully",
		slog.String("period_id", periodID),
		slog.Int("revenue_accounts", len(report.Revenue)),
		slog.Int("expense_accounts", len(report.Expenses)))
	return report, nil
}

// BalanceSheet reports asset and liability balances with their natural sign.
func (s *reportingService) BalanceSheet(ctx context.Context, periodID string) (*domain.BalanceSheetReport, error) {
	balances, accounts, err := s.periodBalances(ctx, periodID)
	if err != nil {
		return nil, err
	}

	report := &domain.BalanceSheetReport{
		PeriodID:         periodID,
		Assets:           []domain.AccountAmount{},
		Liabilities:      []domain.AccountAmount{},
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
	}
	for _, b := range balances {
		acc := accounts[b.AccountCode]
		amount := domain.AccountAmount{AccountCode: acc.Code, Label: acc.Label, NetAmount: acc.Classification.NaturalBalance(b.Current)}
		switch acc.Classification {
		case domain.Asset:
			report.Assets = append(report.Assets, amount)
			report.TotalAssets = report.TotalAssets.Add(amount.NetAmount)
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, amount)
			report.TotalLiabilities = report.TotalLiabilities.Add(amount.NetAmount)
		}
	}

	s.LogInfo(ctx, "Balance sheet report generated successfully",
		slog.String("period_id", periodID),
		slog.Int("asset_accounts", len(report.Assets)),
		slog.Int("liability_accounts", len(report.Liabilities)))
	return report, nil
}

func (s *reportingService) periodBalances(ctx context.Context, periodID string) ([]domain.AccountPeriodBalance, map[string]domain.Account, error) {
	repos := s.store.Repositories()
	if _, err := repos.PeriodRepo.FindPeriodByID(ctx, periodID); err != nil {
		return nil, nil, err
	}
	balances, err := repos.BalanceRepo.ListBalancesByPeriod(ctx, periodID)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve balances", slog.String("period_id", periodID))
		return nil, nil, err
	}
	codes := make([]string, len(balances))
	for i, b := range balances {
		codes[i] = b.AccountCode
	}
	accounts, err := repos.AccountRepo.FindAccountsByCodes(ctx, codes)
	if err != nil {
		return nil, nil, err
	}
	return balances, accounts, nil
}
