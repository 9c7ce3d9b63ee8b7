package dto

import (
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountCode    string          `json:"accountCode"`
	Label          string          `json:"label"`
	Classification string          `json:"classification"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
}

// TrialBalanceTotals holds the column totals of a trial balance.
type TrialBalanceTotals struct {
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	PeriodID string                    `json:"periodID"`
	Rows     []TrialBalanceRowResponse `json:"rows"`
	Totals   TrialBalanceTotals        `json:"totals"`
}

// ToTrialBalanceResponse converts report rows and computes totals.
func ToTrialBalanceResponse(periodID string, rows []domain.TrialBalanceRow) TrialBalanceResponse {
	resp := TrialBalanceResponse{
		PeriodID: periodID,
		Rows:     make([]TrialBalanceRowResponse, len(rows)),
		Totals:   TrialBalanceTotals{Debit: decimal.Zero, Credit: decimal.Zero},
	}
	for i, r := range rows {
		resp.Rows[i] = TrialBalanceRowResponse{
			AccountCode:    r.AccountCode,
			Label:          r.Label,
			Classification: string(r.Classification),
			Debit:          r.Debit,
			Credit:         r.Credit,
		}
		resp.Totals.Debit = resp.Totals.Debit.Add(r.Debit)
		resp.Totals.Credit = resp.Totals.Credit.Add(r.Credit)
	}
	return resp
}
