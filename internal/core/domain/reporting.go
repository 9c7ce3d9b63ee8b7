package domain

import (
	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	AccountCode    string          `json:"accountCode"`
	Label          string          `json:"label"`
	Classification Classification  `json:"classification"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
}

// AccountAmount represents an account with its net amount for financial reports
type AccountAmount struct {
	AccountCode string          `json:"accountCode"`
	Label       string          `json:"label"`
	NetAmount   decimal.Decimal `json:"netAmount"`
}

// PAndLReport represents a profit and loss report
type PAndLReport struct {
	PeriodID  string          `json:"periodID"`
	Revenue   []AccountAmount `json:"revenue"`
	Expenses  []AccountAmount `json:"expenses"`
	NetResult decimal.Decimal `json:"netResult"` // Total revenue minus total expenses
}

// ClosingResult describes what closing a period produced.
type ClosingResult struct {
	ClosedPeriod          FiscalPeriod    `json:"closedPeriod"`
	Successor             FiscalPeriod    `json:"successor"`
	NetResult             decimal.Decimal `json:"netResult"`
	ClosingTransactionID  string          `json:"closingTransactionID,omitempty"`
	TransferTransactionID string          `json:"transferTransactionID,omitempty"`
	CarriedForward        int             `json:"carriedForward"`
}

// BalanceSheetReport lists the natural balances of balance-sheet accounts at the end of a period.
type BalanceSheetReport struct {
	PeriodID         string          `json:"periodID"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
}
