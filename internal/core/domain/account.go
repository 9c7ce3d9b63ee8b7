package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Classification defines the fundamental accounting class of an account.
type Classification string

const (
	Asset      Classification = "ASSET"
	Liability  Classification = "LIABILITY"
	Revenue    Classification = "REVENUE"
	Expense    Classification = "EXPENSE"
	Adjustment Classification = "ADJUSTMENT"
)

// IsValid reports whether c is one of the known classifications.
func (c Classification) IsValid() bool {
	switch c {
	case Asset, Liability, Revenue, Expense, Adjustment:
		return true
	}
	return false
}

// IsBalanceSheet reports whether balances of this class carry over to the next period.
func (c Classification) IsBalanceSheet() bool {
	return c == Asset || c == Liability
}

// IsResult reports whether balances of this class are zeroed at period close.
func (c Classification) IsResult() bool {
	return c == Revenue || c == Expense
}

// NaturalBalance converts a stored debit-minus-credit balance into the sign
// a reader expects for the classification: liabilities and revenue read
// positive when they carry a credit balance.
func (c Classification) NaturalBalance(raw decimal.Decimal) decimal.Decimal {
	if c == Liability || c == Revenue {
		return raw.Neg()
	}
	return raw
}

// Account represents a ledger account of the chart, identified by its code.
type Account struct {
	Code           string         `json:"code"`           // Primary Key, e.g. "3421"
	Label          string         `json:"label"`          // Always stored uppercase
	Classification Classification `json:"classification"` // ASSET, LIABILITY, ...
	AuditFields
}

// NormalizeLabel trims and uppercases labels of accounts and transactions.
func NormalizeLabel(label string) string {
	return strings.ToUpper(strings.TrimSpace(label))
}
