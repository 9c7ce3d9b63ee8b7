package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountPeriodBalance is the running balance of one account within one period.
// Current always equals Opening plus debits minus credits posted in the period.
type AccountPeriodBalance struct {
	AccountCode   string          `json:"accountCode"`
	PeriodID      string          `json:"periodID"`
	Opening       decimal.Decimal `json:"opening"`
	Current       decimal.Decimal `json:"current"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// Movement is the net effect of the period's entries.
func (b AccountPeriodBalance) Movement() decimal.Decimal {
	return b.Current.Sub(b.Opening)
}

// EntryTotals holds debit and credit sums, either for one account or one transaction.
type EntryTotals struct {
	Key            string          `json:"key"`
	Label          string          `json:"label,omitempty"`
	Classification Classification  `json:"classification,omitempty"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
}

// IsBalanced reports whether debits equal credits.
func (t EntryTotals) IsBalanced() bool {
	return t.Debit.Equal(t.Credit)
}
