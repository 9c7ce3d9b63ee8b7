package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FiscalPeriod is a row of fiscal_periods. A partial unique index on
// is_current keeps at most one current row.
type FiscalPeriod struct {
	PeriodID  string    `db:"period_id"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	IsOpen    bool      `db:"is_open"`
	IsCurrent bool      `db:"is_current"`
	AuditFields
}

// AccountPeriodBalance is a row of account_period_balances.
type AccountPeriodBalance struct {
	AccountCode   string          `db:"account_code"`
	PeriodID      string          `db:"period_id"`
	Opening       decimal.Decimal `db:"opening_balance"`
	Current       decimal.Decimal `db:"current_balance"`
	LastUpdatedAt time.Time       `db:"last_updated_at"`
}
