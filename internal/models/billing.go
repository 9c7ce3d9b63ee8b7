package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Subscription is a row of subscriptions. LotID becomes NULL once the lot
// was released.
type Subscription struct {
	SubscriptionID string          `db:"subscription_id"`
	LotID          sql.NullString  `db:"lot_id"`
	Amount         decimal.Decimal `db:"amount"`
	Frequency      string          `db:"frequency"`
	StartDate      time.Time       `db:"start_date"`
	EndDate        sql.NullTime    `db:"end_date"`
	IsActive       bool            `db:"is_active"`
	Description    string          `db:"description"`
	AuditFields
}

// Supplier is a row of suppliers.
type Supplier struct {
	Code      string `db:"code"`
	LegalName string `db:"legal_name"`
	Address   string `db:"address"`
	City      string `db:"city"`
	Phone     string `db:"phone"`
	Email     string `db:"email"`
	IsActive  bool   `db:"is_active"`
	AuditFields
}
