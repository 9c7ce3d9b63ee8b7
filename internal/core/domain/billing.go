package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingStatus is the outcome of one subscription in a billing run.
type BillingStatus string

const (
	Billed        BillingStatus = "BILLED"
	AlreadyBilled BillingStatus = "ALREADY_BILLED"
	LotMissing    BillingStatus = "LOT_MISSING"
)

// BillingLine reports what happened to a single subscription.
type BillingLine struct {
	SubscriptionID string          `json:"subscriptionID"`
	LotID          string          `json:"lotID"`
	Label          string          `json:"label"`
	Amount         decimal.Decimal `json:"amount"`
	Status         BillingStatus   `json:"status"`
	TransactionID  string          `json:"transactionID,omitempty"`
}

// BillingReport summarizes a billing run.
type BillingReport struct {
	TargetDate    time.Time     `json:"targetDate"`
	PeriodID      string        `json:"periodID"`
	Forced        bool          `json:"forced"`
	Candidates    int           `json:"candidates"`
	AlreadyBilled int           `json:"alreadyBilled"`
	NewlyBilled   int           `json:"newlyBilled"`
	LotMissing    int           `json:"lotMissing"`
	Lines         []BillingLine `json:"lines"`
}

// Add records a line and updates the counters.
func (r *BillingReport) Add(line BillingLine) {
	r.Lines = append(r.Lines, line)
	switch line.Status {
	case Billed:
		r.NewlyBilled++
	case AlreadyBilled:
		r.AlreadyBilled++
	case LotMissing:
		r.LotMissing++
	}
}
