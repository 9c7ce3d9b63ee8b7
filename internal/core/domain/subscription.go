package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the billing cycle of a subscription.
type Frequency string

const (
	Monthly   Frequency = "MONTHLY"
	Quarterly Frequency = "QUARTERLY"
	Yearly    Frequency = "YEARLY"
)

// ContributionMarker appears in the label of every generated invoice.
const ContributionMarker = "CONTRIBUTION LOT#"

func (f Frequency) IsValid() bool {
	return f == Monthly || f == Quarterly || f == Yearly
}

// CycleKey identifies the billing cycle containing d: "2024-03", "2024-Q1" or "2024".
func (f Frequency) CycleKey(d time.Time) string {
	switch f {
	case Quarterly:
		return fmt.Sprintf("%d-Q%d", d.Year(), (int(d.Month())-1)/3+1)
	case Yearly:
		return fmt.Sprintf("%d", d.Year())
	default:
		return d.Format("2006-01")
	}
}

// CycleWindow returns the first and last day of the cycle containing d.
func (f Frequency) CycleWindow(d time.Time) (time.Time, time.Time) {
	d = DateOnly(d)
	switch f {
	case Quarterly:
		first := time.Date(d.Year(), time.Month((int(d.Month())-1)/3*3+1), 1, 0, 0, 0, 0, time.UTC)
		return first, first.AddDate(0, 3, -1)
	case Yearly:
		first := time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return first, first.AddDate(1, 0, -1)
	default:
		first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		return first, first.AddDate(0, 1, -1)
	}
}

// Subscription is a recurring charge billed to a lot.
type Subscription struct {
	SubscriptionID string          `json:"subscriptionID"`
	LotID          string          `json:"lotID"` // Empty once the lot reference was cleared
	Amount         decimal.Decimal `json:"amount"`
	Frequency      Frequency       `json:"frequency"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        *time.Time      `json:"endDate,omitempty"`
	IsActive       bool            `json:"isActive"`
	Description    string          `json:"description"`
	AuditFields
}

// ActiveOn reports whether the subscription is billable on d.
func (s Subscription) ActiveOn(d time.Time) bool {
	d = DateOnly(d)
	if !s.IsActive || s.StartDate.After(d) {
		return false
	}
	return s.EndDate == nil || !s.EndDate.Before(d)
}

// InvoiceLabel is the deterministic label of the invoice for the cycle
// containing d, e.g. "MONTHLY CONTRIBUTION LOT#L1 - 2024-03". It is already
// in the stored label form, so it can be matched against persisted labels.
func (s Subscription) InvoiceLabel(d time.Time) string {
	return NormalizeLabel(fmt.Sprintf("%s %s%s - %s", s.Frequency, ContributionMarker, s.LotID, s.Frequency.CycleKey(d)))
}
