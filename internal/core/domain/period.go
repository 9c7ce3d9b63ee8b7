package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
)

// FiscalPeriod is an accounting year. It is created open, may become the
// single current period, and is closed once by the closing algorithm.
type FiscalPeriod struct {
	PeriodID  string    `json:"periodID"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	IsOpen    bool      `json:"isOpen"`
	IsCurrent bool      `json:"isCurrent"`
	AuditFields
}

func (p FiscalPeriod) String() string {
	return fmt.Sprintf("%s..%s", p.StartDate.Format(DateLayout), p.EndDate.Format(DateLayout))
}

// Contains reports whether d falls within the period, bounds included.
func (p FiscalPeriod) Contains(d time.Time) bool {
	d = DateOnly(d)
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// Overlaps reports whether [start, end] intersects the period.
func (p FiscalPeriod) Overlaps(start, end time.Time) bool {
	return !DateOnly(start).After(p.EndDate) && !DateOnly(end).Before(p.StartDate)
}

// ValidatePeriodRange checks that end is strictly after start.
func ValidatePeriodRange(start, end time.Time) error {
	if !DateOnly(end).After(DateOnly(start)) {
		return fmt.Errorf("%w: period end %s must be after start %s",
			apperrors.ErrValidation, end.Format(DateLayout), start.Format(DateLayout))
	}
	return nil
}
