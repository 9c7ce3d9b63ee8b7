package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/copro_ledger/internal/core/domain"
)

// PeriodReader defines read operations for fiscal periods
type PeriodReader interface {
	FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)

	// FindCurrentPeriod returns apperrors.ErrNotFound when no period is current.
	FindCurrentPeriod(ctx context.Context) (*domain.FiscalPeriod, error)

	// FindPeriodByStartDate returns the period starting exactly on start.
	FindPeriodByStartDate(ctx context.Context, start time.Time) (*domain.FiscalPeriod, error)

	// FindOverlappingPeriods lists periods intersecting [start, end], excluding excludeID.
	FindOverlappingPeriods(ctx context.Context, start, end time.Time, excludeID string) ([]domain.FiscalPeriod, error)

	// ListPeriods lists every period ordered by start date.
	ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error)
}

// PeriodWriter defines write operations for fiscal periods
type PeriodWriter interface {
	SavePeriod(ctx context.Context, period domain.FiscalPeriod) error

	// LockPeriod reads a period and holds a row lock until the unit of work ends.
	LockPeriod(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)

	// ClearCurrentPeriod unsets the current flag wherever it is set.
	ClearCurrentPeriod(ctx context.Context, now time.Time, userID string) error

	// SetCurrentPeriod flags a period as current. Returns
	// apperrors.ErrConcurrentPeriodChange if another period still holds the flag.
	SetCurrentPeriod(ctx context.Context, periodID string, now time.Time, userID string) error

	// MarkPeriodClosed flips the open flag of a period to false.
	MarkPeriodClosed(ctx context.Context, periodID string, now time.Time, userID string) error
}

// PeriodRepositoryFacade combines all period-related repository interfaces
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
}
