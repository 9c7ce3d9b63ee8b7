package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/copro_ledger/internal/core/ports/repositories"
)

type periodRepo struct{ a access }

var _ portsrepo.PeriodRepositoryFacade = (*periodRepo)(nil)

func (r *periodRepo) FindPeriodByID(_ context.Context, periodID string) (*domain.FiscalPeriod, error) {
	var out *domain.FiscalPeriod
	err := r.a.read(func(st *state) error {
		p, ok := st.periods[periodID]
		if !ok {
			return apperrors.NewNotFoundError("fiscal period", periodID)
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *periodRepo) FindCurrentPeriod(_ context.Context) (*domain.FiscalPeriod, error) {
	var out *domain.FiscalPeriod
	err := r.a.read(func(st *state) error {
		for _, p := range st.periods {
			if p.IsCurrent {
				if out != nil {
					return apperrors.ErrDuplicateCurrentPeriod
				}
				found := p
				out = &found
			}
		}
		if out == nil {
			return fmt.Errorf("%w: current fiscal period", apperrors.ErrNotFound)
		}
		return nil
	})
	return out, err
}

func (r *periodRepo) FindPeriodByStartDate(_ context.Context, start time.Time) (*domain.FiscalPeriod, error) {
	var out *domain.FiscalPeriod
	start = domain.DateOnly(start)
	err := r.a.read(func(st *state) error {
		for _, p := range st.periods {
			if p.StartDate.Equal(start) {
				found := p
				out = &found
				return nil
			}
		}
		return apperrors.NewNotFoundError("fiscal period starting", start.Format(domain.DateLayout))
	})
	return out, err
}

func (r *periodRepo) FindOverlappingPeriods(_ context.Context, start, end time.Time, excludeID string) ([]domain.FiscalPeriod, error) {
	var out []domain.FiscalPeriod
	err := r.a.read(func(st *state) error {
		for _, p := range st.periods {
			if p.PeriodID != excludeID && p.Overlaps(start, end) {
				out = append(out, p)
			}
		}
		return nil
	})
	sortPeriods(out)
	return out, err
}

func (r *periodRepo) ListPeriods(_ context.Context) ([]domain.FiscalPeriod, error) {
	var out []domain.FiscalPeriod
	err := r.a.read(func(st *state) error {
		for _, p := range st.periods {
			out = append(out, p)
		}
		return nil
	})
	sortPeriods(out)
	return out, err
}

func sortPeriods(periods []domain.FiscalPeriod) {
	sort.Slice(periods, func(i, j int) bool { return periods[i].StartDate.Before(periods[j].StartDate) })
}

func (r *periodRepo) SavePeriod(_ context.Context, period domain.FiscalPeriod) error {
	return r.a.write(func(st *state) error {
		if _, exists := st.periods[period.PeriodID]; exists {
			return fmt.Errorf("%w: fiscal period %s", apperrors.ErrDuplicate, period.PeriodID)
		}
		if period.IsCurrent {
			for _, p := range st.periods {
				if p.IsCurrent {
					return apperrors.ErrConcurrentPeriodChange
				}
			}
		}
		st.periods[period.PeriodID] = period
		return nil
	})
}

func (r *periodRepo) LockPeriod(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	// Units of work are already serialized by the store.
	return r.FindPeriodByID(ctx, periodID)
}

func (r *periodRepo) ClearCurrentPeriod(_ context.Context, now time.Time, userID string) error {
	return r.a.write(func(st *state) error {
		for id, p := range st.periods {
			if p.IsCurrent {
				p.IsCurrent = false
				p.LastUpdatedAt, p.LastUpdatedBy = now, userID
				st.periods[id] = p
			}
		}
		return nil
	})
}

func (r *periodRepo) SetCurrentPeriod(_ context.Context, periodID string, now time.Time, userID string) error {
	return r.a.write(func(st *state) error {
		p, ok := st.periods[periodID]
		if !ok {
			return apperrors.NewNotFoundError("fiscal period", periodID)
		}
		for id, other := range st.periods {
			if id != periodID && other.IsCurrent {
				return fmt.Errorf("%w: period %s is still current", apperrors.ErrConcurrentPeriodChange, other)
			}
		}
		p.IsCurrent = true
		p.LastUpdatedAt, p.LastUpdatedBy = now, userID
		st.periods[periodID] = p
		return nil
	})
}

func (r *periodRepo) MarkPeriodClosed(_ context.Context, periodID string, now time.Time, userID string) error {
	return r.a.write(func(st *state) error {
		p, ok := st.periods[periodID]
		if !ok {
			return apperrors.NewNotFoundError("fiscal period", periodID)
		}
		p.IsOpen = false
		p.LastUpdatedAt, p.LastUpdatedBy = now, userID
		st.periods[periodID] = p
		return nil
	})
}
