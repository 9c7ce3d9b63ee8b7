package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/copro_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/copro_ledger/internal/core/ports/services"
	"github.com/SscSPs/copro_ledger/internal/dto"
	"github.com/google/uuid"
)

// periodService implements the PeriodSvcFacade interface
type periodService struct {
	BaseService
	store portsrepo.Store
	deps  dependencies
}

// NewPeriodService creates the fiscal period manager.
func NewPeriodService(store portsrepo.Store, options ...ServiceOption) portssvc.PeriodSvcFacade {
	return &periodService{store: store, deps: newDependencies(options...)}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

func (s *periodService) CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest, userID string) (*domain.FiscalPeriod, error) {
	start, err := domain.ParseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start date %q: %v", apperrors.ErrValidation, req.StartDate, err)
	}
	end, err := domain.ParseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: end date %q: %v", apperrors.ErrValidation, req.EndDate, err)
	}
	if err := domain.ValidatePeriodRange(start, end); err != nil {
		return nil, err
	}

	now := s.deps.now()
	period := domain.FiscalPeriod{
		PeriodID:    uuid.NewString(),
		StartDate:   start,
		EndDate:     end,
		IsOpen:      true,
		AuditFields: newAudit(userID, now),
	}

	err = s.store.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		overlapping, err := repos.PeriodRepo.FindOverlappingPeriods(ctx, start, end, "")
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return fmt.Errorf("%w: period %s overlaps existing period %s", apperrors.ErrConflict, period, overlapping[0])
		}
		if err := repos.PeriodRepo.SavePeriod(ctx, period); err != nil {
			return err
		}
		if !req.MarkCurrent {
			return nil
		}
		if err := repos.PeriodRepo.ClearCurrentPeriod(ctx, now, userID); err != nil {
			return err
		}
		if err := repos.PeriodRepo.SetCurrentPeriod(ctx, period.PeriodID, now, userID); err != nil {
			return err
		}
		period.IsCurrent = true
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to create fiscal period", slog.String("period", period.String()))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Fiscal period created",
		slog.String("period_id", period.PeriodID),
		slog.String("period", period.String()),
		slog.Bool("current", period.IsCurrent))
	return &period, nil
}

func (s *periodService) GetPeriod(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	return s.store.Repositories().PeriodRepo.FindPeriodByID(ctx, periodID)
}

func (s *periodService) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	periods, err := s.store.Repositories().PeriodRepo.ListPeriods(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list fiscal periods")
		return nil, err
	}
	if periods == nil {
		return []domain.FiscalPeriod{}, nil
	}
	return periods, nil
}

// GetCurrent is the single way the rest of the ledger resolves the current period.
func (s *periodService) GetCurrent(ctx context.Context) (*domain.FiscalPeriod, error) {
	return findCurrentPeriod(ctx, s.store.Repositories())
}

func findCurrentPeriod(ctx context.Context, repos portsrepo.RepositoryProvider) (*domain.FiscalPeriod, error) {
	period, err := repos.PeriodRepo.FindCurrentPeriod(ctx)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.ErrNoCurrentPeriod
	}
	return period, err
}

func (s *periodService) MarkCurrent(ctx context.Context, periodID string, userID string) (*domain.FiscalPeriod, error) {
	var marked *domain.FiscalPeriod
	err := s.store.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		period, err := repos.PeriodRepo.LockPeriod(ctx, periodID)
		if err != nil {
			return err
		}
		if !period.IsOpen {
			return fmt.Errorf("%w: closed period %s cannot become current", apperrors.ErrPeriodClosed, period)
		}
		if period.IsCurrent {
			marked = period
			return nil
		}
		now := s.deps.now()
		if err := repos.PeriodRepo.ClearCurrentPeriod(ctx, now, userID); err != nil {
			return err
		}
		if err := repos.PeriodRepo.SetCurrentPeriod(ctx, periodID, now, userID); err != nil {
			return err
		}
		period.IsCurrent = true
		period.LastUpdatedAt, period.LastUpdatedBy = now, userID
		marked = period
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrStateError) {
			s.LogError(ctx, err, "Failed to mark period current", slog.String("period_id", periodID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Current fiscal period changed",
		slog.String("period_id", marked.PeriodID),
		slog.String("period", marked.String()))
	return marked, nil
}
