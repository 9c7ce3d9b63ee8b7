package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/copro_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/copro_ledger/internal/core/ports/services"
	"github.com/SscSPs/copro_ledger/internal/dto"
	"github.com/google/uuid"
)

// subscriptionService implements the SubscriptionSvc interface
type subscriptionService struct {
	BaseService
	store portsrepo.Store
	deps  dependencies
}

// NewSubscriptionService creates the subscription manager.
func NewSubscriptionService(store portsrepo.Store, options ...ServiceOption) portssvc.SubscriptionSvc {
	return &subscriptionService{store: store, deps: newDependencies(options...)}
}

var _ portssvc.SubscriptionSvc = (*subscriptionService)(nil)

func (s *subscriptionService) CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest, userID string) (*domain.Subscription, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: subscription amount %s must be positive", apperrors.ErrInvalidAmount, req.Amount)
	}
	if !domain.FitsAmountPrecision(req.Amount) {
		return nil, fmt.Errorf("%w: subscription amount %s has more than %d decimal places", apperrors.ErrInvalidAmount, req.Amount, domain.AmountDecimals)
	}
	start, err := domain.ParseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start date %q: %v", apperrors.ErrValidation, req.StartDate, err)
	}

	sub := domain.Subscription{
		SubscriptionID: uuid.NewString(),
		LotID:          strings.TrimSpace(req.LotID),
		Amount:         req.Amount,
		Frequency:      req.Frequency,
		StartDate:      start,
		IsActive:       true,
		Description:    req.Description,
		AuditFields:    newAudit(userID, s.deps.now()),
	}
	if req.EndDate != "" {
		end, err := domain.ParseDate(req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: end date %q: %v", apperrors.ErrValidation, req.EndDate, err)
		}
		if end.Before(start) {
			return nil, fmt.Errorf("%w: subscription ends %s before it starts %s", apperrors.ErrValidation, req.EndDate, req.StartDate)
		}
		sub.EndDate = &end
	}

	if s.deps.lots != nil {
		exists, err := s.deps.lots.LotExists(ctx, sub.LotID)
		if err != nil {
			return nil, fmt.Errorf("%w: lot registry: %v", apperrors.ErrExternalDependency, err)
		}
		if !exists {
			return nil, apperrors.NewNotFoundError("lot", sub.LotID)
		}
	}

	if err := s.store.Repositories().SubscriptionRepo.SaveSubscription(ctx, sub); err != nil {
		s.LogError(ctx, err, "Failed to save subscription", slog.String("lot_id", sub.LotID))
		return nil, err
	}

	s.LogInfo(ctx, "Subscription created",
		slog.String("subscription_id", sub.SubscriptionID),
		slog.String("lot_id", sub.LotID),
		slog.String("frequency", string(sub.Frequency)))
	return &sub, nil
}

func (s *subscriptionService) GetSubscription(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	return s.store.Repositories().SubscriptionRepo.FindSubscriptionByID(ctx, subscriptionID)
}

func (s *subscriptionService) ListSubscriptions(ctx context.Context, activeOnly bool) ([]domain.Subscription, error) {
	subs, err := s.store.Repositories().SubscriptionRepo.ListSubscriptions(ctx, activeOnly)
	if err != nil {
		s.LogError(ctx, err, "Failed to list subscriptions")
		return nil, err
	}
	if subs == nil {
		return []domain.Subscription{}, nil
	}
	return subs, nil
}

func (s *subscriptionService) DeactivateSubscription(ctx context.Context, subscriptionID string, userID string) error {
	err := s.store.Repositories().SubscriptionRepo.DeactivateSubscription(ctx, subscriptionID, s.deps.now(), userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to deactivate subscription", slog.String("subscription_id", subscriptionID))
		}
		return err
	}
	s.LogInfo(ctx, "Subscription deactivated", slog.String("subscription_id", subscriptionID))
	return nil
}

// ReleaseLot keeps the subscriptions of a deleted lot but clears their lot
// reference; billing then reports them LotMissing.
func (s *subscriptionService) ReleaseLot(ctx context.Context, lotID string, userID string) (int, error) {
	if strings.TrimSpace(lotID) == "" {
		return 0, fmt.Errorf("%w: lot id is required", apperrors.ErrValidation)
	}
	cleared, err := s.store.Repositories().SubscriptionRepo.ClearLot(ctx, lotID, s.deps.now(), userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to release lot", slog.String("lot_id", lotID))
		return 0, err
	}
	s.LogInfo(ctx, "Lot released from subscriptions", slog.String("lot_id", lotID), slog.Int("cleared", cleared))
	return cleared, nil
}
