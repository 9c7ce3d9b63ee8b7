package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/copro_ledger/internal/core/domain"
)

// SubscriptionRepositoryFacade defines persistence of recurring charges
type SubscriptionRepositoryFacade interface {
	SaveSubscription(ctx context.Context, sub domain.Subscription) error
	FindSubscriptionByID(ctx context.Context, subscriptionID string) (*domain.Subscription, error)
	// ListSubscriptions lists subscriptions ordered by lot then start date.
	ListSubscriptions(ctx context.Context, activeOnly bool) ([]domain.Subscription, error)
	DeactivateSubscription(ctx context.Context, subscriptionID string, now time.Time, userID string) error
	// ClearLot drops the lot reference of every subscription billed to lotID.
	ClearLot(ctx context.Context, lotID string, now time.Time, userID string) (int, error)
}

// SupplierRepositoryFacade defines persistence of suppliers
type SupplierRepositoryFacade interface {
	SaveSupplier(ctx context.Context, supplier domain.Supplier) error
	FindSupplierByCode(ctx context.Context, code string) (*domain.Supplier, error)
	// ListSuppliers lists suppliers ordered by legal name.
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	DeactivateSupplier(ctx context.Context, code string, now time.Time, userID string) error
}
