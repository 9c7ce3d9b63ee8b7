package services

import (
	"context"
	"time"

	"github.com/SscSPs/copro_ledger/internal/core/domain"
	"github.com/SscSPs/copro_ledger/internal/dto"
)

// BillingSvc generates invoices for due subscriptions
type BillingSvc interface {
	// RunBilling bills every due subscription for the cycle containing target.
	// Already billed cycles are skipped unless force is set.
	RunBilling(ctx context.Context, target time.Time, force bool, userID string) (*domain.BillingReport, error)
}

// SubscriptionSvc manages recurring charges
type SubscriptionSvc interface {
	CreateSubscription(ctx context.Context, req dto.CreateSubscriptionRequest, userID string) (*domain.Subscription, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*domain.Subscription, error)
	ListSubscriptions(ctx context.Context, activeOnly bool) ([]domain.Subscription, error)
	DeactivateSubscription(ctx context.Context, subscriptionID string, userID string) error

	// ReleaseLot clears the lot reference of subscriptions after the lot was deleted.
	ReleaseLot(ctx context.Context, lotID string, userID string) (int, error)
}

// SupplierSvc manages suppliers
type SupplierSvc interface {
	CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest, userID string) (*domain.Supplier, error)
	GetSupplier(ctx context.Context, code string) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	DeactivateSupplier(ctx context.Context, code string, userID string) error
}
