package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/copro_ledger/internal/core/ports/repositories"
)

type subscriptionRepo struct{ a access }

var _ portsrepo.SubscriptionRepositoryFacade = (*subscriptionRepo)(nil)

func (r *subscriptionRepo) SaveSubscription(_ context.Context, sub domain.Subscription) error {
	return r.a.write(func(st *state) error {
		if _, exists := st.subscriptions[sub.SubscriptionID]; exists {
			return fmt.Errorf("%w: subscription %s", apperrors.ErrDuplicate, sub.SubscriptionID)
		}
		st.subscriptions[sub.SubscriptionID] = sub
		return nil
	})
}

func (r *subscriptionRepo) FindSubscriptionByID(_ context.Context, subscriptionID string) (*domain.Subscription, error) {
	var out *domain.Subscription
	err := r.a.read(func(st *state) error {
		sub, ok := st.subscriptions[subscriptionID]
		if !ok {
			return apperrors.NewNotFoundError("subscription", subscriptionID)
		}
		out = &sub
		return nil
	})
	return out, err
}

func (r *subscriptionRepo) ListSubscriptions(_ context.Context, activeOnly bool) ([]domain.Subscription, error) {
	var out []domain.Subscription
	err := r.a.read(func(st *state) error {
		for _, sub := range st.subscriptions {
			if activeOnly && !sub.IsActive {
				continue
			}
			out = append(out, sub)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].LotID != out[j].LotID {
			return out[i].LotID < out[j].LotID
		}
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out, err
}

func (r *subscriptionRepo) DeactivateSubscription(_ context.Context, subscriptionID string, now time.Time, userID string) error {
	return r.a.write(func(st *state) error {
		sub, ok := st.subscriptions[subscriptionID]
		if !ok {
			return apperrors.NewNotFoundError("subscription", subscriptionID)
		}
		sub.IsActive = false
		sub.LastUpdatedAt, sub.LastUpdatedBy = now, userID
		st.subscriptions[subscriptionID] = sub
		return nil
	})
}

func (r *subscriptionRepo) ClearLot(_ context.Context, lotID string, now time.Time, userID string) (int, error) {
	cleared := 0
	err := r.a.write(func(st *state) error {
		for id, sub := range st.subscriptions {
			if sub.LotID == lotID {
				sub.LotID = ""
				sub.LastUpdatedAt, sub.LastUpdatedBy = now, userID
				st.subscriptions[id] = sub
				cleared++
			}
		}
		return nil
	})
	return cleared, err
}

type supplierRepo struct{ a access }

var _ portsrepo.SupplierRepositoryFacade = (*supplierRepo)(nil)

func (r *supplierRepo) SaveSupplier(_ context.Context, supplier domain.Supplier) error {
	return r.a.write(func(st *state) error {
		if _, exists := st.suppliers[supplier.Code]; exists {
			return fmt.Errorf("%w: supplier %s", apperrors.ErrDuplicate, supplier.Code)
		}
		st.suppliers[supplier.Code] = supplier
		return nil
	})
}

func (r *supplierRepo) FindSupplierByCode(_ context.Context, code string) (*domain.Supplier, error) {
	var out *domain.Supplier
	err := r.a.read(func(st *state) error {
		s, ok := st.suppliers[code]
		if !ok {
			return apperrors.NewNotFoundError("supplier", code)
		}
		out = &s
		return nil
	})
	return out, err
}

func (r *supplierRepo) ListSuppliers(_ context.Context) ([]domain.Supplier, error) {
	var out []domain.Supplier
	err := r.a.read(func(st *state) error {
		for _, s := range st.suppliers {
			out = append(out, s)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].LegalName) < strings.ToLower(out[j].LegalName)
	})
	return out, err
}

func (r *supplierRepo) DeactivateSupplier(_ context.Context, code string, now time.Time, userID string) error {
	return r.a.write(func(st *state) error {
		s, ok := st.suppliers[code]
		if !ok {
			return apperrors.NewNotFoundError("supplier", code)
		}
		s.IsActive = false
		s.LastUpdatedAt, s.LastUpdatedBy = now, userID
		st.suppliers[code] = s
		return nil
	})
}
