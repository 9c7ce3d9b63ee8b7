package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/copro_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/copro_ledger/internal/models"
	"github.com/SscSPs/copro_ledger/internal/utils/mapping"
)

type PgxSubscriptionRepository struct {
	BaseRepository
}

var _ portsrepo.SubscriptionRepositoryFacade = (*PgxSubscriptionRepository)(nil)

const subscriptionColumns = `subscription_id, lot_id, amount, frequency, start_date, end_date, is_active, description,
	created_at, created_by, last_updated_at, last_updated_by`

func scanSubscription(row scanner) (models.Subscription, error) {
	var m models.Subscription
	err := row.Scan(
		&m.SubscriptionID,
		&m.LotID,
		&m.Amount,
		&m.Frequency,
		&m.StartDate,
		&m.EndDate,
		&m.IsActive,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxSubscriptionRepository) SaveSubscription(ctx context.Context, sub domain.Subscription) error {
	m := mapping.ToModelSubscription(sub)
	query := `
		INSERT INTO subscriptions (` + subscriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db.Exec(ctx, query,
		m.SubscriptionID,
		m.LotID,
		m.Amount,
		m.Frequency,
		m.StartDate,
		m.EndDate,
		m.IsActive,
		m.Description,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return writeError(err, "subscription", m.SubscriptionID)
	}
	return nil
}

func (r *PgxSubscriptionRepository) FindSubscriptionByID(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE subscription_id = $1;`
	m, err := scanSubscription(r.db.QueryRow(ctx, query, subscriptionID))
	if err != nil {
		return nil, notFoundOr(err, "subscription", subscriptionID)
	}
	sub := mapping.ToDomainSubscription(m)
	return &sub, nil
}

// ListSubscriptions orders cleared lots (NULL) first, matching the empty
// string ordering of the domain type.
func (r *PgxSubscriptionRepository) ListSubscriptions(ctx context.Context, activeOnly bool) ([]domain.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE is_active OR NOT $1
		ORDER BY lot_id NULLS FIRST, start_date;
	`
	rows, err := r.db.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []domain.Subscription
	for rows.Next() {
		m, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription row: %w", err)
		}
		subs = append(subs, mapping.ToDomainSubscription(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscription rows: %w", err)
	}
	return subs, nil
}

func (r *PgxSubscriptionRepository) DeactivateSubscription(ctx context.Context, subscriptionID string, now time.Time, userID string) error {
	query := `
		UPDATE subscriptions
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE subscription_id = $1;
	`
	tag, err := r.db.Exec(ctx, query, subscriptionID, now, userID)
	if err != nil {
		return notFoundOr(err, "subscription", subscriptionID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("subscription", subscriptionID)
	}
	return nil
}

func (r *PgxSubscriptionRepository) ClearLot(ctx context.Context, lotID string, now time.Time, userID string) (int, error) {
	query := `
		UPDATE subscriptions
		SET lot_id = NULL, last_updated_at = $2, last_updated_by = $3
		WHERE lot_id = $1;
	`
	tag, err := r.db.Exec(ctx, query, lotID, now, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear lot %s: %w", lotID, err)
	}
	return int(tag.RowsAffected()), nil
}

type PgxSupplierRepository struct {
	BaseRepository
}

var _ portsrepo.SupplierRepositoryFacade = (*PgxSupplierRepository)(nil)

const supplierColumns = `code, legal_name, address, city, phone, email, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanSupplier(row scanner) (models.Supplier, error) {
	var m models.Supplier
	err := row.Scan(
		&m.Code,
		&m.LegalName,
		&m.Address,
		&m.City,
		&m.Phone,
		&m.Email,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxSupplierRepository) SaveSupplier(ctx context.Context, supplier domain.Supplier) error {
	m := mapping.ToModelSupplier(supplier)
	query := `
		INSERT INTO suppliers (` + supplierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.db.Exec(ctx, query,
		m.Code,
		m.LegalName,
		m.Address,
		m.City,
		m.Phone,
		m.Email,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return writeError(err, "supplier", m.Code)
	}
	return nil
}

func (r *PgxSupplierRepository) FindSupplierByCode(ctx context.Context, code string) (*domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE code = $1;`
	m, err := scanSupplier(r.db.QueryRow(ctx, query, code))
	if err != nil {
		return nil, notFoundOr(err, "supplier", code)
	}
	supplier := mapping.ToDomainSupplier(m)
	return &supplier, nil
}

func (r *PgxSupplierRepository) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers ORDER BY lower(legal_name);`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []domain.Supplier
	for rows.Next() {
		m, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan supplier row: %w", err)
		}
		suppliers = append(suppliers, mapping.ToDomainSupplier(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating supplier rows: %w", err)
	}
	return suppliers, nil
}

func (r *PgxSupplierRepository) DeactivateSupplier(ctx context.Context, code string, now time.Time, userID string) error {
	query := `
		UPDATE suppliers
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE code = $1;
	`
	tag, err := r.db.Exec(ctx, query, code, now, userID)
	if err != nil {
		return writeError(err, "supplier", code)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("supplier", code)
	}
	return nil
}
