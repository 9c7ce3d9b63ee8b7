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

type PgxPeriodRepository struct {
	BaseRepository
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

const periodColumns = `period_id, start_date, end_date, is_open, is_current, created_at, created_by, last_updated_at, last_updated_by`

func scanPeriod(row scanner) (models.FiscalPeriod, error) {
	var m models.FiscalPeriod
	err := row.Scan(
		&m.PeriodID,
		&m.StartDate,
		&m.EndDate,
		&m.IsOpen,
		&m.IsCurrent,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxPeriodRepository) findOne(ctx context.Context, query, what string, args ...any) (*domain.FiscalPeriod, error) {
	m, err := scanPeriod(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFoundOr(err, "fiscal period", what)
	}
	period := mapping.ToDomainPeriod(m)
	return &period, nil
}

func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	return r.findOne(ctx, `SELECT `+periodColumns+` FROM fiscal_periods WHERE period_id = $1;`, periodID, periodID)
}

func (r *PgxPeriodRepository) FindCurrentPeriod(ctx context.Context) (*domain.FiscalPeriod, error) {
	return r.findOne(ctx, `SELECT `+periodColumns+` FROM fiscal_periods WHERE is_current;`, "current")
}

func (r *PgxPeriodRepository) FindPeriodByStartDate(ctx context.Context, start time.Time) (*domain.FiscalPeriod, error) {
	start = domain.DateOnly(start)
	return r.findOne(ctx, `SELECT `+periodColumns+` FROM fiscal_periods WHERE start_date = $1;`,
		"starting "+start.Format(domain.DateLayout), start)
}

// LockPeriod reads the period with FOR UPDATE; concurrent closings of the
// same period queue behind the lock.
func (r *PgxPeriodRepository) LockPeriod(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	return r.findOne(ctx, `SELECT `+periodColumns+` FROM fiscal_periods WHERE period_id = $1 FOR UPDATE;`, periodID, periodID)
}

func (r *PgxPeriodRepository) FindOverlappingPeriods(ctx context.Context, start, end time.Time, excludeID string) ([]domain.FiscalPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM fiscal_periods
		WHERE start_date <= $2 AND end_date >= $1 AND period_id::text <> $3
		ORDER BY start_date;
	`
	return r.list(ctx, query, domain.DateOnly(start), domain.DateOnly(end), excludeID)
}

func (r *PgxPeriodRepository) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	return r.list(ctx, `SELECT `+periodColumns+` FROM fiscal_periods ORDER BY start_date;`)
}

func (r *PgxPeriodRepository) list(ctx context.Context, query string, args ...any) ([]domain.FiscalPeriod, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fiscal periods: %w", err)
	}
	defer rows.Close()

	var periods []domain.FiscalPeriod
	for rows.Next() {
		m, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fiscal period row: %w", err)
		}
		periods = append(periods, mapping.ToDomainPeriod(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fiscal period rows: %w", err)
	}
	return periods, nil
}

func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	m := mapping.ToModelPeriod(period)
	query := `
		INSERT INTO fiscal_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.db.Exec(ctx, query,
		m.PeriodID,
		m.StartDate,
		m.EndDate,
		m.IsOpen,
		m.IsCurrent,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if code, constraint := pgErrorCode(err); code == codeUniqueViolation && constraint != singleCurrentIndex {
			return fmt.Errorf("%w: a fiscal period already starts on %s", apperrors.ErrConflict, period.StartDate.Format(domain.DateLayout))
		}
		return writeError(err, "fiscal period", period.String())
	}
	return nil
}

func (r *PgxPeriodRepository) ClearCurrentPeriod(ctx context.Context, now time.Time, userID string) error {
	query := `
		UPDATE fiscal_periods
		SET is_current = FALSE, last_updated_at = $1, last_updated_by = $2
		WHERE is_current;
	`
	if _, err := r.db.Exec(ctx, query, now, userID); err != nil {
		return writeError(err, "fiscal period", "current")
	}
	return nil
}

// SetCurrentPeriod relies on the partial unique index: a second current row
// surfaces as apperrors.ErrConcurrentPeriodChange.
func (r *PgxPeriodRepository) SetCurrentPeriod(ctx context.Context, periodID string, now time.Time, userID string) error {
	query := `
		UPDATE fiscal_periods
		SET is_current = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE period_id = $1 AND is_open;
	`
	tag, err := r.db.Exec(ctx, query, periodID, now, userID)
	if err != nil {
		return writeError(err, "fiscal period", periodID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("open fiscal period", periodID)
	}
	return nil
}

func (r *PgxPeriodRepository) MarkPeriodClosed(ctx context.Context, periodID string, now time.Time, userID string) error {
	query := `
		UPDATE fiscal_periods
		SET is_open = FALSE, is_current = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE period_id = $1;
	`
	tag, err := r.db.Exec(ctx, query, periodID, now, userID)
	if err != nil {
		return writeError(err, "fiscal period", periodID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("fiscal period", periodID)
	}
	return nil
}
