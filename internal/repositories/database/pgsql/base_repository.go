package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/copro_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/copro_ledger/internal/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes the repositories translate.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeInvalidText          = "22P02"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

const singleCurrentIndex = "idx_fiscal_periods_single_current"

// Querier is the subset of pgx shared by the pool and an open transaction, so
// every repository runs unchanged inside or outside a unit of work.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

var (
	_ Querier = (*pgxpool.Pool)(nil)
	_ Querier = (pgx.Tx)(nil)
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db Querier
}

// Store runs units of work as SERIALIZABLE transactions and retries them on
// serialization failures and deadlocks.
type Store struct {
	pool       *pgxpool.Pool
	maxRetries int
}

// NewStore creates a Store over the pool. maxRetries is the number of extra
// attempts after a serialization failure.
func NewStore(pool *pgxpool.Pool, maxRetries int) *Store {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Store{pool: pool, maxRetries: maxRetries}
}

var _ portsrepo.Store = (*Store)(nil)

// Repositories returns repositories bound to the pool, each call in autocommit.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return NewRepositoryProvider(s.pool)
}

func (s *Store) RunInTx(ctx context.Context, fn portsrepo.TxFunc) error {
	var err error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		err = s.runOnce(ctx, fn)
		if !isRetryable(err) {
			return err
		}
		middleware.GetLoggerFromCtx(ctx).Warn("Retrying unit of work after serialization failure",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))
	}
	return fmt.Errorf("%w: gave up after %d attempts: %v", apperrors.ErrConflict, s.maxRetries+1, err)
}

func (s *Store) runOnce(ctx context.Context, fn portsrepo.TxFunc) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	defer func() {
		// Rollback after a successful commit returns ErrTxClosed.
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to rollback transaction", slog.String("error", rbErr.Error()))
		}
	}()

	if err := fn(ctx, NewRepositoryProvider(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to commit transaction", err)
	}
	return nil
}

func isRetryable(err error) bool {
	code, _ := pgErrorCode(err)
	return code == codeSerializationFailure || code == codeDeadlockDetected
}

// pgErrorCode extracts the SQLSTATE and constraint name of a PostgreSQL error.
func pgErrorCode(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// notFoundOr maps a missing row (or an id that is not even a valid uuid) to
// apperrors.ErrNotFound and wraps anything else with context.
func notFoundOr(err error, entity, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError(entity, id)
	}
	if code, _ := pgErrorCode(err); code == codeInvalidText {
		return apperrors.NewNotFoundError(entity, id)
	}
	return fmt.Errorf("failed to load %s %s: %w", entity, id, err)
}

// writeError translates constraint violations raised by a write.
func writeError(err error, entity, id string) error {
	code, constraint := pgErrorCode(err)
	switch code {
	case codeUniqueViolation:
		if constraint == singleCurrentIndex {
			return fmt.Errorf("%w: %s %s", apperrors.ErrConcurrentPeriodChange, entity, id)
		}
		return fmt.Errorf("%w: %s %s", apperrors.ErrDuplicate, entity, id)
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s %s references a missing row (%s)", apperrors.ErrNotFound, entity, id, constraint)
	case codeCheckViolation:
		return fmt.Errorf("%w: %s %s violates %s", apperrors.ErrValidation, entity, id, constraint)
	case codeSerializationFailure, codeDeadlockDetected:
		return err
	}
	return fmt.Errorf("failed to write %s %s: %w", entity, id, err)
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}
