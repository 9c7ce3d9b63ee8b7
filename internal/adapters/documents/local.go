// Package documents keeps the supporting documents attached to transactions.
package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	"github.com/SscSPs/copro_ledger/internal/core/ports"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const indexSchema = `
CREATE TABLE IF NOT EXISTS documents (
	reference      TEXT PRIMARY KEY,
	size           INTEGER NOT NULL,
	extension      TEXT NOT NULL,
	operation_date TEXT NOT NULL,
	label          TEXT NOT NULL,
	stored_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_operation_date ON documents (operation_date);
`

// LocalStore writes documents into a directory and records each one in a
// SQLite index next to it.
type LocalStore struct {
	dir   string
	index *sql.DB
	now   func() time.Time
}

var _ ports.DocumentStore = (*LocalStore)(nil)

// NewLocalStore creates dir if needed and opens (or initializes) the index at indexPath.
func NewLocalStore(dir, indexPath string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create document directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(indexPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL", indexPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open document index: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping document index: %w", err)
	}
	if _, err := db.Exec(indexSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize document index: %w", err)
	}

	return &LocalStore{
		dir:   dir,
		index: db,
		now:   func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close closes the index.
func (s *LocalStore) Close() error {
	return s.index.Close()
}

// Store validates the upload, writes it as YYYYMMDD_LABEL_original.ext and
// indexes it. A name already in use is rejected rather than overwritten.
func (s *LocalStore) Store(ctx context.Context, upload domain.DocumentUpload, operationDate time.Time, label string) (*domain.DocumentRef, error) {
	if err := upload.Validate(operationDate, s.now()); err != nil {
		return nil, err
	}
	ref := domain.DocumentRef{
		Reference: domain.DocumentName(operationDate, label, upload.FileName),
		Size:      int64(len(upload.Content)),
		Extension: upload.Extension(),
	}

	path := filepath.Join(s.dir, ref.Reference)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: a document named %s is already stored", apperrors.ErrDocumentRejected, ref.Reference)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrExternalDependency, err)
	}
	if _, err := f.Write(upload.Content); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("%w: writing %s: %v", apperrors.ErrExternalDependency, ref.Reference, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("%w: writing %s: %v", apperrors.ErrExternalDependency, ref.Reference, err)
	}

	_, err = s.index.ExecContext(ctx,
		`INSERT INTO documents (reference, size, extension, operation_date, label, stored_at) VALUES (?, ?, ?, ?, ?, ?)`,
		ref.Reference, ref.Size, ref.Extension,
		operationDate.Format(domain.DateLayout), label, s.now().Format(time.RFC3339))
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("%w: indexing %s: %v", apperrors.ErrExternalDependency, ref.Reference, err)
	}
	return &ref, nil
}

// Release deletes the file and its index row.
func (s *LocalStore) Release(ctx context.Context, ref domain.DocumentRef) error {
	res, err := s.index.ExecContext(ctx, `DELETE FROM documents WHERE reference = ?`, ref.Reference)
	if err != nil {
		return fmt.Errorf("%w: unindexing %s: %v", apperrors.ErrExternalDependency, ref.Reference, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewNotFoundError("document", ref.Reference)
	}
	if err := os.Remove(filepath.Join(s.dir, ref.Reference)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: removing %s: %v", apperrors.ErrExternalDependency, ref.Reference, err)
	}
	return nil
}

// Count returns how many documents are indexed.
func (s *LocalStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.index.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return n, nil
}
