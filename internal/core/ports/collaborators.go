package ports

import (
	"context"
	"time"

	"github.com/SscSPs/copro_ledger/internal/core/domain"
)

// Collaborators outside the ledger. They are called before or after a unit of
// work, never inside one.

// DocumentStore keeps supporting documents of transactions.
type DocumentStore interface {
	// Store validates and saves the payload, returning its reference.
	// Rejections wrap apperrors.ErrDocumentRejected.
	Store(ctx context.Context, upload domain.DocumentUpload, operationDate time.Time, label string) (*domain.DocumentRef, error)

	// Release deletes a stored document.
	Release(ctx context.Context, ref domain.DocumentRef) error
}

// LotRegistry answers whether a lot reference still exists.
type LotRegistry interface {
	LotExists(ctx context.Context, lotID string) (bool, error)
}
