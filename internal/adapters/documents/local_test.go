package documents

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*LocalStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewLocalStore(filepath.Join(dir, "docs"), filepath.Join(dir, "index", "documents.db"))
	require.NoError(t, err)
	store.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { store.Close() })
	return store, filepath.Join(dir, "docs")
}

func TestLocalStore_StoreAndRelease(t *testing.T) {
	store, docs := newTestStore(t)
	ctx := context.Background()
	opDate := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	ref, err := store.Store(ctx, domain.DocumentUpload{FileName: "invoice.pdf", Content: []byte("%PDF-1.4")}, opDate, "water bill")
	require.NoError(t, err)
	assert.Equal(t, "20240502_WATER_BILL_invoice.pdf", ref.Reference)
	assert.Equal(t, int64(8), ref.Size)
	assert.Equal(t, "pdf", ref.Extension)

	content, err := os.ReadFile(filepath.Join(docs, ref.Reference))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(content))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, store.Release(ctx, *ref))
	_, err = os.Stat(filepath.Join(docs, ref.Reference))
	assert.True(t, os.IsNotExist(err))

	n, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	err = store.Release(ctx, *ref)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLocalStore_RejectsDuplicateName(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	opDate := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	upload := domain.DocumentUpload{FileName: "invoice.pdf", Content: []byte("a")}

	_, err := store.Store(ctx, upload, opDate, "water bill")
	require.NoError(t, err)

	_, err = store.Store(ctx, upload, opDate, "water bill")
	assert.ErrorIs(t, err, apperrors.ErrDocumentRejected)
	assert.ErrorIs(t, err, apperrors.ErrExternalDependency)
}

func TestLocalStore_ValidationRules(t *testing.T) {
	store, docs := newTestStore(t)
	ctx := context.Background()
	opDate := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		upload domain.DocumentUpload
		date   time.Time
	}{
		{"extension", domain.DocumentUpload{FileName: "run.exe", Content: []byte("x")}, opDate},
		{"size", domain.DocumentUpload{FileName: "big.png", Content: make([]byte, domain.MaxDocumentSize+1)}, opDate},
		{"future date", domain.DocumentUpload{FileName: "a.jpg", Content: []byte("x")}, time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Store(ctx, tt.upload, tt.date, "label")
			assert.ErrorIs(t, err, apperrors.ErrDocumentRejected)
		})
	}

	entries, err := os.ReadDir(docs)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
