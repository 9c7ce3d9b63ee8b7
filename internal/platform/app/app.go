// Package app assembles the ledger services from configuration. It is shared
// by the HTTP server and the operator CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/copro_ledger/internal/adapters/documents"
	"github.com/SscSPs/copro_ledger/internal/adapters/lotregistry"
	"github.com/SscSPs/copro_ledger/internal/core/ports"
	portssvc "github.com/SscSPs/copro_ledger/internal/core/ports/services"
	"github.com/SscSPs/copro_ledger/internal/core/services"
	"github.com/SscSPs/copro_ledger/internal/platform/config"
	"github.com/SscSPs/copro_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/copro_ledger/pkg/database"
)

// Ledger bundles the service container with the resources it holds open.
type Ledger struct {
	Services *portssvc.ServiceContainer
	closers  []func()
}

// Close releases the database pool and the document index.
func (l *Ledger) Close() {
	for i := len(l.closers) - 1; i >= 0; i-- {
		l.closers[i]()
	}
}

// NewLedger connects to PostgreSQL and wires the configured document store and
// lot registry into the services. Migrations are the caller's concern.
func NewLedger(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Ledger, error) {
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return nil, err
	}
	l := &Ledger{closers: []func(){func() { database.ClosePgxPool(pool) }}}

	options := []services.ServiceOption{services.WithLedgerConfig(cfg.Ledger)}

	docStore, closeDocs, err := newDocumentStore(ctx, cfg)
	if err != nil {
		l.Close()
		return nil, err
	}
	if closeDocs != nil {
		l.closers = append(l.closers, closeDocs)
	}
	options = append(options, services.WithDocumentStore(docStore))
	logDocumentStore(ctx, logger, cfg.DocumentStore, docStore)

	if cfg.LotRegistryURL != "" {
		options = append(options, services.WithLotRegistry(lotregistry.NewHTTPRegistry(cfg.LotRegistryURL, nil)))
		logger.Info("Lot registry configured", slog.String("url", cfg.LotRegistryURL))
	}

	l.Services = services.NewServiceContainer(pgsql.NewStore(pool, cfg.TxMaxRetries), options...)
	return l, nil
}

func newDocumentStore(ctx context.Context, cfg *config.Config) (ports.DocumentStore, func(), error) {
	switch cfg.DocumentStore {
	case "", "local":
		store, err := documents.NewLocalStore(cfg.DocumentDir, cfg.DocumentIndexPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open local document store: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	case "gdrive":
		store, err := documents.NewDriveStore(ctx, cfg.GDrive)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown DOCUMENT_STORE %q", cfg.DocumentStore)
	}
}

// logDocumentStore reports the configured store, with the number of indexed
// documents when the store keeps a local index.
func logDocumentStore(ctx context.Context, logger *slog.Logger, kind string, store ports.DocumentStore) {
	attrs := []any{slog.String("kind", kind)}
	if local, ok := store.(*documents.LocalStore); ok {
		count, err := local.Count(ctx)
		if err != nil {
			logger.Warn("Failed to count indexed documents", slog.String("error", err.Error()))
		} else {
			attrs = append(attrs, slog.Int("documents", count))
		}
	}
	logger.Info("Document store configured", attrs...)
}
