package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/copro_ledger/internal/core/ports"
	"github.com/SscSPs/copro_ledger/internal/middleware"
	"github.com/SscSPs/copro_ledger/internal/platform/config"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// dependencies are the optional collaborators shared by the ledger services.
type dependencies struct {
	now       func() time.Time
	documents ports.DocumentStore
	lots      ports.LotRegistry
	ledger    config.LedgerConfig
}

// ServiceOption is a functional option for configuring the ledger services
type ServiceOption func(*dependencies)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(d *dependencies) {
		d.now = now
	}
}

// WithDocumentStore sets where supporting documents are kept.
func WithDocumentStore(store ports.DocumentStore) ServiceOption {
	return func(d *dependencies) {
		d.documents = store
	}
}

// WithLotRegistry sets the registry used to resolve lot references.
func WithLotRegistry(registry ports.LotRegistry) ServiceOption {
	return func(d *dependencies) {
		d.lots = registry
	}
}

// WithLedgerConfig sets the designated accounts and the successor period length.
func WithLedgerConfig(cfg config.LedgerConfig) ServiceOption {
	return func(d *dependencies) {
		d.ledger = cfg
	}
}

func newDependencies(options ...ServiceOption) dependencies {
	d := dependencies{
		now:    func() time.Time { return time.Now().UTC() },
		ledger: config.DefaultLedgerConfig(),
	}
	for _, option := range options {
		option(&d)
	}
	return d
}
