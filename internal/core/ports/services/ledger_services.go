package services

import (
	"context"
	"time"

	"github.com/SscSPs/copro_ledger/internal/core/domain"
	"github.com/SscSPs/copro_ledger/internal/dto"
)

// PeriodSvcFacade manages the fiscal period lifecycle
type PeriodSvcFacade interface {
	CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest, userID string) (*domain.FiscalPeriod, error)
	GetPeriod(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)
	ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error)

	// GetCurrent fails with apperrors.ErrNoCurrentPeriod when no period is current.
	GetCurrent(ctx context.Context) (*domain.FiscalPeriod, error)

	// MarkCurrent moves the current flag to an open period in one unit of work.
	MarkCurrent(ctx context.Context, periodID string, userID string) (*domain.FiscalPeriod, error)
}

// BalanceLedgerSvc maintains one balance record per (account, period)
type BalanceLedgerSvc interface {
	// GetBalance returns the record, creating a zero one for open periods.
	GetBalance(ctx context.Context, accountCode, periodID string) (*domain.AccountPeriodBalance, error)

	// Recompute sets current = opening + debits - credits over the period's entries.
	Recompute(ctx context.Context, accountCode, periodID string) (*domain.AccountPeriodBalance, error)

	// CarryForward seeds the opening balance of toPeriodID from the current balance of fromPeriodID.
	CarryForward(ctx context.Context, accountCode, fromPeriodID, toPeriodID string) (*domain.AccountPeriodBalance, error)

	ListPeriodBalances(ctx context.Context, periodID string) ([]domain.AccountPeriodBalance, error)
}

// TransactionSvcFacade records transactions and their entries
type TransactionSvcFacade interface {
	// OpenTransaction starts a draft in an open period. An empty periodID means the current period.
	OpenTransaction(ctx context.Context, operationDate time.Time, label, periodID string, document *domain.DocumentUpload) (*domain.TransactionDraft, error)

	// Commit validates and persists a draft atomically.
	Commit(ctx context.Context, draft *domain.TransactionDraft, userID string) (*domain.Transaction, error)

	// PostTransaction opens, fills and commits a transaction in one call.
	PostTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)

	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, periodID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// AmendEntries adds and removes entries; the transaction must still balance afterwards.
	AmendEntries(ctx context.Context, transactionID string, req dto.AmendEntriesRequest, userID string) (*domain.Transaction, error)

	// DeleteTransaction removes a transaction, its entries and its supporting document.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// ClosingSvc closes fiscal periods
type ClosingSvc interface {
	ClosePeriod(ctx context.Context, periodID string, userID string) (*domain.ClosingResult, error)
}
