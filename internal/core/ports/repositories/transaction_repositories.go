package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/copro_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionPage selects a slice of a period's transactions, newest operation date first.
type TransactionPage struct {
	Limit int
	// AfterDate and AfterCreatedAt position the page after the last row of the previous one.
	AfterDate      *time.Time
	AfterCreatedAt *time.Time
}

// TransactionReader defines read operations for transactions and their entries
type TransactionReader interface {
	// FindTransactionByID loads a transaction with its entries.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByPeriod loads a page of transactions with their entries.
	ListTransactionsByPeriod(ctx context.Context, periodID string, page TransactionPage) ([]domain.Transaction, error)

	// SumEntries totals the debits and credits posted to an account within a period.
	SumEntries(ctx context.Context, accountCode, periodID string) (debit, credit decimal.Decimal, err error)

	// SumEntriesByTransaction totals each transaction of the period (Key = transaction ID).
	SumEntriesByTransaction(ctx context.Context, periodID string) ([]domain.EntryTotals, error)

	// SumEntriesByAccount totals each account of the period (Key = account code),
	// ignoring transactions produced by the given sources.
	SumEntriesByAccount(ctx context.Context, periodID string, excludeSources ...domain.TransactionSource) ([]domain.EntryTotals, error)

	// FindTransactionLabels returns the labels of the period's transactions whose
	// operation date lies in [from, to] and whose label contains marker.
	FindTransactionLabels(ctx context.Context, periodID string, from, to time.Time, marker string) (map[string]struct{}, error)
}

// TransactionWriter defines write operations for transactions and their entries
type TransactionWriter interface {
	// SaveTransaction persists the transaction header and all of its entries.
	SaveTransaction(ctx context.Context, tx domain.Transaction) error

	// SaveEntries appends entries to an existing transaction.
	SaveEntries(ctx context.Context, entries []domain.JournalEntry) error

	// DeleteEntries removes entries of one transaction.
	DeleteEntries(ctx context.Context, transactionID string, entryIDs []string) error

	// DeleteTransaction removes a transaction and cascades to its entries.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
