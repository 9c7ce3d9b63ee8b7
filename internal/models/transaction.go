package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType indicates whether a journal entry is a Debit or a Credit.
type EntryType string

const (
	Debit  EntryType = "DEBIT"
	Credit EntryType = "CREDIT"
)

// Transaction is a row of transactions. Document columns are NULL when no
// supporting document was attached.
type Transaction struct {
	TransactionID     string         `db:"transaction_id"`
	PeriodID          string         `db:"period_id"`
	OperationDate     time.Time      `db:"operation_date"`
	Label             string         `db:"label"`
	Source            string         `db:"source"`
	DocumentReference sql.NullString `db:"document_reference"`
	DocumentSize      sql.NullInt64  `db:"document_size"`
	DocumentExtension sql.NullString `db:"document_extension"`
	AuditFields
}

// JournalEntry is a row of journal_entries. At most one of LotID and
// SupplierCode is set; a CHECK constraint enforces it.
type JournalEntry struct {
	EntryID       string          `db:"entry_id"`
	TransactionID string          `db:"transaction_id"`
	AccountCode   string          `db:"account_code"`
	Amount        decimal.Decimal `db:"amount"`
	EntryType     EntryType       `db:"entry_type"`
	LotID         sql.NullString  `db:"lot_id"`
	SupplierCode  sql.NullString  `db:"supplier_code"`
	AuditFields
}
