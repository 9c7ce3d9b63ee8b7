package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType indicates whether a journal entry is a Debit or a Credit.
type EntryType string

const (
	Debit  EntryType = "DEBIT"
	Credit EntryType = "CREDIT"
)

// TransactionSource records which part of the ledger produced a transaction.
type TransactionSource string

const (
	SourceManual         TransactionSource = "MANUAL"
	SourceBilling        TransactionSource = "BILLING"
	SourceClosing        TransactionSource = "CLOSING"
	SourceResultTransfer TransactionSource = "RESULT_TRANSFER"
)

// Transaction groups journal entries that must balance.
type Transaction struct {
	TransactionID string            `json:"transactionID"` // Primary Key (UUID)
	PeriodID      string            `json:"periodID"`      // FK -> fiscal_periods, open at creation
	OperationDate time.Time         `json:"operationDate"` // Not in the future when a document is attached
	Label         string            `json:"label"`         // Uppercase
	Source        TransactionSource `json:"source"`
	Document      *DocumentRef      `json:"document,omitempty"`
	Entries       []JournalEntry    `json:"entries"`
	AuditFields
}

// JournalEntry is one debit or credit line of a transaction.
type JournalEntry struct {
	EntryID       string          `json:"entryID"`
	TransactionID string          `json:"transactionID"`
	AccountCode   string          `json:"accountCode"`
	Amount        decimal.Decimal `json:"amount"` // Never negative
	Type          EntryType       `json:"type"`
	Counterparty  Counterparty    `json:"counterparty"`
	AuditFields
}

// Totals sums the debit and credit entries of the transaction.
func (t Transaction) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, e := range t.Entries {
		if e.Type == Debit {
			debit = debit.Add(e.Amount)
		} else {
			credit = credit.Add(e.Amount)
		}
	}
	return debit, credit
}

// AccountCodes returns the distinct account codes touched by the transaction, in entry order.
func (t Transaction) AccountCodes() []string {
	seen := make(map[string]bool, len(t.Entries))
	codes := make([]string, 0, len(t.Entries))
	for _, e := range t.Entries {
		if !seen[e.AccountCode] {
			seen[e.AccountCode] = true
			codes = append(codes, e.AccountCode)
		}
	}
	return codes
}

// AmountDecimals is the scale amounts and balances are stored with.
const AmountDecimals = 2

// FitsAmountPrecision reports whether a can be stored without rounding.
// Trailing zeros are fine: 12.50 and 12.500 both fit.
func FitsAmountPrecision(a decimal.Decimal) bool {
	return a.Equal(a.Truncate(AmountDecimals))
}
