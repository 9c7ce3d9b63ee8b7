package domain

import (
	"fmt"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TransactionDraft is a transaction being assembled before commit.
// Nothing in a draft is durable until it is committed.
type TransactionDraft struct {
	Transaction
	Document *DocumentUpload
}

// AddEntry appends a debit or credit line to the draft.
func (d *TransactionDraft) AddEntry(accountCode string, amount decimal.Decimal, entryType EntryType, cp Counterparty) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: amount %s on account %s must not be negative", apperrors.ErrInvalidAmount, amount, accountCode)
	}
	if !FitsAmountPrecision(amount) {
		return fmt.Errorf("%w: amount %s on account %s has more than %d decimal places", apperrors.ErrInvalidAmount, amount, accountCode, AmountDecimals)
	}
	if entryType != Debit && entryType != Credit {
		return fmt.Errorf("%w: entry type %q", apperrors.ErrValidation, entryType)
	}
	if accountCode == "" {
		return fmt.Errorf("%w: entry without account code", apperrors.ErrValidation)
	}
	d.Entries = append(d.Entries, JournalEntry{
		AccountCode:  accountCode,
		Amount:       amount,
		Type:         entryType,
		Counterparty: cp,
	})
	return nil
}
