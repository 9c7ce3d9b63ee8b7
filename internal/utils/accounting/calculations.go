package accounting

import (
	"fmt"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount returns the effect of an entry on a debit-minus-credit balance.
func SignedAmount(entry domain.JournalEntry) decimal.Decimal {
	if entry.Type == domain.Credit {
		return entry.Amount.Neg()
	}
	return entry.Amount
}

// ApplyTotals computes opening + debit - credit.
func ApplyTotals(opening, debit, credit decimal.Decimal) decimal.Decimal {
	return opening.Add(debit).Sub(credit)
}

// ValidateTransactionBalance checks that debits equal credits. A transaction
// without entries is trivially balanced.
func ValidateTransactionBalance(tx domain.Transaction) error {
	debit, credit := tx.Totals()
	if !debit.Equal(credit) {
		return fmt.Errorf("%w: transaction %q debits sum is %s and credits sum is %s",
			apperrors.ErrUnbalancedTransaction, tx.Label, debit.StringFixed(2), credit.StringFixed(2))
	}
	return nil
}

// NetResult is the sum of credits on revenue accounts minus the sum of debits
// on expense accounts.
func NetResult(totals []domain.EntryTotals) decimal.Decimal {
	net := decimal.Zero
	for _, t := range totals {
		switch t.Classification {
		case domain.Revenue:
			net = net.Add(t.Credit)
		case domain.Expense:
			net = net.Sub(t.Debit)
		}
	}
	return net
}

// ZeroingEntry returns the entry that brings an account with the given
// debit-minus-credit balance back to zero, and its mirror on the clearing account.
// ok is false when the balance is already zero.
func ZeroingEntry(accountCode, clearingCode string, balance decimal.Decimal) (entry, mirror domain.JournalEntry, ok bool) {
	if balance.IsZero() {
		return entry, mirror, false
	}
	amount := balance.Abs()
	entryType, mirrorType := domain.Credit, domain.Debit
	if balance.IsNegative() {
		entryType, mirrorType = domain.Debit, domain.Credit
	}
	entry = domain.JournalEntry{AccountCode: accountCode, Amount: amount, Type: entryType}
	mirror = domain.JournalEntry{AccountCode: clearingCode, Amount: amount, Type: mirrorType}
	return entry, mirror, true
}

// TransferEntries moves the net result from the clearing account to retained
// earnings: retained earnings is credited on profit and debited on loss.
func TransferEntries(clearingCode, retainedCode string, net decimal.Decimal) []domain.JournalEntry {
	if net.IsZero() {
		return nil
	}
	amount := net.Abs()
	clearingType, retainedType := domain.Debit, domain.Credit
	if net.IsNegative() {
		clearingType, retainedType = domain.Credit, domain.Debit
	}
	return []domain.JournalEntry{
		{AccountCode: clearingCode, Amount: amount, Type: clearingType},
		{AccountCode: retainedCode, Amount: amount, Type: retainedType},
	}
}
