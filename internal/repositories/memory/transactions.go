package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/copro_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type transactionRepo struct{ a access }

var _ portsrepo.TransactionRepositoryFacade = (*transactionRepo)(nil)

func (r *transactionRepo) FindTransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	var out *domain.Transaction
	err := r.a.read(func(st *state) error {
		tx, ok := st.transactions[transactionID]
		if !ok {
			return apperrors.NewNotFoundError("transaction", transactionID)
		}
		found := copyTransaction(tx)
		out = &found
		return nil
	})
	return out, err
}

func (r *transactionRepo) ListTransactionsByPeriod(_ context.Context, periodID string, page portsrepo.TransactionPage) ([]domain.Transaction, error) {
	var out []domain.Transaction
	err := r.a.read(func(st *state) error {
		for _, tx := range st.transactions {
			if tx.PeriodID != periodID {
				continue
			}
			if page.AfterDate != nil && !isAfterCursor(tx, *page.AfterDate, page.AfterCreatedAt) {
				continue
			}
			out = append(out, copyTransaction(tx))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OperationDate.Equal(out[j].OperationDate) {
			return out[i].OperationDate.After(out[j].OperationDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if page.Limit > 0 && len(out) > page.Limit {
		out = out[:page.Limit]
	}
	return out, err
}

// isAfterCursor reports whether tx sorts strictly after the cursor in
// (operation date desc, created at desc) order.
func isAfterCursor(tx domain.Transaction, date time.Time, createdAt *time.Time) bool {
	if tx.OperationDate.Before(date) {
		return true
	}
	if tx.OperationDate.Equal(date) && createdAt != nil {
		return tx.CreatedAt.Before(*createdAt)
	}
	return false
}

func (r *transactionRepo) SumEntries(_ context.Context, accountCode, periodID string) (decimal.Decimal, decimal.Decimal, error) {
	debit, credit := decimal.Zero, decimal.Zero
	err := r.a.read(func(st *state) error {
		for _, tx := range st.transactions {
			if tx.PeriodID != periodID {
				continue
			}
			for _, e := range tx.Entries {
				if e.AccountCode != accountCode {
					continue
				}
				if e.Type == domain.Debit {
					debit = debit.Add(e.Amount)
				} else {
					credit = credit.Add(e.Amount)
				}
			}
		}
		return nil
	})
	return debit, credit, err
}

func (r *transactionRepo) SumEntriesByTransaction(_ context.Context, periodID string) ([]domain.EntryTotals, error) {
	var out []domain.EntryTotals
	err := r.a.read(func(st *state) error {
		for _, tx := range st.transactions {
			if tx.PeriodID != periodID || len(tx.Entries) == 0 {
				continue
			}
			debit, credit := tx.Totals()
			out = append(out, domain.EntryTotals{Key: tx.TransactionID, Label: tx.Label, Debit: debit, Credit: credit})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, err
}

func (r *transactionRepo) SumEntriesByAccount(_ context.Context, periodID string, excludeSources ...domain.TransactionSource) ([]domain.EntryTotals, error) {
	excluded := make(map[domain.TransactionSource]bool, len(excludeSources))
	for _, s := range excludeSources {
		excluded[s] = true
	}

	totals := make(map[string]*domain.EntryTotals)
	err := r.a.read(func(st *state) error {
		for _, tx := range st.transactions {
			if tx.PeriodID != periodID || excluded[tx.Source] {
				continue
			}
			for _, e := range tx.Entries {
				t, ok := totals[e.AccountCode]
				if !ok {
					acc := st.accounts[e.AccountCode]
					t = &domain.EntryTotals{Key: e.AccountCode, Label: acc.Label, Classification: acc.Classification, Debit: decimal.Zero, Credit: decimal.Zero}
					totals[e.AccountCode] = t
				}
				if e.Type == domain.Debit {
					t.Debit = t.Debit.Add(e.Amount)
				} else {
					t.Credit = t.Credit.Add(e.Amount)
				}
			}
		}
		return nil
	})

	out := make([]domain.EntryTotals, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, err
}

func (r *transactionRepo) FindTransactionLabels(_ context.Context, periodID string, from, to time.Time, marker string) (map[string]struct{}, error) {
	labels := make(map[string]struct{})
	err := r.a.read(func(st *state) error {
		for _, tx := range st.transactions {
			if tx.PeriodID != periodID || tx.OperationDate.Before(from) || tx.OperationDate.After(to) {
				continue
			}
			if strings.Contains(tx.Label, marker) {
				labels[tx.Label] = struct{}{}
			}
		}
		return nil
	})
	return labels, err
}

func (r *transactionRepo) SaveTransaction(_ context.Context, tx domain.Transaction) error {
	return r.a.write(func(st *state) error {
		if _, exists := st.transactions[tx.TransactionID]; exists {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, tx.TransactionID)
		}
		if err := checkEntryReferences(st, tx.Entries); err != nil {
			return err
		}
		st.transactions[tx.TransactionID] = copyTransaction(tx)
		return nil
	})
}

func (r *transactionRepo) SaveEntries(_ context.Context, entries []domain.JournalEntry) error {
	return r.a.write(func(st *state) error {
		if err := checkEntryReferences(st, entries); err != nil {
			return err
		}
		for _, e := range entries {
			tx, ok := st.transactions[e.TransactionID]
			if !ok {
				return apperrors.NewNotFoundError("transaction", e.TransactionID)
			}
			tx.Entries = append(tx.Entries, e)
			st.transactions[e.TransactionID] = tx
		}
		return nil
	})
}

// checkEntryReferences emulates the foreign keys of journal_entries.
func checkEntryReferences(st *state, entries []domain.JournalEntry) error {
	for _, e := range entries {
		if _, ok := st.accounts[e.AccountCode]; !ok {
			return apperrors.NewNotFoundError("account", e.AccountCode)
		}
		if code := e.Counterparty.SupplierCode(); code != "" {
			if _, ok := st.suppliers[code]; !ok {
				return apperrors.NewNotFoundError("supplier", code)
			}
		}
	}
	return nil
}

func (r *transactionRepo) DeleteEntries(_ context.Context, transactionID string, entryIDs []string) error {
	return r.a.write(func(st *state) error {
		tx, ok := st.transactions[transactionID]
		if !ok {
			return apperrors.NewNotFoundError("transaction", transactionID)
		}
		remove := make(map[string]bool, len(entryIDs))
		for _, id := range entryIDs {
			remove[id] = true
		}
		kept := make([]domain.JournalEntry, 0, len(tx.Entries))
		for _, e := range tx.Entries {
			if remove[e.EntryID] {
				delete(remove, e.EntryID)
				continue
			}
			kept = append(kept, e)
		}
		if len(remove) > 0 {
			missing := make([]string, 0, len(remove))
			for id := range remove {
				missing = append(missing, id)
			}
			sort.Strings(missing)
			return apperrors.NewNotFoundError("journal entry", strings.Join(missing, ", "))
		}
		tx.Entries = kept
		st.transactions[transactionID] = tx
		return nil
	})
}

func (r *transactionRepo) DeleteTransaction(_ context.Context, transactionID string) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.transactions[transactionID]; !ok {
			return apperrors.NewNotFoundError("transaction", transactionID)
		}
		delete(st.transactions, transactionID)
		return nil
	})
}
