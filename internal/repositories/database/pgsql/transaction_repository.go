package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/copro_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/copro_ledger/internal/models"
	"github.com/SscSPs/copro_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, period_id, operation_date, label, source,
	document_reference, document_size, document_extension,
	created_at, created_by, last_updated_at, last_updated_by`

const entryColumns = `entry_id, transaction_id, account_code, amount, entry_type, lot_id, supplier_code,
	created_at, created_by, last_updated_at, last_updated_by`

const singleCounterpartyCheck = "chk_journal_entries_single_counterparty"

// debitCreditSums aggregates the entries joined in as "je".
const debitCreditSums = `
	COALESCE(SUM(CASE WHEN je.entry_type = 'DEBIT' THEN je.amount END), 0),
	COALESCE(SUM(CASE WHEN je.entry_type = 'CREDIT' THEN je.amount END), 0)`

func scanTransaction(row scanner) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.PeriodID,
		&m.OperationDate,
		&m.Label,
		&m.Source,
		&m.DocumentReference,
		&m.DocumentSize,
		&m.DocumentExtension,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanEntry(row scanner) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.TransactionID,
		&m.AccountCode,
		&m.Amount,
		&m.EntryType,
		&m.LotID,
		&m.SupplierCode,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindTransactionByID loads a transaction with its entries in insertion order.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	m, err := scanTransaction(r.db.QueryRow(ctx, query, transactionID))
	if err != nil {
		return nil, notFoundOr(err, "transaction", transactionID)
	}
	tx := mapping.ToDomainTransaction(m)
	entries, err := r.loadEntries(ctx, []string{tx.TransactionID})
	if err != nil {
		return nil, err
	}
	tx.Entries = entries[tx.TransactionID]
	return &tx, nil
}

// ListTransactionsByPeriod returns a page ordered by operation date then
// creation time, newest first. The cursor uses a row comparison so the page
// boundary is stable even when several transactions share a date.
func (r *PgxTransactionRepository) ListTransactionsByPeriod(ctx context.Context, periodID string, page portsrepo.TransactionPage) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE period_id = $1`
	args := []any{periodID}
	switch {
	case page.AfterDate != nil && page.AfterCreatedAt != nil:
		query += ` AND (operation_date, created_at) < ($2, $3)`
		args = append(args, domain.DateOnly(*page.AfterDate), *page.AfterCreatedAt)
	case page.AfterDate != nil:
		query += ` AND operation_date < $2`
		args = append(args, domain.DateOnly(*page.AfterDate))
	}
	query += ` ORDER BY operation_date DESC, created_at DESC`
	if page.Limit > 0 {
		query += ` LIMIT $` + strconv.Itoa(len(args)+1)
		args = append(args, page.Limit)
	}

	rows, err := r.db.Query(ctx, query+";", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions of period %s: %w", periodID, err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	var ids []string
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txs = append(txs, mapping.ToDomainTransaction(m))
		ids = append(ids, m.TransactionID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	if len(ids) == 0 {
		return txs, nil
	}

	entries, err := r.loadEntries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range txs {
		txs[i].Entries = entries[txs[i].TransactionID]
	}
	return txs, nil
}

func (r *PgxTransactionRepository) loadEntries(ctx context.Context, transactionIDs []string) (map[string][]domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE transaction_id = ANY($1) ORDER BY seq;`
	rows, err := r.db.Query(ctx, query, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	entries := make(map[string][]domain.JournalEntry, len(transactionIDs))
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries[m.TransactionID] = append(entries[m.TransactionID], mapping.ToDomainEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}
	return entries, nil
}

func (r *PgxTransactionRepository) SumEntries(ctx context.Context, accountCode, periodID string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT ` + debitCreditSums + `
		FROM journal_entries je
		JOIN transactions t ON t.transaction_id = je.transaction_id
		WHERE je.account_code = $1 AND t.period_id = $2;
	`
	var debit, credit decimal.Decimal
	if err := r.db.QueryRow(ctx, query, accountCode, periodID).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum entries of account %s: %w", accountCode, err)
	}
	return debit, credit, nil
}

func (r *PgxTransactionRepository) SumEntriesByTransaction(ctx context.Context, periodID string) ([]domain.EntryTotals, error) {
	query := `
		SELECT t.transaction_id, t.label, ` + debitCreditSums + `
		FROM transactions t
		LEFT JOIN journal_entries je ON je.transaction_id = t.transaction_id
		WHERE t.period_id = $1
		GROUP BY t.transaction_id, t.label
		ORDER BY t.transaction_id;
	`
	return r.totals(ctx, query, false, periodID)
}

// SumEntriesByAccount is the aggregation behind the profit and loss report and
// the net result of a closing.
func (r *PgxTransactionRepository) SumEntriesByAccount(ctx context.Context, periodID string, excludeSources ...domain.TransactionSource) ([]domain.EntryTotals, error) {
	excluded := make([]string, 0, len(excludeSources))
	for _, s := range excludeSources {
		excluded = append(excluded, string(s))
	}
	query := `
		SELECT a.code, a.label, a.classification, ` + debitCreditSums + `
		FROM journal_entries je
		JOIN transactions t ON t.transaction_id = je.transaction_id
		JOIN accounts a ON a.code = je.account_code
		WHERE t.period_id = $1 AND NOT (t.source = ANY($2))
		GROUP BY a.code, a.label, a.classification
		ORDER BY a.code;
	`
	return r.totals(ctx, query, true, periodID, excluded)
}

func (r *PgxTransactionRepository) totals(ctx context.Context, query string, withClassification bool, args ...any) ([]domain.EntryTotals, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entry totals: %w", err)
	}
	defer rows.Close()

	var totals []domain.EntryTotals
	for rows.Next() {
		var t domain.EntryTotals
		dest := []any{&t.Key, &t.Label}
		var classification string
		if withClassification {
			dest = append(dest, &classification)
		}
		dest = append(dest, &t.Debit, &t.Credit)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan entry totals row: %w", err)
		}
		t.Classification = domain.Classification(classification)
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry totals rows: %w", err)
	}
	return totals, nil
}

func (r *PgxTransactionRepository) FindTransactionLabels(ctx context.Context, periodID string, from, to time.Time, marker string) (map[string]struct{}, error) {
	query := `
		SELECT DISTINCT label
		FROM transactions
		WHERE period_id = $1 AND operation_date BETWEEN $2 AND $3 AND strpos(label, $4) > 0;
	`
	rows, err := r.db.Query(ctx, query, periodID, domain.DateOnly(from), domain.DateOnly(to), marker)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction labels: %w", err)
	}
	defer rows.Close()

	labels := make(map[string]struct{})
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("failed to scan transaction label: %w", err)
		}
		labels[label] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction labels: %w", err)
	}
	return labels, nil
}

// SaveTransaction inserts the header and queues every entry in one batch.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, tx domain.Transaction) error {
	m := mapping.ToModelTransaction(tx)
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db.Exec(ctx, query,
		m.TransactionID,
		m.PeriodID,
		m.OperationDate,
		m.Label,
		m.Source,
		m.DocumentReference,
		m.DocumentSize,
		m.DocumentExtension,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return writeError(err, "transaction", m.TransactionID)
	}
	return r.SaveEntries(ctx, tx.Entries)
}

func (r *PgxTransactionRepository) SaveEntries(ctx context.Context, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for _, e := range entries {
		m := mapping.ToModelEntry(e)
		batch.Queue(query,
			m.EntryID,
			m.TransactionID,
			m.AccountCode,
			m.Amount,
			m.EntryType,
			m.LotID,
			m.SupplierCode,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	// Close reports the first failing insert of the batch.
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		if code, constraint := pgErrorCode(err); code == codeCheckViolation && constraint == singleCounterpartyCheck {
			return fmt.Errorf("%w: %v", apperrors.ErrConflictingCounterparty, err)
		}
		return writeError(err, "journal entry of transaction", entries[0].TransactionID)
	}
	return nil
}

func (r *PgxTransactionRepository) DeleteEntries(ctx context.Context, transactionID string, entryIDs []string) error {
	if len(entryIDs) == 0 {
		return nil
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM journal_entries WHERE transaction_id = $1 AND entry_id::text = ANY($2);`,
		transactionID, entryIDs)
	if err != nil {
		return writeError(err, "journal entries of transaction", transactionID)
	}
	if tag.RowsAffected() != int64(len(entryIDs)) {
		return apperrors.NewNotFoundError("journal entry of transaction", transactionID)
	}
	return nil
}

func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return writeError(err, "transaction", transactionID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transaction", transactionID)
	}
	return nil
}
