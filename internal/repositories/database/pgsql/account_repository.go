package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/copro_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/copro_ledger/internal/models"
	"github.com/SscSPs/copro_ledger/internal/utils/mapping"
)

type PgxAccountRepository struct {
	BaseRepository
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `code, label, classification, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row scanner) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.Code,
		&m.Label,
		&m.Classification,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindAccountByCode retrieves an account by its code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`
	m, err := scanAccount(r.db.QueryRow(ctx, query, code))
	if err != nil {
		return nil, notFoundOr(err, "account", code)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountsByCodes retrieves the accounts that exist among codes.
func (r *PgxAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	accounts := make(map[string]domain.Account, len(codes))
	if len(codes) == 0 {
		return accounts, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = ANY($1);`
	found, err := r.list(ctx, query, codes)
	if err != nil {
		return nil, err
	}
	for _, acc := range found {
		accounts[acc.Code] = acc
	}
	return accounts, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return r.list(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY code;`)
}

func (r *PgxAccountRepository) ListAccountsByClassification(ctx context.Context, classification domain.Classification) ([]domain.Account, error) {
	return r.list(ctx, `SELECT `+accountColumns+` FROM accounts WHERE classification = $1 ORDER BY code;`, string(classification))
}

func (r *PgxAccountRepository) list(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var ms []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// IsAccountReferenced reports whether an entry or a balance row points at the account.
func (r *PgxAccountRepository) IsAccountReferenced(ctx context.Context, code string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM journal_entries WHERE account_code = $1)
		    OR EXISTS (SELECT 1 FROM account_period_balances WHERE account_code = $1);
	`
	var referenced bool
	if err := r.db.QueryRow(ctx, query, code).Scan(&referenced); err != nil {
		return false, fmt.Errorf("failed to check references of account %s: %w", code, err)
	}
	return referenced, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.db.Exec(ctx, query,
		m.Code,
		m.Label,
		m.Classification,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if code, _ := pgErrorCode(err); code == codeUniqueViolation {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateCode, m.Code)
		}
		return writeError(err, "account", m.Code)
	}
	return nil
}

// UpdateAccount updates label and classification.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET label = $2, classification = $3, last_updated_at = $4, last_updated_by = $5
		WHERE code = $1;
	`
	tag, err := r.db.Exec(ctx, query, m.Code, m.Label, m.Classification, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return writeError(err, "account", m.Code)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account", m.Code)
	}
	return nil
}

// DeleteAccount removes an account. Foreign keys reject the delete while
// entries or balances still reference it.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, code string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE code = $1;`, code)
	if err != nil {
		if c, _ := pgErrorCode(err); c == codeForeignKeyViolation {
			return fmt.Errorf("%w: %s", apperrors.ErrAccountInUse, code)
		}
		return writeError(err, "account", code)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account", code)
	}
	return nil
}
