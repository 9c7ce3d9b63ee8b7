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

type PgxBalanceRepository struct {
	BaseRepository
}

var _ portsrepo.BalanceRepositoryFacade = (*PgxBalanceRepository)(nil)

const balanceColumns = `account_code, period_id, opening_balance, current_balance, last_updated_at`

func scanBalance(row scanner) (models.AccountPeriodBalance, error) {
	var m models.AccountPeriodBalance
	err := row.Scan(&m.AccountCode, &m.PeriodID, &m.Opening, &m.Current, &m.LastUpdatedAt)
	return m, err
}

func (r *PgxBalanceRepository) FindBalance(ctx context.Context, accountCode, periodID string) (*domain.AccountPeriodBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM account_period_balances WHERE account_code = $1 AND period_id = $2;`
	m, err := scanBalance(r.db.QueryRow(ctx, query, accountCode, periodID))
	if err != nil {
		return nil, notFoundOr(err, "balance", accountCode+"@"+periodID)
	}
	balance := mapping.ToDomainBalance(m)
	return &balance, nil
}

func (r *PgxBalanceRepository) ListBalancesByPeriod(ctx context.Context, periodID string) ([]domain.AccountPeriodBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM account_period_balances WHERE period_id = $1 ORDER BY account_code;`
	rows, err := r.db.Query(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances of period %s: %w", periodID, err)
	}
	defer rows.Close()

	var balances []domain.AccountPeriodBalance
	for rows.Next() {
		m, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance row: %w", err)
		}
		balances = append(balances, mapping.ToDomainBalance(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balance rows: %w", err)
	}
	return balances, nil
}

// UpsertBalance writes the balance only while its period is open. The guard
// lives in the statement so a period closed by another unit of work is seen.
func (r *PgxBalanceRepository) UpsertBalance(ctx context.Context, balance domain.AccountPeriodBalance) error {
	m := mapping.ToModelBalance(balance)
	query := `
		INSERT INTO account_period_balances (` + balanceColumns + `)
		SELECT $1::varchar, p.period_id, $3::numeric, $4::numeric, $5::timestamptz
		FROM fiscal_periods p
		WHERE p.period_id = $2 AND p.is_open
		ON CONFLICT (account_code, period_id) DO UPDATE
		SET opening_balance = EXCLUDED.opening_balance,
		    current_balance = EXCLUDED.current_balance,
		    last_updated_at = EXCLUDED.last_updated_at;
	`
	tag, err := r.db.Exec(ctx, query, m.AccountCode, m.PeriodID, m.Opening, m.Current, m.LastUpdatedAt)
	if err != nil {
		return writeError(err, "balance", m.AccountCode+"@"+m.PeriodID)
	}
	if tag.RowsAffected() == 0 {
		return r.closedOrMissing(ctx, m.AccountCode, m.PeriodID)
	}
	return nil
}

func (r *PgxBalanceRepository) closedOrMissing(ctx context.Context, accountCode, periodID string) error {
	var isOpen bool
	err := r.db.QueryRow(ctx, `SELECT is_open FROM fiscal_periods WHERE period_id = $1;`, periodID).Scan(&isOpen)
	if err != nil {
		return notFoundOr(err, "fiscal period", periodID)
	}
	return fmt.Errorf("%w: balance of account %s in period %s", apperrors.ErrPeriodClosed, accountCode, periodID)
}
