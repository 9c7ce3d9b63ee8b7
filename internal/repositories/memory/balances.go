package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/copro_ledger/internal/core/ports/repositories"
)

type balanceRepo struct{ a access }

var _ portsrepo.BalanceRepositoryFacade = (*balanceRepo)(nil)

func (r *balanceRepo) FindBalance(_ context.Context, accountCode, periodID string) (*domain.AccountPeriodBalance, error) {
	var out *domain.AccountPeriodBalance
	err := r.a.read(func(st *state) error {
		b, ok := st.balances[balanceKey{account: accountCode, period: periodID}]
		if !ok {
			return fmt.Errorf("%w: balance of account %s in period %s", apperrors.ErrNotFound, accountCode, periodID)
		}
		out = &b
		return nil
	})
	return out, err
}

func (r *balanceRepo) ListBalancesByPeriod(_ context.Context, periodID string) ([]domain.AccountPeriodBalance, error) {
	var out []domain.AccountPeriodBalance
	err := r.a.read(func(st *state) error {
		for k, b := range st.balances {
			if k.period == periodID {
				out = append(out, b)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].AccountCode < out[j].AccountCode })
	return out, err
}

func (r *balanceRepo) UpsertBalance(_ context.Context, balance domain.AccountPeriodBalance) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.accounts[balance.AccountCode]; !ok {
			return apperrors.NewNotFoundError("account", balance.AccountCode)
		}
		period, ok := st.periods[balance.PeriodID]
		if !ok {
			return apperrors.NewNotFoundError("fiscal period", balance.PeriodID)
		}
		if !period.IsOpen {
			return fmt.Errorf("%w: balance of account %s in %s", apperrors.ErrPeriodClosed, balance.AccountCode, period)
		}
		st.balances[balanceKey{account: balance.AccountCode, period: balance.PeriodID}] = balance
		return nil
	})
}
