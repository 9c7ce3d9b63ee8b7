package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/copro_ledger/internal/core/ports/repositories"
)

type accountRepo struct{ a access }

var _ portsrepo.AccountRepositoryFacade = (*accountRepo)(nil)

func (r *accountRepo) FindAccountByCode(_ context.Context, code string) (*domain.Account, error) {
	var out *domain.Account
	err := r.a.read(func(st *state) error {
		acc, ok := st.accounts[code]
		if !ok {
			return apperrors.NewNotFoundError("account", code)
		}
		out = &acc
		return nil
	})
	return out, err
}

func (r *accountRepo) FindAccountsByCodes(_ context.Context, codes []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(codes))
	err := r.a.read(func(st *state) error {
		for _, code := range codes {
			if acc, ok := st.accounts[code]; ok {
				out[code] = acc
			}
		}
		return nil
	})
	return out, err
}

func (r *accountRepo) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return r.list(func(domain.Account) bool { return true })
}

func (r *accountRepo) ListAccountsByClassification(_ context.Context, c domain.Classification) ([]domain.Account, error) {
	return r.list(func(acc domain.Account) bool { return acc.Classification == c })
}

func (r *accountRepo) list(keep func(domain.Account) bool) ([]domain.Account, error) {
	var out []domain.Account
	err := r.a.read(func(st *state) error {
		for _, acc := range st.accounts {
			if keep(acc) {
				out = append(out, acc)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func (r *accountRepo) IsAccountReferenced(_ context.Context, code string) (bool, error) {
	referenced := false
	err := r.a.read(func(st *state) error {
		for k := range st.balances {
			if k.account == code {
				referenced = true
				return nil
			}
		}
		for _, tx := range st.transactions {
			for _, e := range tx.Entries {
				if e.AccountCode == code {
					referenced = true
					return nil
				}
			}
		}
		return nil
	})
	return referenced, err
}

func (r *accountRepo) SaveAccount(_ context.Context, account domain.Account) error {
	return r.a.write(func(st *state) error {
		if _, exists := st.accounts[account.Code]; exists {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateCode, account.Code)
		}
		st.accounts[account.Code] = account
		return nil
	})
}

func (r *accountRepo) UpdateAccount(_ context.Context, account domain.Account) error {
	return r.a.write(func(st *state) error {
		if _, exists := st.accounts[account.Code]; !exists {
			return apperrors.NewNotFoundError("account", account.Code)
		}
		st.accounts[account.Code] = account
		return nil
	})
}

func (r *accountRepo) DeleteAccount(_ context.Context, code string) error {
	return r.a.write(func(st *state) error {
		if _, exists := st.accounts[code]; !exists {
			return apperrors.NewNotFoundError("account", code)
		}
		delete(st.accounts, code)
		return nil
	})
}
