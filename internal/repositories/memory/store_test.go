package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/copro_ledger/internal/apperrors"
	"github.com/SscSPs/copro_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/copro_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	boom := errors.New("boom")

	err := store.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		require.NoError(t, repos.AccountRepo.SaveAccount(ctx, domain.Account{Code: "3421", Classification: domain.Asset}))
		_, err := repos.AccountRepo.FindAccountByCode(ctx, "3421")
		require.NoError(t, err, "writes are visible inside the unit of work")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.Repositories().AccountRepo.FindAccountByCode(ctx, "3421")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRunInTx_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	err := store.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		return repos.AccountRepo.SaveAccount(ctx, domain.Account{Code: "7111", Classification: domain.Revenue})
	})
	require.NoError(t, err)

	acc, err := store.Repositories().AccountRepo.FindAccountByCode(ctx, "7111")
	require.NoError(t, err)
	assert.Equal(t, domain.Revenue, acc.Classification)

	err = store.Repositories().AccountRepo.SaveAccount(ctx, domain.Account{Code: "7111"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateCode)
}

func TestSetCurrentPeriod_SingleHolder(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	now := time.Now()

	require.NoError(t, repos.PeriodRepo.SavePeriod(ctx, domain.FiscalPeriod{PeriodID: "p1", IsOpen: true, IsCurrent: true}))
	require.NoError(t, repos.PeriodRepo.SavePeriod(ctx, domain.FiscalPeriod{PeriodID: "p2", IsOpen: true}))

	err := repos.PeriodRepo.SetCurrentPeriod(ctx, "p2", now, "test")
	assert.ErrorIs(t, err, apperrors.ErrConcurrentPeriodChange)

	require.NoError(t, repos.PeriodRepo.ClearCurrentPeriod(ctx, now, "test"))
	require.NoError(t, repos.PeriodRepo.SetCurrentPeriod(ctx, "p2", now, "test"))

	current, err := repos.PeriodRepo.FindCurrentPeriod(ctx)
	require.NoError(t, err)
	assert.Equal(t, "p2", current.PeriodID)
}

func TestRunInTx_SerializesWriters(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.Repositories().AccountRepo.SaveAccount(ctx, domain.Account{Code: "3421", Classification: domain.Asset}))
	require.NoError(t, store.Repositories().PeriodRepo.SavePeriod(ctx, domain.FiscalPeriod{PeriodID: "p1", IsOpen: true}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.RunInTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
				b, err := repos.BalanceRepo.FindBalance(ctx, "3421", "p1")
				if errors.Is(err, apperrors.ErrNotFound) {
					b = &domain.AccountPeriodBalance{AccountCode: "3421", PeriodID: "p1", Opening: decimal.Zero, Current: decimal.Zero}
				} else if err != nil {
					return err
				}
				b.Current = b.Current.Add(decimal.NewFromInt(1))
				return repos.BalanceRepo.UpsertBalance(ctx, *b)
			})
		}()
	}
	wg.Wait()

	b, err := store.Repositories().BalanceRepo.FindBalance(ctx, "3421", "p1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(20).Equal(b.Current))
}

func TestDeleteEntries_UnknownEntry(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	require.NoError(t, repos.AccountRepo.SaveAccount(ctx, domain.Account{Code: "3421"}))
	require.NoError(t, repos.TransactionRepo.SaveTransaction(ctx, domain.Transaction{
		TransactionID: "t1",
		Entries:       []domain.JournalEntry{{EntryID: "e1", TransactionID: "t1", AccountCode: "3421", Type: domain.Debit}},
	}))

	err := repos.TransactionRepo.DeleteEntries(ctx, "t1", []string{"e1", "e9"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	tx, err := repos.TransactionRepo.FindTransactionByID(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, tx.Entries, 1)
}

func TestUpsertBalance_ClosedPeriodRefused(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	require.NoError(t, repos.AccountRepo.SaveAccount(ctx, domain.Account{Code: "512", Classification: domain.Asset}))
	require.NoError(t, repos.PeriodRepo.SavePeriod(ctx, domain.FiscalPeriod{PeriodID: "p1", IsOpen: true}))

	balance := domain.AccountPeriodBalance{AccountCode: "512", PeriodID: "p1", Opening: decimal.Zero, Current: decimal.NewFromInt(10)}
	require.NoError(t, repos.BalanceRepo.UpsertBalance(ctx, balance))
	require.NoError(t, repos.PeriodRepo.MarkPeriodClosed(ctx, "p1", time.Now(), "test"))

	balance.Current = decimal.NewFromInt(99)
	err := repos.BalanceRepo.UpsertBalance(ctx, balance)
	assert.ErrorIs(t, err, apperrors.ErrPeriodClosed)

	stored, err := repos.BalanceRepo.FindBalance(ctx, "512", "p1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(stored.Current))
}
