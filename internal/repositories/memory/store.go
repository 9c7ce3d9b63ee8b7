// Package memory is an in-process implementation of the repository ports.
// Units of work run on a private copy of the state which replaces the
// committed state only when the unit succeeds.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/copro_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/copro_ledger/internal/core/ports/repositories"
)

type balanceKey struct {
	account string
	period  string
}

type state struct {
	accounts      map[string]domain.Account
	periods       map[string]domain.FiscalPeriod
	balances      map[balanceKey]domain.AccountPeriodBalance
	transactions  map[string]domain.Transaction
	subscriptions map[string]domain.Subscription
	suppliers     map[string]domain.Supplier
}

func newState() *state {
	return &state{
		accounts:      make(map[string]domain.Account),
		periods:       make(map[string]domain.FiscalPeriod),
		balances:      make(map[balanceKey]domain.AccountPeriodBalance),
		transactions:  make(map[string]domain.Transaction),
		subscriptions: make(map[string]domain.Subscription),
		suppliers:     make(map[string]domain.Supplier),
	}
}

func (s *state) clone() *state {
	c := &state{
		accounts:      make(map[string]domain.Account, len(s.accounts)),
		periods:       make(map[string]domain.FiscalPeriod, len(s.periods)),
		balances:      make(map[balanceKey]domain.AccountPeriodBalance, len(s.balances)),
		transactions:  make(map[string]domain.Transaction, len(s.transactions)),
		subscriptions: make(map[string]domain.Subscription, len(s.subscriptions)),
		suppliers:     make(map[string]domain.Supplier, len(s.suppliers)),
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.periods {
		c.periods[k] = v
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = copyTransaction(v)
	}
	for k, v := range s.subscriptions {
		c.subscriptions[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	return c
}

func copyTransaction(tx domain.Transaction) domain.Transaction {
	entries := make([]domain.JournalEntry, len(tx.Entries))
	copy(entries, tx.Entries)
	tx.Entries = entries
	if tx.Document != nil {
		doc := *tx.Document
		tx.Document = &doc
	}
	return tx
}

// access abstracts over the committed state and the private copy of a unit of work.
type access interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
}

// Store is a thread-safe in-memory ledger store.
type Store struct {
	writeMu sync.Mutex   // serializes writers and units of work
	mu      sync.RWMutex // guards the state pointer
	state   *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{state: newState()}
}

var _ portsrepo.Store = (*Store)(nil)

type liveAccess struct{ s *Store }

func (a liveAccess) read(fn func(st *state) error) error {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	return fn(a.s.state)
}

func (a liveAccess) write(fn func(st *state) error) error {
	a.s.writeMu.Lock()
	defer a.s.writeMu.Unlock()
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return fn(a.s.state)
}

type txAccess struct{ st *state }

func (a txAccess) read(fn func(st *state) error) error  { return fn(a.st) }
func (a txAccess) write(fn func(st *state) error) error { return fn(a.st) }

func newProvider(a access) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:      &accountRepo{a: a},
		PeriodRepo:       &periodRepo{a: a},
		BalanceRepo:      &balanceRepo{a: a},
		TransactionRepo:  &transactionRepo{a: a},
		SubscriptionRepo: &subscriptionRepo{a: a},
		SupplierRepo:     &supplierRepo{a: a},
	}
}

// Repositories returns repositories bound to the committed state.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return newProvider(liveAccess{s: s})
}

// RunInTx runs fn against a private copy of the state and publishes the copy
// only when fn succeeds.
func (s *Store) RunInTx(ctx context.Context, fn portsrepo.TxFunc) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	work := s.state.clone()
	s.mu.RUnlock()

	if err := fn(ctx, newProvider(txAccess{st: work})); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = work
	s.mu.Unlock()
	return nil
}
