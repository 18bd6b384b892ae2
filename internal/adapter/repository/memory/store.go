// Package memory is an in-process storage backend. Accounts are guarded by
// per-account locks taken in sorted id order; a transaction stages its writes
// and applies them all at once on commit, so readers never observe half of a
// unit of work.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/iho/groupledger/internal/domain"
	"github.com/iho/groupledger/internal/usecase"
)

var (
	// ErrTxClosed is returned when a committed or rolled back transaction is reused.
	ErrTxClosed = errors.New("memory: transaction already closed")
	// ErrForeignTx is returned when a repository receives a transaction from another backend.
	ErrForeignTx = errors.New("memory: transaction does not belong to this store")
	// ErrNotLocked is returned when a write targets an account the transaction has not locked.
	ErrNotLocked = errors.New("memory: account is not locked by this transaction")
)

// Store holds all state of the in-memory backend.
type Store struct {
	mu        sync.RWMutex
	accounts  map[domain.AccountID]*domain.Account
	transfers map[domain.TransferID]*domain.Transfer
	outbox    []*domain.OutboxEvent
	audit     []*domain.AuditLog

	locksMu sync.Mutex
	locks   map[domain.AccountID]chan struct{}
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts:  make(map[domain.AccountID]*domain.Account),
		transfers: make(map[domain.TransferID]*domain.Transfer),
		locks:     make(map[domain.AccountID]chan struct{}),
	}
}

func (s *Store) accountLock(id domain.AccountID) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	l, ok := s.locks[id]
	if !ok {
		l = make(chan struct{}, 1)
		s.locks[id] = l
	}
	return l
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Tx{store: m.store, held: make(map[domain.AccountID]chan struct{})}, nil
}

// Tx is a unit of work against a Store.
type Tx struct {
	store  *Store
	held   map[domain.AccountID]chan struct{}
	writes []func(s *Store)
	closed bool
}

// lock acquires the account locks not yet held, in sorted order. It gives up when
// ctx is done, keeping the locks acquired so far until the transaction ends.
func (t *Tx) lock(ctx context.Context, ids []domain.AccountID) error {
	sorted := make([]domain.AccountID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for _, id := range sorted {
		if _, ok := t.held[id]; ok {
			continue
		}
		l := t.store.accountLock(id)
		select {
		case l <- struct{}{}:
			t.held[id] = l
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (t *Tx) stage(w func(s *Store)) error {
	if t.closed {
		return ErrTxClosed
	}
	t.writes = append(t.writes, w)
	return nil
}

// Commit applies the staged writes atomically. An expired context rolls back instead.
func (t *Tx) Commit(ctx context.Context) error {
	if t.closed {
		return ErrTxClosed
	}
	if err := ctx.Err(); err != nil {
		t.release()
		return err
	}

	t.store.mu.Lock()
	for _, w := range t.writes {
		w(t.store)
	}
	t.store.mu.Unlock()

	t.release()
	return nil
}

// Rollback discards staged writes. Rolling back a closed transaction is a no-op.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.closed {
		return nil
	}
	t.release()
	return nil
}

func (t *Tx) release() {
	for id, l := range t.held {
		<-l
		delete(t.held, id)
	}
	t.writes = nil
	t.closed = true
}

func asTx(tx usecase.Transaction) (*Tx, error) {
	mt, ok := tx.(*Tx)
	if !ok {
		return nil, ErrForeignTx
	}
	if mt.closed {
		return nil, ErrTxClosed
	}
	return mt, nil
}
