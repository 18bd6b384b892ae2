package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/groupledger/internal/domain"
	"github.com/iho/groupledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// CreateTx stages a new account within a transaction.
func (r *AccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}

	r.store.mu.RLock()
	_, exists := r.store.accounts[account.ID]
	r.store.mu.RUnlock()
	if exists {
		return fmt.Errorf("memory: account %s already exists", account.ID)
	}

	snapshot := account.Clone()
	return mt.stage(func(s *Store) {
		s.accounts[snapshot.ID] = snapshot
	})
}

// GetByID retrieves an active account of the group.
func (r *AccountRepository) GetByID(ctx context.Context, id domain.AccountID, group domain.GroupID) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.accounts[id]
	if !ok || a.OwnedBy != group || a.Deleted {
		return nil, domain.ErrAccountNotFound
	}
	return a.Clone(), nil
}

// GetByIDsForUpdate locks the accounts in sorted order and returns copies of the
// active ones owned by the group.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, group domain.GroupID, ids []domain.AccountID) ([]*domain.Account, error) {
	mt, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	if err := mt.lock(ctx, ids); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	accounts := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		a, ok := r.store.accounts[id]
		if !ok || a.OwnedBy != group || a.Deleted {
			continue
		}
		accounts = append(accounts, a.Clone())
	}
	return accounts, nil
}

// UpdateBalance stages a balance update for a locked account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id domain.AccountID, balance decimal.Decimal, updatedAt time.Time) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	if _, ok := mt.held[id]; !ok {
		return ErrNotLocked
	}

	return mt.stage(func(s *Store) {
		if a, ok := s.accounts[id]; ok {
			a.Balance = domain.Money{Amount: balance, Currency: a.Currency}
			a.Version++
			a.UpdatedAt = updatedAt
		}
	})
}

// List returns the group's active accounts ordered by name, then id.
func (r *AccountRepository) List(ctx context.Context, group domain.GroupID) ([]*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	accounts := make([]*domain.Account, 0)
	for _, a := range r.store.accounts {
		if a.OwnedBy == group && !a.Deleted {
			accounts = append(accounts, a.Clone())
		}
	}

	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Name != accounts[j].Name {
			return accounts[i].Name < accounts[j].Name
		}
		return accounts[i].ID < accounts[j].ID
	})

	return accounts, nil
}

// SoftDelete stages the soft deletion of a locked account.
func (r *AccountRepository) SoftDelete(ctx context.Context, tx usecase.Transaction, id domain.AccountID, group domain.GroupID, deletedAt time.Time) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}
	if _, ok := mt.held[id]; !ok {
		return ErrNotLocked
	}

	return mt.stage(func(s *Store) {
		if a, ok := s.accounts[id]; ok && a.OwnedBy == group {
			a.SoftDelete(deletedAt)
		}
	})
}
