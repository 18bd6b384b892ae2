package memory

import (
	"context"
	"sort"

	"github.com/iho/groupledger/internal/domain"
	"github.com/iho/groupledger/internal/usecase"
)

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	store *Store
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(store *Store) *TransferRepository {
	return &TransferRepository{store: store}
}

// Create stages a transfer within a transaction.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	mt, err := asTx(tx)
	if err != nil {
		return err
	}

	snapshot := *transfer
	return mt.stage(func(s *Store) {
		s.transfers[snapshot.ID] = &snapshot
	})
}

// GetByID retrieves a transfer of the group.
func (r *TransferRepository) GetByID(ctx context.Context, id domain.TransferID, group domain.GroupID) (*domain.Transfer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	t, ok := r.store.transfers[id]
	if !ok || t.OwnedBy != group {
		return nil, domain.ErrTransferNotFound
	}
	c := *t
	return &c, nil
}

// ListByGroup returns the group's transfers ordered by created_at DESC, id DESC.
func (r *TransferRepository) ListByGroup(ctx context.Context, group domain.GroupID) ([]*domain.Transfer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	transfers := make([]*domain.Transfer, 0)
	for _, t := range r.store.transfers {
		if t.OwnedBy == group {
			c := *t
			transfers = append(transfers, &c)
		}
	}

	sort.Slice(transfers, func(i, j int) bool {
		if !transfers[i].CreatedAt.Equal(transfers[j].CreatedAt) {
			return transfers[i].CreatedAt.After(transfers[j].CreatedAt)
		}
		return transfers[i].ID > transfers[j].ID
	})

	return transfers, nil
}
