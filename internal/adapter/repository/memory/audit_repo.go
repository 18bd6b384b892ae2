package memory

import (
	"context"

	"github.com/iho/groupledger/internal/domain"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	store *Store
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(store *Store) *AuditRepository {
	return &AuditRepository{store: store}
}

// Create appends an audit log.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c := *log
	r.store.audit = append(r.store.audit, &c)
	return nil
}

// List returns audit logs matching the filter, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	logs := make([]*domain.AuditLog, 0)
	for i := len(r.store.audit) - 1; i >= 0; i-- {
		l := r.store.audit[i]
		if !matchesAudit(l, filter) {
			continue
		}
		c := *l
		logs = append(logs, &c)
		if filter.Limit > 0 && len(logs) >= filter.Limit {
			break
		}
	}
	return logs, nil
}

func matchesAudit(l *domain.AuditLog, f domain.AuditFilter) bool {
	switch {
	case f.GroupID != "" && l.GroupID != f.GroupID:
		return false
	case f.Action != "" && l.Action != f.Action:
		return false
	case f.ResourceType != "" && l.ResourceType != f.ResourceType:
		return false
	case f.ResourceID != "" && l.ResourceID != f.ResourceID:
		return false
	}
	return true
}
