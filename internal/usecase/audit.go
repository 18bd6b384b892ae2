package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/groupledger/internal/domain"
	"github.com/iho/groupledger/internal/infrastructure/metrics"
)

// AuditRecorder writes audit entries after a unit of work has committed.
// Recording is best-effort: failures are logged and never surface to the caller.
type AuditRecorder struct {
	repo    AuditRepository
	idGen   IDGenerator
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewAuditRecorder creates a new AuditRecorder.
func NewAuditRecorder(repo AuditRepository, idGen IDGenerator, m *metrics.Metrics, logger zerolog.Logger) *AuditRecorder {
	return &AuditRecorder{
		repo:    repo,
		idGen:   idGen,
		metrics: m,
		logger:  logger,
	}
}

// AuditEntry describes one audited action.
type AuditEntry struct {
	GroupID      domain.GroupID
	ActorID      string
	Action       domain.AuditAction
	ResourceType string
	ResourceID   string
	State        domain.JSON
	Err          error
}

// Record stores the entry. A nil recorder is a no-op.
func (r *AuditRecorder) Record(ctx context.Context, entry AuditEntry) {
	if r == nil || r.repo == nil {
		return
	}

	actor := entry.ActorID
	if actor == "" {
		actor = domain.SystemActor
	}

	status := domain.AuditStatusSuccess
	var errMsg string
	if entry.Err != nil {
		status = domain.AuditStatusFailure
		errMsg = entry.Err.Error()
	}

	log := &domain.AuditLog{
		ID:           r.idGen.Generate(),
		GroupID:      entry.GroupID,
		ActorID:      actor,
		Action:       string(entry.Action),
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		AfterState:   entry.State,
		Status:       string(status),
		ErrorMessage: errMsg,
		CreatedAt:    timestamp(time.Now()),
	}

	if err := r.repo.Create(ctx, log); err != nil {
		r.logger.Error().Err(err).
			Str("action", log.Action).
			Str("resource_id", log.ResourceID).
			Msg("failed to record audit log")
		return
	}

	if r.metrics != nil {
		r.metrics.AuditLogsCreated.WithLabelValues(log.Action, log.Status).Inc()
	}
}

// List returns audit logs matching the filter. The group is always applied.
func (r *AuditRecorder) List(ctx context.Context, group domain.GroupID, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	if group == "" {
		return nil, domain.ErrMissingGroup
	}

	filter.GroupID = group
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 100
	}

	return r.repo.List(ctx, filter)
}
