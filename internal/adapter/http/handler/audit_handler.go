package handler

import (
	"context"
	"net/http"

	"github.com/iho/groupledger/internal/adapter/http/dto"
	"github.com/iho/groupledger/internal/domain"
)

// AuditService defines the behavior needed by AuditHandler.
type AuditService interface {
	List(ctx context.Context, group domain.GroupID, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// AuditHandler serves the group's audit trail.
type AuditHandler struct {
	audit AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(audit AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List lists audit logs, newest first. Supports action, resource_type,
// resource_id and limit query parameters.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	logs, err := h.audit.List(r.Context(), principal(r).GroupID, domain.AuditFilter{
		Action:       q.Get("action"),
		ResourceType: q.Get("resource_type"),
		ResourceID:   q.Get("resource_id"),
		Limit:        parseIntQuery(r, "limit", 50),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"audit_logs": dto.AuditLogsFromDomain(logs),
		"total":      len(logs),
	})
}
