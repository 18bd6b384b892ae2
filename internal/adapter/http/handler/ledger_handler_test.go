package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/groupledger/internal/adapter/http/dto"
	"github.com/iho/groupledger/internal/domain"
	"github.com/iho/groupledger/internal/usecase"
)

type stubLedgerService struct {
	report *usecase.ConsistencyReport
	err    error
}

func (s *stubLedgerService) CheckConsistency(ctx context.Context, group domain.GroupID) (*usecase.ConsistencyReport, error) {
	return s.report, s.err
}

type stubAuditService struct {
	gotGroup  domain.GroupID
	gotFilter domain.AuditFilter
	logs      []*domain.AuditLog
}

func (s *stubAuditService) List(ctx context.Context, group domain.GroupID, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	s.gotGroup = group
	s.gotFilter = filter
	return s.logs, nil
}

func TestLedgerHandler_CheckConsistency(t *testing.T) {
	tests := []struct {
		name       string
		svc        *stubLedgerService
		wantStatus int
	}{
		{"consistent", &stubLedgerService{report: &usecase.ConsistencyReport{GroupID: "g1", Consistent: true, CheckedAt: fixedTime}}, http.StatusOK},
		{"inconsistent", &stubLedgerService{report: &usecase.ConsistencyReport{GroupID: "g1", Consistent: false, CheckedAt: fixedTime}}, http.StatusConflict},
		{"failure", &stubLedgerService{err: errors.New("db down")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewLedgerHandler(tt.svc)
			rr := httptest.NewRecorder()

			h.CheckConsistency(rr, asCaller(httptest.NewRequest(http.MethodGet, "/api/v1/ledger/consistency", nil), "g1", "", ""))

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rr.Code)
			}
			if tt.svc.report == nil {
				return
			}
			var resp dto.ConsistencyResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Consistent != tt.svc.report.Consistent {
				t.Fatalf("expected consistent=%v", tt.svc.report.Consistent)
			}
		})
	}
}

func TestAuditHandler_List(t *testing.T) {
	svc := &stubAuditService{logs: []*domain.AuditLog{{ID: "a1", GroupID: "g1", Action: "transfer.create", CreatedAt: fixedTime}}}
	h := NewAuditHandler(svc)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs?action=transfer.create&resource_id=tr-1&limit=5", nil)
	h.List(rr, asCaller(req, "g1", "", ""))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if svc.gotGroup != "g1" {
		t.Fatalf("expected group g1, got %s", svc.gotGroup)
	}
	if svc.gotFilter.Action != "transfer.create" || svc.gotFilter.ResourceID != "tr-1" || svc.gotFilter.Limit != 5 {
		t.Fatalf("unexpected filter: %+v", svc.gotFilter)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("connection refused") }

	rr := httptest.NewRecorder()
	NewHealthHandler(map[string]Check{"postgres": ok}).Readiness(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	NewHealthHandler(map[string]Check{"postgres": ok, "redis": down}).Readiness(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["redis"] != "connection refused" || body["postgres"] != "ok" {
		t.Fatalf("unexpected readiness body: %v", body)
	}
}
