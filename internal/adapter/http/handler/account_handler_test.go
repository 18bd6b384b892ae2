package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/groupledger/internal/adapter/http/dto"
	"github.com/iho/groupledger/internal/domain"
	"github.com/iho/groupledger/internal/usecase"
)

func TestAccountHandler_Open(t *testing.T) {
	var gotInput usecase.OpenAccountInput
	svc := &stubAccountService{
		openFn: func(ctx context.Context, group domain.GroupID, input usecase.OpenAccountInput) (*domain.Account, error) {
			gotInput = input
			return sampleAccount("acc-1", input.OpeningBalance.String()), nil
		},
	}
	h := NewAccountHandler(svc)

	body := `{"name":"Cash","currency":"USD","opening_balance":"25.5"}`
	req := asCaller(httptest.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewBufferString(body)), "g1", "alice", "")
	rr := httptest.NewRecorder()

	h.Open(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotInput.ActorID != "alice" || gotInput.Currency != "USD" {
		t.Fatalf("unexpected input: %+v", gotInput)
	}

	var resp dto.AccountResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Balance != "25.50" {
		t.Fatalf("expected balance 25.50, got %s", resp.Balance)
	}
}

func TestAccountHandler_OpenValidationError(t *testing.T) {
	svc := &stubAccountService{
		openFn: func(ctx context.Context, group domain.GroupID, input usecase.OpenAccountInput) (*domain.Account, error) {
			return nil, domain.ErrInvalidCurrency
		},
	}
	h := NewAccountHandler(svc)

	req := asCaller(httptest.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewBufferString(`{"name":"Cash","currency":"XX"}`)), "g1", "alice", "")
	rr := httptest.NewRecorder()

	h.Open(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestAccountHandler_GetAndList(t *testing.T) {
	svc := &stubAccountService{
		getFn: func(ctx context.Context, group domain.GroupID, id string) (*domain.Account, error) {
			if id != "acc-1" {
				return nil, domain.ErrAccountNotFound
			}
			return sampleAccount(id, "5"), nil
		},
		listFn: func(ctx context.Context, group domain.GroupID) ([]*domain.Account, error) {
			return []*domain.Account{sampleAccount("acc-1", "5")}, nil
		},
	}
	h := NewAccountHandler(svc)

	rr := httptest.NewRecorder()
	h.Get(rr, asCaller(httptest.NewRequest(http.MethodGet, "/api/v1/accounts/acc-1", nil), "g1", "", "acc-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.Get(rr, asCaller(httptest.NewRequest(http.MethodGet, "/api/v1/accounts/missing", nil), "g1", "", "missing"))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.List(rr, asCaller(httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil), "g1", "", ""))
	var resp dto.ListAccountsResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("expected one account, got %d", resp.Total)
	}
}

func TestAccountHandler_Delete(t *testing.T) {
	var gotActor string
	svc := &stubAccountService{
		deleteFn: func(ctx context.Context, group domain.GroupID, id, actorID string) error {
			gotActor = actorID
			if id == "funded" {
				return domain.ErrAccountNotEmpty
			}
			return nil
		},
	}
	h := NewAccountHandler(svc)

	rr := httptest.NewRecorder()
	h.Delete(rr, asCaller(httptest.NewRequest(http.MethodDelete, "/api/v1/accounts/empty", nil), "g1", "bob", "empty"))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if gotActor != "bob" {
		t.Fatalf("expected actor bob, got %s", gotActor)
	}

	rr = httptest.NewRecorder()
	h.Delete(rr, asCaller(httptest.NewRequest(http.MethodDelete, "/api/v1/accounts/funded", nil), "g1", "bob", "funded"))
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}
