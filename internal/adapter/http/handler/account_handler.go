package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/groupledger/internal/adapter/http/dto"
	"github.com/iho/groupledger/internal/domain"
	"github.com/iho/groupledger/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	OpenAccount(ctx context.Context, groupID domain.GroupID, input usecase.OpenAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, groupID domain.GroupID, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, groupID domain.GroupID) ([]*domain.Account, error)
	DeleteAccount(ctx context.Context, groupID domain.GroupID, id, actorID string) error
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Open opens a new account in the caller's group.
func (h *AccountHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body: "+err.Error())
		return
	}

	p := principal(r)
	input, err := req.ToUseCaseInput(p.ActorID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	account, err := h.accountUC.OpenAccount(r.Context(), p.GroupID, input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountUC.GetAccount(r.Context(), principal(r).GroupID, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists the group's accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountUC.ListAccounts(r.Context(), principal(r).GroupID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// Delete soft-deletes an empty account.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p := principal(r)
	if err := h.accountUC.DeleteAccount(r.Context(), p.GroupID, chi.URLParam(r, "id"), p.ActorID); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
