package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/groupledger/internal/adapter/http/middleware"
	"github.com/iho/groupledger/internal/domain"
	"github.com/iho/groupledger/internal/usecase"
)

var fixedTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

type stubAccountService struct {
	openFn   func(ctx context.Context, group domain.GroupID, input usecase.OpenAccountInput) (*domain.Account, error)
	getFn    func(ctx context.Context, group domain.GroupID, id string) (*domain.Account, error)
	listFn   func(ctx context.Context, group domain.GroupID) ([]*domain.Account, error)
	deleteFn func(ctx context.Context, group domain.GroupID, id, actorID string) error
}

func (s *stubAccountService) OpenAccount(ctx context.Context, group domain.GroupID, input usecase.OpenAccountInput) (*domain.Account, error) {
	return s.openFn(ctx, group, input)
}

func (s *stubAccountService) GetAccount(ctx context.Context, group domain.GroupID, id string) (*domain.Account, error) {
	return s.getFn(ctx, group, id)
}

func (s *stubAccountService) ListAccounts(ctx context.Context, group domain.GroupID) ([]*domain.Account, error) {
	return s.listFn(ctx, group)
}

func (s *stubAccountService) DeleteAccount(ctx context.Context, group domain.GroupID, id, actorID string) error {
	return s.deleteFn(ctx, group, id, actorID)
}

type stubTransferService struct {
	createFn func(ctx context.Context, group domain.GroupID, input usecase.CreateTransferInput) (*domain.Transfer, error)
	getFn    func(ctx context.Context, group domain.GroupID, id string) (*domain.Transfer, error)
	listFn   func(ctx context.Context, group domain.GroupID) ([]*domain.Transfer, error)
}

func (s *stubTransferService) CreateTransfer(ctx context.Context, group domain.GroupID, input usecase.CreateTransferInput) (*domain.Transfer, error) {
	return s.createFn(ctx, group, input)
}

func (s *stubTransferService) GetTransfer(ctx context.Context, group domain.GroupID, id string) (*domain.Transfer, error) {
	return s.getFn(ctx, group, id)
}

func (s *stubTransferService) ListTransfers(ctx context.Context, group domain.GroupID) ([]*domain.Transfer, error) {
	return s.listFn(ctx, group)
}

func sampleAccount(id string, balance string) *domain.Account {
	return &domain.Account{
		ID:             domain.AccountID(id),
		OwnedBy:        "g1",
		Name:           "Cash",
		Currency:       "USD",
		Balance:        domain.Money{Amount: decimal.RequireFromString(balance), Currency: "USD"},
		OpeningBalance: decimal.RequireFromString(balance),
		Version:        1,
		CreatedAt:      fixedTime,
		UpdatedAt:      fixedTime,
	}
}

func sampleTransfer(id string) *domain.Transfer {
	return &domain.Transfer{
		ID:              domain.TransferID(id),
		OwnedBy:         "g1",
		SourceAccountID: "acc-1",
		TargetAccountID: "acc-2",
		SourceAmount:    domain.Money{Amount: decimal.RequireFromString("10"), Currency: "USD"},
		TargetAmount:    domain.Money{Amount: decimal.RequireFromString("9.2"), Currency: "EUR"},
		ExchangeRate:    decimal.RequireFromString("0.92"),
		Description:     "rent",
		CreatedAt:       fixedTime,
	}
}

// asCaller attaches the principal and, when id is set, a chi URL param.
func asCaller(r *http.Request, group domain.GroupID, actor, id string) *http.Request {
	ctx := middleware.WithPrincipal(r.Context(), middleware.Principal{ActorID: actor, GroupID: group})
	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return r.WithContext(ctx)
}
