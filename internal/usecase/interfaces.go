package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/groupledger/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// AccountRepository defines data access for accounts. Every lookup is scoped by
// group; accounts of another group and soft-deleted accounts are reported as
// domain.ErrAccountNotFound.
type AccountRepository interface {
	CreateTx(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id domain.AccountID, group domain.GroupID) (*domain.Account, error)
	// GetByIDsForUpdate locks the accounts in the order given and returns those found.
	GetByIDsForUpdate(ctx context.Context, tx Transaction, group domain.GroupID, ids []domain.AccountID) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id domain.AccountID, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, group domain.GroupID) ([]*domain.Account, error)
	SoftDelete(ctx context.Context, tx Transaction, id domain.AccountID, group domain.GroupID, deletedAt time.Time) error
}

// TransferRepository defines data access for transfers. Transfers are immutable,
// so there is no update or delete.
type TransferRepository interface {
	Create(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id domain.TransferID, group domain.GroupID) (*domain.Transfer, error)
	// ListByGroup returns the group's transfers ordered by created_at DESC, id DESC.
	ListByGroup(ctx context.Context, group domain.GroupID) ([]*domain.Transfer, error)
}

// LedgerRepository defines data access for ledger-wide checks.
type LedgerRepository interface {
	TotalsByCurrency(ctx context.Context, group domain.GroupID) ([]domain.CurrencyTotals, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// RateProvider resolves the exchange rate between two currencies for a given
// source amount and optional caller-supplied target amount.
type RateProvider interface {
	Rate(ctx context.Context, source, target domain.Currency, sourceAmount decimal.Decimal, targetAmount *decimal.Decimal) (decimal.Decimal, error)
}

// TransferCache caches immutable transfers for the read side.
type TransferCache interface {
	Get(ctx context.Context, group domain.GroupID, id domain.TransferID) (*domain.Transfer, bool, error)
	Set(ctx context.Context, transfer *domain.Transfer) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request failed so the client may retry it.
	Release(ctx context.Context, key string) error
}
