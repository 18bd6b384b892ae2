package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/iho/groupledger/internal/domain"
)

// DefaultTransferCacheTTL bounds how long a transfer stays cached.
const DefaultTransferCacheTTL = time.Hour

// TransferCache implements usecase.TransferCache using Redis. Transfers are
// immutable, so entries never need invalidation; the TTL only bounds memory.
type TransferCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewTransferCache creates a new TransferCache.
func NewTransferCache(client *redis.Client, ttl time.Duration) *TransferCache {
	if ttl <= 0 {
		ttl = DefaultTransferCacheTTL
	}
	return &TransferCache{
		client: client,
		prefix: "transfer:",
		ttl:    ttl,
	}
}

type cachedTransfer struct {
	ID              string          `json:"id"`
	GroupID         string          `json:"group_id"`
	SourceAccountID string          `json:"source_account_id"`
	TargetAccountID string          `json:"target_account_id"`
	SourceAmount    decimal.Decimal `json:"source_amount"`
	SourceCurrency  string          `json:"source_currency"`
	TargetAmount    decimal.Decimal `json:"target_amount"`
	TargetCurrency  string          `json:"target_currency"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	Description     string          `json:"description"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (c *TransferCache) key(group domain.GroupID, id domain.TransferID) string {
	return c.prefix + string(group) + ":" + string(id)
}

// Get returns the cached transfer. The key includes the group, so a transfer
// of another group is a miss.
func (c *TransferCache) Get(ctx context.Context, group domain.GroupID, id domain.TransferID) (*domain.Transfer, bool, error) {
	data, err := c.client.Get(ctx, c.key(group, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var ct cachedTransfer
	if err := json.Unmarshal(data, &ct); err != nil {
		return nil, false, err
	}

	return &domain.Transfer{
		ID:              domain.TransferID(ct.ID),
		OwnedBy:         domain.GroupID(ct.GroupID),
		SourceAccountID: domain.AccountID(ct.SourceAccountID),
		TargetAccountID: domain.AccountID(ct.TargetAccountID),
		SourceAmount:    domain.Money{Amount: ct.SourceAmount, Currency: domain.Currency(ct.SourceCurrency)},
		TargetAmount:    domain.Money{Amount: ct.TargetAmount, Currency: domain.Currency(ct.TargetCurrency)},
		ExchangeRate:    ct.ExchangeRate,
		Description:     ct.Description,
		CreatedAt:       ct.CreatedAt,
	}, true, nil
}

// Set stores the transfer with the cache TTL.
func (c *TransferCache) Set(ctx context.Context, t *domain.Transfer) error {
	data, err := json.Marshal(cachedTransfer{
		ID:              string(t.ID),
		GroupID:         string(t.OwnedBy),
		SourceAccountID: string(t.SourceAccountID),
		TargetAccountID: string(t.TargetAccountID),
		SourceAmount:    t.SourceAmount.Amount,
		SourceCurrency:  string(t.SourceAmount.Currency),
		TargetAmount:    t.TargetAmount.Amount,
		TargetCurrency:  string(t.TargetAmount.Currency),
		ExchangeRate:    t.ExchangeRate,
		Description:     t.Description,
		CreatedAt:       t.CreatedAt,
	})
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.key(t.OwnedBy, t.ID), data, c.ttl).Err()
}
