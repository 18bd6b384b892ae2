package domain

import "time"

// Event types
const (
	EventTypeTransferCreated = "transfer.created"
	EventTypeAccountCreated  = "account.created"
	EventTypeAccountDeleted  = "account.deleted"
)

// Aggregate types
const (
	AggregateTypeTransfer = "transfer"
	AggregateTypeAccount  = "account"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// TransferCreatedPayload builds the transfer.created event payload.
func TransferCreatedPayload(t *Transfer) map[string]any {
	return map[string]any{
		"transfer_id":       string(t.ID),
		"group_id":          string(t.OwnedBy),
		"source_account_id": string(t.SourceAccountID),
		"target_account_id": string(t.TargetAccountID),
		"source_amount":     t.SourceAmount.AmountString(),
		"source_currency":   string(t.SourceAmount.Currency),
		"target_amount":     t.TargetAmount.AmountString(),
		"target_currency":   string(t.TargetAmount.Currency),
		"exchange_rate":     t.ExchangeRate.String(),
		"created_at":        t.CreatedAt.Format(time.RFC3339Nano),
	}
}

// AccountEventPayload builds the account.* event payload.
func AccountEventPayload(a *Account) map[string]any {
	return map[string]any{
		"account_id": string(a.ID),
		"group_id":   string(a.OwnedBy),
		"name":       a.Name,
		"currency":   string(a.Currency),
		"balance":    a.Balance.AmountString(),
	}
}
