package domain

import (
	"encoding/json"
	"time"
)

// AuditLog represents an audit trail entry for compliance and debugging
type AuditLog struct {
	ID           string
	GroupID      GroupID
	ActorID      string // Who performed the action
	Action       string // What action (transfer.create, account.create, etc.)
	ResourceType string // Type of resource (transfer, account)
	ResourceID   string
	AfterState   JSON
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionAccountCreate AuditAction = "account.create"
	AuditActionAccountDelete AuditAction = "account.delete"
	AuditActionTransferCreate AuditAction = "transfer.create"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// SystemActor is recorded when no caller identity is known.
const SystemActor = "system"

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// TransferAuditState is the audited snapshot of a transfer.
func TransferAuditState(t *Transfer) JSON {
	return JSON{
		"transfer_id":       string(t.ID),
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

// TransferRequestAuditState describes a transfer that was requested but not applied.
func TransferRequestAuditState(cmd TransferCommand) JSON {
	state := JSON{
		"source_account_id": string(cmd.SourceAccountID),
		"target_account_id": string(cmd.TargetAccountID),
		"source_amount":     cmd.SourceAmount.String(),
	}
	if cmd.TargetAmount != nil {
		state["target_amount"] = cmd.TargetAmount.String()
	}
	return state
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	GroupID      GroupID
	Action       string
	ResourceType string
	ResourceID   string
	Limit        int
}
