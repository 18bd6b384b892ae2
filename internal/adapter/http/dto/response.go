package dto

import (
	"time"

	"github.com/iho/groupledger/internal/domain"
	"github.com/iho/groupledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	Balance   string    `json:"balance"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        string(a.ID),
		GroupID:   string(a.OwnedBy),
		Name:      a.Name,
		Currency:  string(a.Currency),
		Balance:   a.Balance.AmountString(),
		Version:   a.Version,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// ListAccountsResponse wraps a list of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int                `json:"total"`
}

// AccountsFromDomain converts domain accounts to a list response.
func AccountsFromDomain(accounts []*domain.Account) *ListAccountsResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return &ListAccountsResponse{Accounts: result, Total: len(result)}
}

// TransferResponse represents a transfer in API responses.
type TransferResponse struct {
	ID              string    `json:"id"`
	GroupID         string    `json:"group_id"`
	SourceAccountID string    `json:"source_account_id"`
	TargetAccountID string    `json:"target_account_id"`
	SourceAmount    string    `json:"source_amount"`
	SourceCurrency  string    `json:"source_currency"`
	TargetAmount    string    `json:"target_amount"`
	TargetCurrency  string    `json:"target_currency"`
	ExchangeRate    string    `json:"exchange_rate"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"created_at"`
}

// TransferFromDomain converts domain transfer to response.
func TransferFromDomain(t *domain.Transfer) *TransferResponse {
	return &TransferResponse{
		ID:              string(t.ID),
		GroupID:         string(t.OwnedBy),
		SourceAccountID: string(t.SourceAccountID),
		TargetAccountID: string(t.TargetAccountID),
		SourceAmount:    t.SourceAmount.AmountString(),
		SourceCurrency:  string(t.SourceAmount.Currency),
		TargetAmount:    t.TargetAmount.AmountString(),
		TargetCurrency:  string(t.TargetAmount.Currency),
		ExchangeRate:    t.ExchangeRate.String(),
		Description:     t.Description,
		CreatedAt:       t.CreatedAt,
	}
}

// ListTransfersResponse wraps a list of transfers.
type ListTransfersResponse struct {
	Transfers []*TransferResponse `json:"transfers"`
	Total     int                 `json:"total"`
}

// TransfersFromDomain converts domain transfers to a list response.
func TransfersFromDomain(transfers []*domain.Transfer) *ListTransfersResponse {
	result := make([]*TransferResponse, len(transfers))
	for i, t := range transfers {
		result[i] = TransferFromDomain(t)
	}
	return &ListTransfersResponse{Transfers: result, Total: len(result)}
}

// CurrencyTotalsResponse is the per-currency part of a consistency report.
type CurrencyTotalsResponse struct {
	Currency       string `json:"currency"`
	Balances       string `json:"balances"`
	OpeningBalance string `json:"opening_balance"`
	Inflows        string `json:"inflows"`
	Outflows       string `json:"outflows"`
	Expected       string `json:"expected"`
	Difference     string `json:"difference"`
	Consistent     bool   `json:"consistent"`
}

// ConsistencyResponse represents a ledger consistency report.
type ConsistencyResponse struct {
	GroupID    string                    `json:"group_id"`
	Consistent bool                      `json:"consistent"`
	CheckedAt  time.Time                 `json:"checked_at"`
	Currencies []*CurrencyTotalsResponse `json:"currencies"`
}

// ConsistencyFromReport converts a consistency report to response.
func ConsistencyFromReport(r *usecase.ConsistencyReport) *ConsistencyResponse {
	currencies := make([]*CurrencyTotalsResponse, len(r.Currencies))
	for i, c := range r.Currencies {
		currencies[i] = &CurrencyTotalsResponse{
			Currency:       string(c.Currency),
			Balances:       c.Balances.String(),
			OpeningBalance: c.OpeningBalance.String(),
			Inflows:        c.Inflows.String(),
			Outflows:       c.Outflows.String(),
			Expected:       c.Expected().String(),
			Difference:     c.Difference().String(),
			Consistent:     c.Consistent(),
		}
	}

	return &ConsistencyResponse{
		GroupID:    string(r.GroupID),
		Consistent: r.Consistent,
		CheckedAt:  r.CheckedAt,
		Currencies: currencies,
	}
}

// AuditLogResponse represents an audit log entry in API responses.
type AuditLogResponse struct {
	ID           string         `json:"id"`
	ActorID      string         `json:"actor_id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	State        map[string]any `json:"state,omitempty"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// AuditLogsFromDomain converts audit logs to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = &AuditLogResponse{
			ID:           l.ID,
			ActorID:      l.ActorID,
			Action:       l.Action,
			ResourceType: l.ResourceType,
			ResourceID:   l.ResourceID,
			State:        l.AfterState,
			Status:       l.Status,
			ErrorMessage: l.ErrorMessage,
			CreatedAt:    l.CreatedAt,
		}
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
