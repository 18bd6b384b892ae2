package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer represents a completed money movement between two accounts of one group.
// Transfers are immutable; corrections are new compensating transfers.
type Transfer struct {
	ID              TransferID
	OwnedBy         GroupID
	SourceAccountID AccountID
	TargetAccountID AccountID
	SourceAmount    Money
	TargetAmount    Money
	ExchangeRate    decimal.Decimal
	Description     string
	CreatedAt       time.Time
}

// NewTransferParams holds the fields needed to build a Transfer.
type NewTransferParams struct {
	ID              TransferID
	OwnedBy         GroupID
	SourceAccountID AccountID
	TargetAccountID AccountID
	SourceAmount    Money
	TargetAmount    Money
	ExchangeRate    decimal.Decimal
	Description     string
	CreatedAt       time.Time
}

// NewTransfer builds a Transfer and checks its invariants.
func NewTransfer(p NewTransferParams) (*Transfer, error) {
	t := &Transfer{
		ID:              p.ID,
		OwnedBy:         p.OwnedBy,
		SourceAccountID: p.SourceAccountID,
		TargetAccountID: p.TargetAccountID,
		SourceAmount:    p.SourceAmount,
		TargetAmount:    p.TargetAmount,
		ExchangeRate:    p.ExchangeRate,
		Description:     p.Description,
		CreatedAt:       p.CreatedAt,
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// Validate checks the transfer invariants.
func (t *Transfer) Validate() error {
	if t.SourceAccountID == t.TargetAccountID {
		return ErrTransferToSameAccount
	}

	if !t.SourceAmount.IsPositive() || !t.TargetAmount.IsPositive() {
		return ErrInvalidAmount
	}

	if t.SourceAmount.Currency == t.TargetAmount.Currency {
		if !t.ExchangeRate.Equal(IdentityRate) || !t.SourceAmount.Amount.Equal(t.TargetAmount.Amount) {
			return withDetail(ErrCurrencyMismatch, "same-currency legs must match at rate 1")
		}
		return nil
	}

	expected := t.SourceAmount.Convert(t.ExchangeRate, t.TargetAmount.Currency)
	if !expected.Equal(t.TargetAmount) {
		return withDetail(ErrInvalidAmount, "target leg %s does not match %s at rate %s", t.TargetAmount, t.SourceAmount, t.ExchangeRate)
	}

	return nil
}

// IsCrossCurrency reports whether the legs are in different currencies.
func (t *Transfer) IsCrossCurrency() bool {
	return t.SourceAmount.Currency != t.TargetAmount.Currency
}

// TransferState is a step of the create-transfer operation.
type TransferState string

const (
	TransferReceived        TransferState = "received"
	TransferValidated       TransferState = "validated"
	TransferAccountsLoaded  TransferState = "accounts_loaded"
	TransferRateResolved    TransferState = "rate_resolved"
	TransferBalancesMutated TransferState = "balances_mutated"
	TransferPersisted       TransferState = "persisted"
	TransferCompleted       TransferState = "completed"
	TransferFailed          TransferState = "failed"
)
