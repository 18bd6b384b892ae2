package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/groupledger/internal/domain"
	"github.com/iho/groupledger/internal/usecase"
)

// OpenAccountRequest represents a request to open an account.
type OpenAccountRequest struct {
	Name           string `json:"name"`
	Currency       string `json:"currency"`
	OpeningBalance string `json:"opening_balance,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *OpenAccountRequest) ToUseCaseInput(actorID string) (usecase.OpenAccountInput, error) {
	opening := decimal.Zero
	if r.OpeningBalance != "" {
		var err error
		opening, err = parseAmount("opening_balance", r.OpeningBalance)
		if err != nil {
			return usecase.OpenAccountInput{}, err
		}
	}

	return usecase.OpenAccountInput{
		Name:           r.Name,
		Currency:       r.Currency,
		OpeningBalance: opening,
		ActorID:        actorID,
	}, nil
}

// CreateTransferRequest represents a request to create a transfer. Amounts are
// decimal strings so no precision is lost in transit.
type CreateTransferRequest struct {
	SourceAccountID string  `json:"source_account_id"`
	TargetAccountID string  `json:"target_account_id"`
	SourceAmount    string  `json:"source_amount"`
	TargetAmount    *string `json:"target_amount,omitempty"`
	Description     string  `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input. The account check runs before
// amount parsing so errors keep the validator's order.
func (r *CreateTransferRequest) ToUseCaseInput(actorID string) (usecase.CreateTransferInput, error) {
	if r.SourceAccountID == r.TargetAccountID {
		return usecase.CreateTransferInput{}, domain.ErrTransferToSameAccount
	}

	source, err := parseAmount("source_amount", r.SourceAmount)
	if err != nil {
		return usecase.CreateTransferInput{}, err
	}

	var target *decimal.Decimal
	if r.TargetAmount != nil {
		t, err := parseAmount("target_amount", *r.TargetAmount)
		if err != nil {
			return usecase.CreateTransferInput{}, err
		}
		target = &t
	}

	return usecase.CreateTransferInput{
		SourceAccountID: r.SourceAccountID,
		TargetAccountID: r.TargetAccountID,
		SourceAmount:    source,
		TargetAmount:    target,
		Description:     r.Description,
		ActorID:         actorID,
	}, nil
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s %q is not a decimal number", domain.ErrInvalidAmount, field, raw)
	}
	return d, nil
}
