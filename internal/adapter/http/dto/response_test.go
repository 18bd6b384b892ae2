package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/groupledger/internal/domain"
	"github.com/iho/groupledger/internal/usecase"
)

func TestAccountFromDomain(t *testing.T) {
	now := time.Now()
	account := &domain.Account{
		ID:        "acc-1",
		OwnedBy:   "group-1",
		Name:      "Main",
		Currency:  "USD",
		Balance:   domain.Money{Amount: decimal.RequireFromString("123.4"), Currency: "USD"},
		Version:   2,
		CreatedAt: now,
		UpdatedAt: now,
	}

	resp := AccountFromDomain(account)
	if resp.ID != "acc-1" || resp.GroupID != "group-1" || resp.Balance != "123.40" || resp.Version != 2 {
		t.Fatalf("unexpected account response: %+v", resp)
	}

	list := AccountsFromDomain([]*domain.Account{account})
	if list.Total != 1 || list.Accounts[0].Name != "Main" {
		t.Fatalf("unexpected list response: %+v", list)
	}
}

func TestTransferFromDomain(t *testing.T) {
	transfer := &domain.Transfer{
		ID:              "tr-1",
		OwnedBy:         "group-1",
		SourceAccountID: "a",
		TargetAccountID: "b",
		SourceAmount:    domain.Money{Amount: decimal.NewFromInt(10), Currency: "USD"},
		TargetAmount:    domain.Money{Amount: decimal.NewFromInt(9), Currency: "EUR"},
		ExchangeRate:    decimal.RequireFromString("0.9"),
		Description:     "lunch",
		CreatedAt:       time.Now(),
	}

	resp := TransferFromDomain(transfer)
	if resp.SourceAmount != "10.00" || resp.TargetAmount != "9.00" || resp.ExchangeRate != "0.9" {
		t.Fatalf("unexpected amounts: %+v", resp)
	}
	if resp.SourceCurrency != "USD" || resp.TargetCurrency != "EUR" {
		t.Fatalf("unexpected currencies: %+v", resp)
	}

	list := TransfersFromDomain(nil)
	if list.Total != 0 || list.Transfers == nil {
		t.Fatalf("expected empty non-nil list, got %+v", list)
	}
}

func TestConsistencyFromReport(t *testing.T) {
	report := &usecase.ConsistencyReport{
		GroupID: "group-1",
		Currencies: []domain.CurrencyTotals{{
			Currency:       "USD",
			Balances:       decimal.NewFromInt(90),
			OpeningBalance: decimal.NewFromInt(100),
			Inflows:        decimal.Zero,
			Outflows:       decimal.NewFromInt(10),
		}},
		Consistent: true,
	}

	resp := ConsistencyFromReport(report)
	if !resp.Consistent || len(resp.Currencies) != 1 {
		t.Fatalf("unexpected report: %+v", resp)
	}
	c := resp.Currencies[0]
	if c.Expected != "90" || c.Difference != "0" || !c.Consistent {
		t.Fatalf("unexpected currency totals: %+v", c)
	}
}
