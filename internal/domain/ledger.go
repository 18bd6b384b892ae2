package domain

import "github.com/shopspring/decimal"

// CurrencyTotals aggregates one group's accounts and transfer legs in a single currency.
// Soft-deleted accounts are included: their balances are frozen, not removed.
type CurrencyTotals struct {
	Currency       Currency
	Balances       decimal.Decimal
	OpeningBalance decimal.Decimal
	Inflows        decimal.Decimal // sum of target legs credited in this currency
	Outflows       decimal.Decimal // sum of source legs debited in this currency
}

// Expected is the balance total implied by opening balances and transfer legs.
func (c CurrencyTotals) Expected() decimal.Decimal {
	return c.OpeningBalance.Add(c.Inflows).Sub(c.Outflows)
}

// Difference is recorded minus expected. Zero means the currency is consistent.
func (c CurrencyTotals) Difference() decimal.Decimal {
	return c.Balances.Sub(c.Expected())
}

// Consistent reports whether recorded balances match the transfer history.
func (c CurrencyTotals) Consistent() bool {
	return c.Difference().IsZero()
}
