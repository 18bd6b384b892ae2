package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 currency code.
type Currency string

// minorUnits holds the number of fraction digits for each supported currency.
var minorUnits = map[Currency]int32{
	"USD": 2, "EUR": 2, "GBP": 2, "JPY": 0,
	"CNY": 2, "AUD": 2, "CAD": 2, "CHF": 2,
	"SEK": 2, "NZD": 2, "KRW": 0, "SGD": 2,
	"NOK": 2, "MXN": 2, "INR": 2, "BRL": 2,
	"ZAR": 2, "RUB": 2, "TRY": 2, "HKD": 2,
	"PLN": 2, "CZK": 2, "DKK": 2, "UAH": 2,
}

// ParseCurrency normalizes and validates a currency code.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if _, ok := minorUnits[c]; !ok {
		return "", withDetail(ErrInvalidCurrency, "%q is not a supported ISO 4217 code", code)
	}
	return c, nil
}

// MinorUnits returns the number of fraction digits of the currency.
func (c Currency) MinorUnits() int32 {
	if units, ok := minorUnits[c]; ok {
		return units
	}
	return 2
}

func (c Currency) String() string {
	return string(c)
}

// Money is an immutable amount in a single currency.
//
// Conversions round half away from zero to the target's minor units, which is
// round-half-up for the positive amounts transfers carry.
type Money struct {
	Amount   decimal.Decimal
	Currency Currency
}

// NewMoney builds Money, rejecting amounts finer than the currency's minor unit.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if !amount.Equal(amount.Round(currency.MinorUnits())) {
		return Money{}, withDetail(ErrInvalidAmount, "%s allows at most %d fraction digits", currency, currency.MinorUnits())
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// Zero returns a zero amount in the given currency.
func Zero(currency Currency) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// Add returns m + other. Currencies must match.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, withDetail(ErrCurrencyMismatch, "cannot add %s to %s", other.Currency, m.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Sub returns m - other. Currencies must match.
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, withDetail(ErrCurrencyMismatch, "cannot subtract %s from %s", other.Currency, m.Currency)
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// Equal compares amount and currency.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// Convert applies rate and rounds to the target currency's minor units.
func (m Money) Convert(rate decimal.Decimal, target Currency) Money {
	return Money{
		Amount:   m.Amount.Mul(rate).Round(target.MinorUnits()),
		Currency: target,
	}
}

// AmountString formats the amount with exactly the currency's minor-unit digits.
func (m Money) AmountString() string {
	return m.Amount.StringFixed(m.Currency.MinorUnits())
}

func (m Money) String() string {
	return m.AmountString() + " " + string(m.Currency)
}
