package domain

import "github.com/shopspring/decimal"

// IdentityRate is applied when both legs share a currency.
var IdentityRate = decimal.NewFromInt(1)

// ResolveRate returns the exchange rate to apply between two currencies.
//
// Same-currency transfers always use the identity rate and ignore targetAmount.
// Cross-currency transfers derive the implied rate targetAmount/sourceAmount;
// without a caller-supplied target amount no rate is available.
func ResolveRate(source, target Currency, sourceAmount decimal.Decimal, targetAmount *decimal.Decimal) (decimal.Decimal, error) {
	if source == target {
		return IdentityRate, nil
	}

	if targetAmount == nil {
		return decimal.Zero, withDetail(ErrRateUnavailable, "no rate for %s to %s", source, target)
	}

	if !sourceAmount.IsPositive() || !targetAmount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	return targetAmount.DivRound(sourceAmount, ratePrecision(sourceAmount, target)), nil
}

// ratePrecision picks enough fraction digits that sourceAmount*rate rounds back
// to the supplied target amount: the error sourceAmount*0.5e-p stays below
// half a minor unit of the target currency.
func ratePrecision(sourceAmount decimal.Decimal, target Currency) int32 {
	intDigits := int32(len(sourceAmount.Abs().Truncate(0).String()))
	p := intDigits + target.MinorUnits() + 2
	if p < 8 {
		p = 8
	}
	return p
}
