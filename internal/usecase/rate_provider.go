package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/groupledger/internal/domain"
)

// SuppliedRateProvider applies the identity rate for same-currency transfers and
// the rate implied by a caller-supplied target amount otherwise. It never looks up
// a live rate.
type SuppliedRateProvider struct{}

// NewSuppliedRateProvider creates a new SuppliedRateProvider.
func NewSuppliedRateProvider() *SuppliedRateProvider {
	return &SuppliedRateProvider{}
}

// Rate implements RateProvider.
func (SuppliedRateProvider) Rate(_ context.Context, source, target domain.Currency, sourceAmount decimal.Decimal, targetAmount *decimal.Decimal) (decimal.Decimal, error) {
	return domain.ResolveRate(source, target, sourceAmount, targetAmount)
}
