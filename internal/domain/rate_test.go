package domain

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func decPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestResolveRate(t *testing.T) {
	tests := []struct {
		name         string
		source       Currency
		target       Currency
		sourceAmount string
		targetAmount *decimal.Decimal
		expected     string
		expectError  error
	}{
		{"same currency ignores supplied target", "USD", "USD", "50.00", decPtr("45.00"), "1", nil},
		{"same currency without target", "USD", "USD", "50.00", nil, "1", nil},
		{"cross currency implied rate", "USD", "EUR", "50.00", decPtr("45.00"), "0.9", nil},
		{"cross currency without target", "USD", "EUR", "50.00", nil, "", ErrRateUnavailable},
		{"cross currency zero target", "USD", "EUR", "50.00", decPtr("0"), "", ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := ResolveRate(tt.source, tt.target, decimal.RequireFromString(tt.sourceAmount), tt.targetAmount)

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected error %v, got %v", tt.expectError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !rate.Equal(decimal.RequireFromString(tt.expected)) {
				t.Errorf("expected rate %s, got %s", tt.expected, rate)
			}
		})
	}
}

func TestResolveRate_RoundTripReproducesTarget(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	targets := []Currency{"EUR", "JPY", "GBP", "KRW"}

	for i := 0; i < 2000; i++ {
		// amounts between 0.01 and roughly 10^9 in minor units
		source := decimal.New(rng.Int63n(100_000_000_000)+1, -2)
		target := targets[i%len(targets)]
		scale := target.MinorUnits()
		targetAmount := decimal.New(rng.Int63n(100_000_000_000)+1, -scale)

		rate, err := ResolveRate("USD", target, source, &targetAmount)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := Money{Amount: source, Currency: "USD"}.Convert(rate, target)
		if !got.Amount.Equal(targetAmount) {
			t.Fatalf("round trip failed: source=%s target=%s rate=%s got=%s", source, targetAmount, rate, got.Amount)
		}
	}
}
