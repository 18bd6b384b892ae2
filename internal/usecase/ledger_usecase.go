package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/groupledger/internal/domain"
)

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
	logger     zerolog.Logger
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository, logger zerolog.Logger) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
		logger:     logger,
	}
}

// ConsistencyReport is the result of a ledger consistency check for one group.
type ConsistencyReport struct {
	GroupID    domain.GroupID
	Currencies []domain.CurrencyTotals
	Consistent bool
	CheckedAt  time.Time
}

// CheckConsistency verifies, per currency, that the group's account balances
// equal opening balances plus credited legs minus debited legs.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context, groupID domain.GroupID) (*ConsistencyReport, error) {
	if groupID == "" {
		return nil, domain.ErrMissingGroup
	}

	totals, err := uc.ledgerRepo.TotalsByCurrency(ctx, groupID)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		GroupID:    groupID,
		Currencies: totals,
		Consistent: true,
		CheckedAt:  time.Now().UTC(),
	}

	for _, t := range totals {
		if t.Consistent() {
			continue
		}
		report.Consistent = false
		uc.logger.Error().
			Str("group_id", groupID.String()).
			Str("currency", t.Currency.String()).
			Str("recorded", t.Balances.String()).
			Str("expected", t.Expected().String()).
			Msg("ledger inconsistency detected")
	}

	return report, nil
}
