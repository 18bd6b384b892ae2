package postgres

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iho/groupledger/internal/domain"
	"github.com/iho/groupledger/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// TotalsByCurrency sums balances, opening balances and transfer legs per
// currency. Deleted accounts are included since their transfers remain.
func (r *LedgerRepository) TotalsByCurrency(ctx context.Context, group domain.GroupID) ([]domain.CurrencyTotals, error) {
	byCurrency := make(map[domain.Currency]*domain.CurrencyTotals)
	get := func(code string) *domain.CurrencyTotals {
		c := domain.Currency(code)
		t, ok := byCurrency[c]
		if !ok {
			t = &domain.CurrencyTotals{
				Currency:       c,
				Balances:       decimal.Zero,
				OpeningBalance: decimal.Zero,
				Inflows:        decimal.Zero,
				Outflows:       decimal.Zero,
			}
			byCurrency[c] = t
		}
		return t
	}

	accounts, err := r.queries.SumAccountsByCurrency(ctx, string(group))
	if err != nil {
		return nil, err
	}
	for _, row := range accounts {
		t := get(row.Currency)
		t.Balances = numericToDecimal(row.Balances)
		t.OpeningBalance = numericToDecimal(row.OpeningBalance)
	}

	outflows, err := r.queries.SumOutflowsByCurrency(ctx, string(group))
	if err != nil {
		return nil, err
	}
	for _, row := range outflows {
		get(row.Currency).Outflows = numericToDecimal(row.Total)
	}

	inflows, err := r.queries.SumInflowsByCurrency(ctx, string(group))
	if err != nil {
		return nil, err
	}
	for _, row := range inflows {
		get(row.Currency).Inflows = numericToDecimal(row.Total)
	}

	totals := make([]domain.CurrencyTotals, 0, len(byCurrency))
	for _, t := range byCurrency {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Currency < totals[j].Currency })

	return totals, nil
}
