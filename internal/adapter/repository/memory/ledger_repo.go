package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iho/groupledger/internal/domain"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// TotalsByCurrency sums the group's balances and transfer legs per currency.
func (r *LedgerRepository) TotalsByCurrency(ctx context.Context, group domain.GroupID) ([]domain.CurrencyTotals, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	byCurrency := make(map[domain.Currency]*domain.CurrencyTotals)
	get := func(c domain.Currency) *domain.CurrencyTotals {
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

	for _, a := range r.store.accounts {
		if a.OwnedBy != group {
			continue
		}
		t := get(a.Currency)
		t.Balances = t.Balances.Add(a.Balance.Amount)
		t.OpeningBalance = t.OpeningBalance.Add(a.OpeningBalance)
	}

	for _, tr := range r.store.transfers {
		if tr.OwnedBy != group {
			continue
		}
		out := get(tr.SourceAmount.Currency)
		out.Outflows = out.Outflows.Add(tr.SourceAmount.Amount)
		in := get(tr.TargetAmount.Currency)
		in.Inflows = in.Inflows.Add(tr.TargetAmount.Amount)
	}

	totals := make([]domain.CurrencyTotals, 0, len(byCurrency))
	for _, t := range byCurrency {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Currency < totals[j].Currency })

	return totals, nil
}
