package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/groupledger/internal/domain"
	"github.com/iho/groupledger/internal/usecase"
	"github.com/iho/groupledger/internal/usecase/mocks"
)

func TestLedgerUseCase_CheckConsistency(t *testing.T) {
	ctx := context.Background()
	group := domain.GroupID("household")

	consistent := domain.CurrencyTotals{
		Currency:       "USD",
		Balances:       decimal.RequireFromString("150"),
		OpeningBalance: decimal.RequireFromString("100"),
		Inflows:        decimal.RequireFromString("80"),
		Outflows:       decimal.RequireFromString("30"),
	}
	drifted := domain.CurrencyTotals{
		Currency:       "EUR",
		Balances:       decimal.RequireFromString("10"),
		OpeningBalance: decimal.RequireFromString("10"),
		Inflows:        decimal.RequireFromString("5"),
	}

	tests := []struct {
		name       string
		totals     []domain.CurrencyTotals
		repoErr    error
		consistent bool
		wantErr    error
	}{
		{name: "all currencies balance", totals: []domain.CurrencyTotals{consistent}, consistent: true},
		{name: "empty group is consistent", consistent: true},
		{name: "one drifted currency", totals: []domain.CurrencyTotals{consistent, drifted}, consistent: false},
		{name: "repository failure", repoErr: errors.New("db down"), wantErr: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockLedgerRepository(ctrl)
			repo.EXPECT().TotalsByCurrency(ctx, group).Return(tt.totals, tt.repoErr)

			uc := usecase.NewLedgerUseCase(repo, zerolog.Nop())
			report, err := uc.CheckConsistency(ctx, group)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr.Error(), err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, group, report.GroupID)
			assert.Equal(t, tt.consistent, report.Consistent)
			assert.Len(t, report.Currencies, len(tt.totals))
			assert.False(t, report.CheckedAt.IsZero())
		})
	}
}

func TestLedgerUseCase_CheckConsistency_MissingGroup(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := usecase.NewLedgerUseCase(mocks.NewMockLedgerRepository(ctrl), zerolog.Nop())

	_, err := uc.CheckConsistency(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrMissingGroup)
}
