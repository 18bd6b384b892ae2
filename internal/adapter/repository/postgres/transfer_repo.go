package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/groupledger/internal/domain"
	"github.com/iho/groupledger/internal/infrastructure/postgres/generated"
	"github.com/iho/groupledger/internal/usecase"
)

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	queries *generated.Queries
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(db generated.DBTX) *TransferRepository {
	return &TransferRepository{queries: generated.New(db)}
}

// Create inserts a transfer within a transaction.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	return queries.CreateTransfer(ctx, generated.CreateTransferParams{
		ID:              string(transfer.ID),
		GroupID:         string(transfer.OwnedBy),
		SourceAccountID: string(transfer.SourceAccountID),
		TargetAccountID: string(transfer.TargetAccountID),
		SourceAmount:    decimalToNumeric(transfer.SourceAmount.Amount),
		SourceCurrency:  string(transfer.SourceAmount.Currency),
		TargetAmount:    decimalToNumeric(transfer.TargetAmount.Amount),
		TargetCurrency:  string(transfer.TargetAmount.Currency),
		ExchangeRate:    decimalToNumeric(transfer.ExchangeRate),
		Description:     transfer.Description,
		CreatedAt:       timeToPgTimestamptz(transfer.CreatedAt),
	})
}

// GetByID retrieves a transfer of the group.
func (r *TransferRepository) GetByID(ctx context.Context, id domain.TransferID, group domain.GroupID) (*domain.Transfer, error) {
	row, err := r.queries.GetTransferByID(ctx, generated.GetTransferByIDParams{
		ID:      string(id),
		GroupID: string(group),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}
		return nil, err
	}

	return rowToTransfer(row), nil
}

// ListByGroup returns the group's transfers, newest first.
func (r *TransferRepository) ListByGroup(ctx context.Context, group domain.GroupID) ([]*domain.Transfer, error) {
	rows, err := r.queries.ListTransfersByGroup(ctx, string(group))
	if err != nil {
		return nil, err
	}

	transfers := make([]*domain.Transfer, 0, len(rows))
	for _, row := range rows {
		transfers = append(transfers, rowToTransfer(row))
	}

	return transfers, nil
}

func rowToTransfer(row generated.Transfer) *domain.Transfer {
	return &domain.Transfer{
		ID:              domain.TransferID(row.ID),
		OwnedBy:         domain.GroupID(row.GroupID),
		SourceAccountID: domain.AccountID(row.SourceAccountID),
		TargetAccountID: domain.AccountID(row.TargetAccountID),
		SourceAmount: domain.Money{
			Amount:   numericToDecimal(row.SourceAmount),
			Currency: domain.Currency(row.SourceCurrency),
		},
		TargetAmount: domain.Money{
			Amount:   numericToDecimal(row.TargetAmount),
			Currency: domain.Currency(row.TargetCurrency),
		},
		ExchangeRate: numericToDecimal(row.ExchangeRate),
		Description:  row.Description,
		CreatedAt:    row.CreatedAt.Time,
	}
}
