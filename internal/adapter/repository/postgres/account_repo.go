package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/groupledger/internal/domain"
	"github.com/iho/groupledger/internal/infrastructure/postgres/generated"
	"github.com/iho/groupledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository. db is usually a *pgxpool.Pool.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// CreateTx inserts an account within a transaction.
func (r *AccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	return queries.CreateAccount(ctx, generated.CreateAccountParams{
		ID:             string(account.ID),
		GroupID:        string(account.OwnedBy),
		Name:           account.Name,
		Currency:       string(account.Currency),
		Balance:        decimalToNumeric(account.Balance.Amount),
		OpeningBalance: decimalToNumeric(account.OpeningBalance),
		Version:        account.Version,
		CreatedAt:      timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(account.UpdatedAt),
	})
}

// GetByID retrieves an active account of the group.
func (r *AccountRepository) GetByID(ctx context.Context, id domain.AccountID, group domain.GroupID) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, generated.GetAccountByIDParams{
		ID:      string(id),
		GroupID: string(group),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByIDsForUpdate locks the group's active accounts with SELECT ... FOR UPDATE.
// Rows are locked in id order so concurrent transfers cannot deadlock.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, group domain.GroupID, ids []domain.AccountID) ([]*domain.Account, error) {
	queries, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = string(id)
	}

	rows, err := queries.GetAccountsByIDsForUpdate(ctx, generated.GetAccountsByIDsForUpdateParams{
		GroupID: string(group),
		Ids:     raw,
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// UpdateBalance writes a new balance and bumps the row version.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id domain.AccountID, balance decimal.Decimal, updatedAt time.Time) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	n, err := queries.UpdateAccountBalance(ctx, generated.UpdateAccountBalanceParams{
		ID:        string(id),
		Balance:   decimalToNumeric(balance),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// List returns the group's active accounts ordered by name.
func (r *AccountRepository) List(ctx context.Context, group domain.GroupID) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccountsByGroup(ctx, string(group))
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// SoftDelete marks the account deleted. Its balance and transfers are kept.
func (r *AccountRepository) SoftDelete(ctx context.Context, tx usecase.Transaction, id domain.AccountID, group domain.GroupID, deletedAt time.Time) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	n, err := queries.SoftDeleteAccount(ctx, generated.SoftDeleteAccountParams{
		ID:        string(id),
		GroupID:   string(group),
		DeletedAt: timeToPgTimestamptz(deletedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func rowToAccount(row generated.Account) *domain.Account {
	currency := domain.Currency(row.Currency)
	return &domain.Account{
		ID:             domain.AccountID(row.ID),
		OwnedBy:        domain.GroupID(row.GroupID),
		Name:           row.Name,
		Currency:       currency,
		Balance:        domain.Money{Amount: numericToDecimal(row.Balance), Currency: currency},
		OpeningBalance: numericToDecimal(row.OpeningBalance),
		Version:        row.Version,
		Deleted:        row.Deleted,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
		DeletedAt:      pgTimestamptzToPtr(row.DeletedAt),
	}
}
