package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/groupledger/internal/domain"
	"github.com/iho/groupledger/internal/infrastructure/metrics"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	audit       *AuditRecorder
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	audit *AuditRecorder,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		audit:       audit,
		metrics:     m,
		logger:      logger,
	}
}

// OpenAccountInput represents input for opening an account.
type OpenAccountInput struct {
	Name           string
	Currency       string
	OpeningBalance decimal.Decimal
	ActorID        string
}

// OpenAccount creates a new account in the group, optionally funded with an
// opening balance.
func (uc *AccountUseCase) OpenAccount(ctx context.Context, groupID domain.GroupID, input OpenAccountInput) (*domain.Account, error) {
	if groupID == "" {
		return nil, domain.ErrMissingGroup
	}

	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	currency, err := domain.ParseCurrency(input.Currency)
	if err != nil {
		return nil, err
	}

	if input.OpeningBalance.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if err := domain.ValidateAmountBounds(input.OpeningBalance); err != nil {
		return nil, err
	}

	opening, err := domain.NewMoney(input.OpeningBalance, currency)
	if err != nil {
		return nil, err
	}

	now := timestamp(time.Now())
	account := &domain.Account{
		ID:             domain.AccountID(uc.idGen.Generate()),
		OwnedBy:        groupID,
		Name:           strings.TrimSpace(input.Name),
		Currency:       currency,
		Balance:        opening,
		OpeningBalance: opening.Amount,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.accountRepo.CreateTx(txCtx, tx, account); err != nil {
		return nil, err
	}

	if err := uc.emit(txCtx, tx, account, domain.EventTypeAccountCreated, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	uc.logger.Info().
		Str("group_id", groupID.String()).
		Str("account_id", account.ID.String()).
		Str("currency", currency.String()).
		Msg("account opened")

	uc.audit.Record(ctx, AuditEntry{
		GroupID:      groupID,
		ActorID:      input.ActorID,
		Action:       domain.AuditActionAccountCreate,
		ResourceType: domain.AggregateTypeAccount,
		ResourceID:   account.ID.String(),
		State:        domain.AccountEventPayload(account),
	})

	return account, nil
}

// GetAccount retrieves an account of the group by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, groupID domain.GroupID, id string) (*domain.Account, error) {
	if groupID == "" {
		return nil, domain.ErrMissingGroup
	}
	return uc.accountRepo.GetByID(ctx, domain.AccountID(id), groupID)
}

// ListAccounts lists the group's active accounts.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, groupID domain.GroupID) ([]*domain.Account, error) {
	if groupID == "" {
		return nil, domain.ErrMissingGroup
	}
	return uc.accountRepo.List(ctx, groupID)
}

// DeleteAccount soft-deletes an account. Only empty accounts can be deleted so
// that no value disappears with it.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, groupID domain.GroupID, id, actorID string) error {
	if groupID == "" {
		return domain.ErrMissingGroup
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	accountID := domain.AccountID(id)
	accounts, err := uc.accountRepo.GetByIDsForUpdate(txCtx, tx, groupID, []domain.AccountID{accountID})
	if err != nil {
		return err
	}
	if len(accounts) != 1 || accounts[0].Deleted || accounts[0].OwnedBy != groupID {
		return domain.ErrAccountNotFound
	}
	account := accounts[0]

	if !account.Balance.Amount.IsZero() {
		return domain.ErrAccountNotEmpty
	}

	now := timestamp(time.Now())
	if err := uc.accountRepo.SoftDelete(txCtx, tx, accountID, groupID, now); err != nil {
		return err
	}
	account.SoftDelete(now)

	if err := uc.emit(txCtx, tx, account, domain.EventTypeAccountDeleted, now); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsDeleted.Inc()
	}

	uc.audit.Record(ctx, AuditEntry{
		GroupID:      groupID,
		ActorID:      actorID,
		Action:       domain.AuditActionAccountDelete,
		ResourceType: domain.AggregateTypeAccount,
		ResourceID:   id,
		State:        domain.AccountEventPayload(account),
	})

	return nil
}

func (uc *AccountUseCase) emit(ctx context.Context, tx Transaction, account *domain.Account, eventType string, at time.Time) error {
	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   account.ID.String(),
		AggregateType: domain.AggregateTypeAccount,
		EventType:     eventType,
		Payload:       domain.AccountEventPayload(account),
		CreatedAt:     at,
	})
}
