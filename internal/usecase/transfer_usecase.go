package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/groupledger/internal/domain"
	"github.com/iho/groupledger/internal/infrastructure/metrics"
)

// TransferDeps are the collaborators of TransferUseCase. Cache, Retrier, Audit and
// Metrics are optional.
type TransferDeps struct {
	TxManager    TransactionManager
	AccountRepo  AccountRepository
	TransferRepo TransferRepository
	OutboxRepo   OutboxRepository
	Rates        RateProvider
	IDGen        IDGenerator
	Cache        TransferCache
	Retrier      Retrier
	Audit        *AuditRecorder
	Metrics      *metrics.Metrics
	Logger       zerolog.Logger
	Clock        func() time.Time
}

// TransferUseCase handles transfer business logic.
type TransferUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	transferRepo TransferRepository
	outboxRepo   OutboxRepository
	rates        RateProvider
	idGen        IDGenerator
	cache        TransferCache
	retrier      Retrier
	audit        *AuditRecorder
	metrics      *metrics.Metrics
	logger       zerolog.Logger
	now          func() time.Time
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(deps TransferDeps) *TransferUseCase {
	if deps.Rates == nil {
		deps.Rates = NewSuppliedRateProvider()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	return &TransferUseCase{
		txManager:    deps.TxManager,
		accountRepo:  deps.AccountRepo,
		transferRepo: deps.TransferRepo,
		outboxRepo:   deps.OutboxRepo,
		rates:        deps.Rates,
		idGen:        deps.IDGen,
		cache:        deps.Cache,
		retrier:      deps.Retrier,
		audit:        deps.Audit,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
		now:          deps.Clock,
	}
}

// CreateTransferInput represents input for creating a transfer.
type CreateTransferInput struct {
	SourceAccountID string
	TargetAccountID string
	SourceAmount    decimal.Decimal
	TargetAmount    *decimal.Decimal
	Description     string
	ActorID         string
}

func (in CreateTransferInput) command() domain.TransferCommand {
	return domain.TransferCommand{
		SourceAccountID: domain.AccountID(in.SourceAccountID),
		TargetAccountID: domain.AccountID(in.TargetAccountID),
		SourceAmount:    in.SourceAmount,
		TargetAmount:    in.TargetAmount,
		Description:     in.Description,
	}
}

// CreateTransfer moves money between two accounts of the group. Both balances, the
// transfer and its outbox event are written in one transaction; on any error
// nothing is applied.
func (uc *TransferUseCase) CreateTransfer(ctx context.Context, groupID domain.GroupID, input CreateTransferInput) (*domain.Transfer, error) {
	start := time.Now()
	log := uc.logger.With().
		Str("group_id", groupID.String()).
		Str("source_account_id", input.SourceAccountID).
		Str("target_account_id", input.TargetAccountID).
		Logger()

	uc.step(log, domain.TransferReceived)

	if groupID == "" {
		return nil, uc.fail(log, domain.ErrMissingGroup)
	}

	validated, err := domain.ValidateTransfer(input.command())
	if err != nil {
		return nil, uc.fail(log, err)
	}
	uc.step(log, domain.TransferValidated)

	var transfer *domain.Transfer
	attempt := 0
	operation := func() error {
		attempt++
		if attempt > 1 && uc.metrics != nil {
			uc.metrics.TransferRetries.Inc()
		}

		t, err := uc.createTransferTx(ctx, log, groupID, validated)
		if err != nil {
			return err
		}
		transfer = t
		return nil
	}

	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, operation)
	} else {
		err = operation()
	}
	if err != nil {
		uc.audit.Record(ctx, AuditEntry{
			GroupID:      groupID,
			ActorID:      input.ActorID,
			Action:       domain.AuditActionTransferCreate,
			ResourceType: domain.AggregateTypeAccount,
			ResourceID:   input.SourceAccountID,
			State:        domain.TransferRequestAuditState(validated.TransferCommand),
			Err:          err,
		})
		return nil, uc.fail(log, err)
	}

	uc.step(log.With().Str("transfer_id", transfer.ID.String()).Logger(), domain.TransferCompleted)

	if uc.metrics != nil {
		kind := "same_currency"
		if transfer.IsCrossCurrency() {
			kind = "cross_currency"
		}
		uc.metrics.TransfersCreated.WithLabelValues(kind).Inc()
		uc.metrics.TransferDuration.Observe(time.Since(start).Seconds())
	}

	uc.cacheTransfer(ctx, log, transfer)

	uc.audit.Record(ctx, AuditEntry{
		GroupID:      groupID,
		ActorID:      input.ActorID,
		Action:       domain.AuditActionTransferCreate,
		ResourceType: domain.AggregateTypeTransfer,
		ResourceID:   transfer.ID.String(),
		State:        domain.TransferAuditState(transfer),
	})

	return transfer, nil
}

func (uc *TransferUseCase) createTransferTx(
	ctx context.Context,
	log zerolog.Logger,
	groupID domain.GroupID,
	cmd domain.ValidatedTransfer,
) (*domain.Transfer, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	// Lock order is lexicographic so opposing transfers between the same pair
	// never wait on each other.
	ids := []domain.AccountID{cmd.SourceAccountID, cmd.TargetAccountID}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	accounts, err := uc.accountRepo.GetByIDsForUpdate(txCtx, tx, groupID, ids)
	if err != nil {
		return nil, err
	}

	source, target := pickAccounts(accounts, groupID, cmd.SourceAccountID, cmd.TargetAccountID)
	if source == nil || target == nil {
		return nil, domain.ErrAccountNotFound
	}
	uc.step(log, domain.TransferAccountsLoaded)

	rate, err := uc.rates.Rate(txCtx, source.Currency, target.Currency, cmd.SourceAmount, cmd.TargetAmount)
	if err != nil {
		return nil, err
	}
	uc.step(log, domain.TransferRateResolved)

	sourceLeg, err := domain.NewMoney(cmd.SourceAmount, source.Currency)
	if err != nil {
		return nil, err
	}

	targetLeg, err := targetLegFor(sourceLeg, target.Currency, rate, cmd.TargetAmount)
	if err != nil {
		return nil, err
	}

	now := timestamp(uc.now())
	if err := source.Debit(sourceLeg, now); err != nil {
		return nil, err
	}
	if err := target.Credit(targetLeg, now); err != nil {
		return nil, err
	}
	uc.step(log, domain.TransferBalancesMutated)

	transfer, err := domain.NewTransfer(domain.NewTransferParams{
		ID:              domain.TransferID(uc.idGen.Generate()),
		OwnedBy:         groupID,
		SourceAccountID: source.ID,
		TargetAccountID: target.ID,
		SourceAmount:    sourceLeg,
		TargetAmount:    targetLeg,
		ExchangeRate:    rate,
		Description:     cmd.Description,
		CreatedAt:       now,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(txCtx, tx, source.ID, source.Balance.Amount, now); err != nil {
		return nil, err
	}
	if err := uc.accountRepo.UpdateBalance(txCtx, tx, target.ID, target.Balance.Amount, now); err != nil {
		return nil, err
	}
	if err := uc.transferRepo.Create(txCtx, tx, transfer); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   transfer.ID.String(),
		AggregateType: domain.AggregateTypeTransfer,
		EventType:     domain.EventTypeTransferCreated,
		Payload:       domain.TransferCreatedPayload(transfer),
		CreatedAt:     now,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}
	uc.step(log, domain.TransferPersisted)

	return transfer, nil
}

// GetTransfer retrieves a transfer of the group by ID.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, groupID domain.GroupID, id string) (*domain.Transfer, error) {
	if groupID == "" {
		return nil, domain.ErrMissingGroup
	}

	transferID := domain.TransferID(id)

	if uc.cache != nil {
		cached, ok, err := uc.cache.Get(ctx, groupID, transferID)
		switch {
		case err != nil:
			uc.logger.Warn().Err(err).Str("transfer_id", id).Msg("transfer cache lookup failed")
		case ok:
			uc.countCache("hit")
			return cached, nil
		default:
			uc.countCache("miss")
		}
	}

	transfer, err := uc.transferRepo.GetByID(ctx, transferID, groupID)
	if err != nil {
		return nil, err
	}

	uc.cacheTransfer(ctx, uc.logger, transfer)

	return transfer, nil
}

// ListTransfers lists the group's transfers, newest first.
func (uc *TransferUseCase) ListTransfers(ctx context.Context, groupID domain.GroupID) ([]*domain.Transfer, error) {
	if groupID == "" {
		return nil, domain.ErrMissingGroup
	}

	return uc.transferRepo.ListByGroup(ctx, groupID)
}

func (uc *TransferUseCase) step(log zerolog.Logger, state domain.TransferState) {
	log.Debug().Str("state", string(state)).Msg("transfer state")
	if uc.metrics != nil {
		uc.metrics.TransferStates.WithLabelValues(string(state)).Inc()
	}
}

func (uc *TransferUseCase) fail(log zerolog.Logger, err error) error {
	de, known := domain.AsError(err)

	event := log.Info()
	if !known {
		event = log.Error()
	}
	event.Err(err).
		Str("state", string(domain.TransferFailed)).
		Str("code", de.Code).
		Msg("transfer failed")

	if uc.metrics != nil {
		uc.metrics.TransferStates.WithLabelValues(string(domain.TransferFailed)).Inc()
		uc.metrics.TransferErrors.WithLabelValues(de.Code).Inc()
	}

	if errors.Is(err, context.DeadlineExceeded) {
		log.Warn().Dur("timeout", DefaultTransactionTimeout).Msg("transfer transaction timed out and was rolled back")
	}

	return err
}

func (uc *TransferUseCase) cacheTransfer(ctx context.Context, log zerolog.Logger, transfer *domain.Transfer) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Set(ctx, transfer); err != nil {
		log.Warn().Err(err).Str("transfer_id", transfer.ID.String()).Msg("failed to cache transfer")
	}
}

func (uc *TransferUseCase) countCache(result string) {
	if uc.metrics != nil {
		uc.metrics.CacheLookups.WithLabelValues(result).Inc()
	}
}

// pickAccounts returns the source and target among the locked accounts. Accounts
// of another group or soft-deleted ones are treated as missing.
func pickAccounts(accounts []*domain.Account, groupID domain.GroupID, sourceID, targetID domain.AccountID) (*domain.Account, *domain.Account) {
	var source, target *domain.Account
	for _, a := range accounts {
		if a == nil || a.OwnedBy != groupID || a.Deleted {
			continue
		}
		switch a.ID {
		case sourceID:
			source = a
		case targetID:
			target = a
		}
	}
	return source, target
}

// targetLegFor builds the credited leg. Same-currency transfers mirror the source;
// a caller-supplied target amount is used as given; otherwise the source is converted.
func targetLegFor(source domain.Money, target domain.Currency, rate decimal.Decimal, supplied *decimal.Decimal) (domain.Money, error) {
	if source.Currency == target {
		return domain.Money{Amount: source.Amount, Currency: target}, nil
	}
	if supplied != nil {
		return domain.NewMoney(*supplied, target)
	}
	return source.Convert(rate, target), nil
}
