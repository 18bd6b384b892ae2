package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/groupledger/internal/domain"
	"github.com/iho/groupledger/internal/usecase"
	"github.com/iho/groupledger/internal/usecase/mocks"
)

// decimalEq matches a decimal.Decimal by value rather than representation.
type decimalEq string

func (d decimalEq) Matches(x any) bool {
	v, ok := x.(decimal.Decimal)
	return ok && v.Equal(decimal.RequireFromString(string(d)))
}

func (d decimalEq) String() string { return "decimal equal to " + string(d) }

type transferMocks struct {
	txMgr    *mocks.MockTransactionManager
	tx       *mocks.MockTransaction
	accounts *mocks.MockAccountRepository
	repo     *mocks.MockTransferRepository
	outbox   *mocks.MockOutboxRepository
	idGen    *mocks.MockIDGenerator
	cache    *mocks.MockTransferCache
	retrier  *mocks.MockRetrier
}

func newTransferMocks(ctrl *gomock.Controller) *transferMocks {
	m := &transferMocks{
		txMgr:    mocks.NewMockTransactionManager(ctrl),
		tx:       mocks.NewMockTransaction(ctrl),
		accounts: mocks.NewMockAccountRepository(ctrl),
		repo:     mocks.NewMockTransferRepository(ctrl),
		outbox:   mocks.NewMockOutboxRepository(ctrl),
		idGen:    mocks.NewMockIDGenerator(ctrl),
		cache:    mocks.NewMockTransferCache(ctrl),
		retrier:  mocks.NewMockRetrier(ctrl),
	}

	n := 0
	m.idGen.EXPECT().Generate().DoAndReturn(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}).AnyTimes()
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()

	return m
}

func (m *transferMocks) useCase(withCache, withRetrier bool) *usecase.TransferUseCase {
	deps := usecase.TransferDeps{
		TxManager:    m.txMgr,
		AccountRepo:  m.accounts,
		TransferRepo: m.repo,
		OutboxRepo:   m.outbox,
		IDGen:        m.idGen,
		Logger:       zerolog.Nop(),
		Clock:        func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) },
	}
	if withCache {
		deps.Cache = m.cache
	}
	if withRetrier {
		deps.Retrier = m.retrier
	}
	return usecase.NewTransferUseCase(deps)
}

func account(id domain.AccountID, currency domain.Currency, balance string) *domain.Account {
	return &domain.Account{
		ID:       id,
		OwnedBy:  "group-1",
		Currency: currency,
		Balance:  domain.Money{Amount: decimal.RequireFromString(balance), Currency: currency},
	}
}

func TestTransferUseCase_CreateTransfer(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.CreateTransferInput
		setupMocks  func(m *transferMocks)
		expectError error
	}{
		{
			name: "successful same currency transfer locks in sorted order",
			input: usecase.CreateTransferInput{
				SourceAccountID: "acc-2",
				TargetAccountID: "acc-1",
				SourceAmount:    decimal.RequireFromString("30.00"),
			},
			setupMocks: func(m *transferMocks) {
				gomock.InOrder(
					m.txMgr.EXPECT().Begin(gomock.Any()).Return(m.tx, nil),
					m.accounts.EXPECT().
						GetByIDsForUpdate(gomock.Any(), m.tx, domain.GroupID("group-1"), []domain.AccountID{"acc-1", "acc-2"}).
						Return([]*domain.Account{account("acc-1", "USD", "0.00"), account("acc-2", "USD", "100.00")}, nil),
					m.accounts.EXPECT().UpdateBalance(gomock.Any(), m.tx, domain.AccountID("acc-2"), decimalEq("70.00"), gomock.Any()).Return(nil),
					m.accounts.EXPECT().UpdateBalance(gomock.Any(), m.tx, domain.AccountID("acc-1"), decimalEq("30.00"), gomock.Any()).Return(nil),
					m.repo.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil),
					m.outbox.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).DoAndReturn(
						func(_ context.Context, _ usecase.Transaction, e *domain.OutboxEvent) error {
							if e.EventType != domain.EventTypeTransferCreated {
								return fmt.Errorf("unexpected event type %s", e.EventType)
							}
							return nil
						}),
					m.tx.EXPECT().Commit(gomock.Any()).Return(nil),
				)
			},
		},
		{
			name: "validation failure touches nothing",
			input: usecase.CreateTransferInput{
				SourceAccountID: "acc-1",
				TargetAccountID: "acc-1",
				SourceAmount:    decimal.RequireFromString("30.00"),
			},
			setupMocks:  func(m *transferMocks) {},
			expectError: domain.ErrTransferToSameAccount,
		},
		{
			name: "missing account",
			input: usecase.CreateTransferInput{
				SourceAccountID: "acc-1",
				TargetAccountID: "acc-2",
				SourceAmount:    decimal.RequireFromString("30.00"),
			},
			setupMocks: func(m *transferMocks) {
				m.txMgr.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
				m.accounts.EXPECT().GetByIDsForUpdate(gomock.Any(), m.tx, gomock.Any(), gomock.Any()).
					Return([]*domain.Account{account("acc-1", "USD", "100.00")}, nil)
			},
			expectError: domain.ErrAccountNotFound,
		},
		{
			name: "account of another group is hidden",
			input: usecase.CreateTransferInput{
				SourceAccountID: "acc-1",
				TargetAccountID: "acc-2",
				SourceAmount:    decimal.RequireFromString("30.00"),
			},
			setupMocks: func(m *transferMocks) {
				foreign := account("acc-2", "USD", "0.00")
				foreign.OwnedBy = "group-2"
				m.txMgr.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
				m.accounts.EXPECT().GetByIDsForUpdate(gomock.Any(), m.tx, gomock.Any(), gomock.Any()).
					Return([]*domain.Account{account("acc-1", "USD", "100.00"), foreign}, nil)
			},
			expectError: domain.ErrAccountNotFound,
		},
		{
			name: "insufficient funds writes nothing",
			input: usecase.CreateTransferInput{
				SourceAccountID: "acc-1",
				TargetAccountID: "acc-2",
				SourceAmount:    decimal.RequireFromString("120.00"),
			},
			setupMocks: func(m *transferMocks) {
				m.txMgr.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
				m.accounts.EXPECT().GetByIDsForUpdate(gomock.Any(), m.tx, gomock.Any(), gomock.Any()).
					Return([]*domain.Account{account("acc-1", "USD", "100.00"), account("acc-2", "USD", "0.00")}, nil)
			},
			expectError: domain.ErrInsufficientFunds,
		},
		{
			name: "cross currency without target amount",
			input: usecase.CreateTransferInput{
				SourceAccountID: "acc-1",
				TargetAccountID: "acc-2",
				SourceAmount:    decimal.RequireFromString("50.00"),
			},
			setupMocks: func(m *transferMocks) {
				m.txMgr.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
				m.accounts.EXPECT().GetByIDsForUpdate(gomock.Any(), m.tx, gomock.Any(), gomock.Any()).
					Return([]*domain.Account{account("acc-1", "USD", "100.00"), account("acc-2", "EUR", "0.00")}, nil)
			},
			expectError: domain.ErrRateUnavailable,
		},
		{
			name: "source amount finer than minor unit",
			input: usecase.CreateTransferInput{
				SourceAccountID: "acc-1",
				TargetAccountID: "acc-2",
				SourceAmount:    decimal.RequireFromString("10.005"),
			},
			setupMocks: func(m *transferMocks) {
				m.txMgr.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
				m.accounts.EXPECT().GetByIDsForUpdate(gomock.Any(), m.tx, gomock.Any(), gomock.Any()).
					Return([]*domain.Account{account("acc-1", "USD", "100.00"), account("acc-2", "USD", "0.00")}, nil)
			},
			expectError: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := newTransferMocks(ctrl)
			tt.setupMocks(m)

			transfer, err := m.useCase(false, false).CreateTransfer(context.Background(), "group-1", tt.input)

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected error %v, got %v", tt.expectError, err)
				}
				if transfer != nil {
					t.Fatalf("expected no transfer, got %+v", transfer)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !transfer.ExchangeRate.Equal(decimal.NewFromInt(1)) {
				t.Errorf("expected identity rate, got %s", transfer.ExchangeRate)
			}
			if !transfer.TargetAmount.Equal(transfer.SourceAmount) {
				t.Errorf("expected equal legs, got %s and %s", transfer.SourceAmount, transfer.TargetAmount)
			}
		})
	}
}

func TestTransferUseCase_CreateTransfer_MissingGroup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newTransferMocks(ctrl)

	_, err := m.useCase(false, false).CreateTransfer(context.Background(), "", usecase.CreateTransferInput{
		SourceAccountID: "acc-1",
		TargetAccountID: "acc-2",
		SourceAmount:    decimal.NewFromInt(1),
	})
	if !errors.Is(err, domain.ErrMissingGroup) {
		t.Fatalf("expected ErrMissingGroup, got %v", err)
	}
}

func TestTransferUseCase_CreateTransfer_CommitFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newTransferMocks(ctrl)
	commitErr := errors.New("connection reset")

	m.txMgr.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.accounts.EXPECT().GetByIDsForUpdate(gomock.Any(), m.tx, gomock.Any(), gomock.Any()).
		Return([]*domain.Account{account("acc-1", "USD", "100.00"), account("acc-2", "EUR", "0.00")}, nil)
	m.accounts.EXPECT().UpdateBalance(gomock.Any(), m.tx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	m.repo.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil)
	m.outbox.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil)
	m.tx.EXPECT().Commit(gomock.Any()).Return(commitErr)

	target := decimal.RequireFromString("45.00")
	_, err := m.useCase(false, false).CreateTransfer(context.Background(), "group-1", usecase.CreateTransferInput{
		SourceAccountID: "acc-1",
		TargetAccountID: "acc-2",
		SourceAmount:    decimal.RequireFromString("50.00"),
		TargetAmount:    &target,
	})
	if !errors.Is(err, commitErr) {
		t.Fatalf("expected commit error, got %v", err)
	}
	if de, known := domain.AsError(err); known || de.Code != "INTERNAL_ERROR" {
		t.Fatalf("expected infrastructure error to map to INTERNAL_ERROR, got %+v", de)
	}
}

func TestTransferUseCase_CreateTransfer_RetriesWholeUnit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newTransferMocks(ctrl)
	transient := errors.New("deadlock detected")

	m.retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, op func() error) error {
			if err := op(); err == nil {
				return errors.New("expected first attempt to fail")
			}
			return op()
		})

	gomock.InOrder(
		m.txMgr.EXPECT().Begin(gomock.Any()).Return(nil, transient),
		m.txMgr.EXPECT().Begin(gomock.Any()).Return(m.tx, nil),
	)
	m.accounts.EXPECT().GetByIDsForUpdate(gomock.Any(), m.tx, gomock.Any(), gomock.Any()).
		Return([]*domain.Account{account("acc-1", "USD", "100.00"), account("acc-2", "USD", "0.00")}, nil)
	m.accounts.EXPECT().UpdateBalance(gomock.Any(), m.tx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	m.repo.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil)
	m.outbox.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil)
	m.tx.EXPECT().Commit(gomock.Any()).Return(nil)

	transfer, err := m.useCase(false, true).CreateTransfer(context.Background(), "group-1", usecase.CreateTransferInput{
		SourceAccountID: "acc-1",
		TargetAccountID: "acc-2",
		SourceAmount:    decimal.RequireFromString("10.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transfer == nil {
		t.Fatalf("expected transfer")
	}
}

func TestTransferUseCase_GetTransfer_UsesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newTransferMocks(ctrl)
	cached := &domain.Transfer{ID: "tr-1", OwnedBy: "group-1"}

	m.cache.EXPECT().Get(gomock.Any(), domain.GroupID("group-1"), domain.TransferID("tr-1")).Return(cached, true, nil)

	got, err := m.useCase(true, false).GetTransfer(context.Background(), "group-1", "tr-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != cached {
		t.Fatalf("expected cached transfer")
	}
}

func TestTransferUseCase_GetTransfer_MissFillsCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newTransferMocks(ctrl)
	stored := &domain.Transfer{ID: "tr-1", OwnedBy: "group-1"}

	gomock.InOrder(
		m.cache.EXPECT().Get(gomock.Any(), domain.GroupID("group-1"), domain.TransferID("tr-1")).Return(nil, false, nil),
		m.repo.EXPECT().GetByID(gomock.Any(), domain.TransferID("tr-1"), domain.GroupID("group-1")).Return(stored, nil),
		m.cache.EXPECT().Set(gomock.Any(), stored).Return(nil),
	)

	got, err := m.useCase(true, false).GetTransfer(context.Background(), "group-1", "tr-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "tr-1" {
		t.Fatalf("expected tr-1, got %s", got.ID)
	}
}

func TestTransferUseCase_GetTransfer_CacheErrorFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newTransferMocks(ctrl)

	m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, false, errors.New("redis down"))
	m.repo.EXPECT().GetByID(gomock.Any(), domain.TransferID("tr-404"), domain.GroupID("group-1")).Return(nil, domain.ErrTransferNotFound)

	_, err := m.useCase(true, false).GetTransfer(context.Background(), "group-1", "tr-404")
	if !errors.Is(err, domain.ErrTransferNotFound) {
		t.Fatalf("expected ErrTransferNotFound, got %v", err)
	}
}

func TestTransferUseCase_CreateTransfer_TruncatesToStoragePrecision(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newTransferMocks(ctrl)
	var stored *domain.Transfer
	gomock.InOrder(
		m.txMgr.EXPECT().Begin(gomock.Any()).Return(m.tx, nil),
		m.accounts.EXPECT().GetByIDsForUpdate(gomock.Any(), m.tx, domain.GroupID("group-1"), gomock.Any()).
			Return([]*domain.Account{account("acc-1", "USD", "100.00"), account("acc-2", "USD", "0.00")}, nil),
		m.accounts.EXPECT().UpdateBalance(gomock.Any(), m.tx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2),
		m.repo.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ usecase.Transaction, tr *domain.Transfer) error {
				stored = tr
				return nil
			}),
		m.outbox.EXPECT().Create(gomock.Any(), m.tx, gomock.Any()).Return(nil),
		m.tx.EXPECT().Commit(gomock.Any()).Return(nil),
	)

	uc := usecase.NewTransferUseCase(usecase.TransferDeps{
		TxManager:    m.txMgr,
		AccountRepo:  m.accounts,
		TransferRepo: m.repo,
		OutboxRepo:   m.outbox,
		IDGen:        m.idGen,
		Logger:       zerolog.Nop(),
		Clock:        func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 123456789, time.UTC) },
	})

	transfer, err := uc.CreateTransfer(context.Background(), "group-1", usecase.CreateTransferInput{
		SourceAccountID: "acc-1",
		TargetAccountID: "acc-2",
		SourceAmount:    decimal.RequireFromString("10.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC)
	if !transfer.CreatedAt.Equal(want) {
		t.Fatalf("expected %v, got %v", want, transfer.CreatedAt)
	}
	if stored == nil || !stored.CreatedAt.Equal(want) {
		t.Fatalf("expected persisted transfer at %v, got %+v", want, stored)
	}
}
