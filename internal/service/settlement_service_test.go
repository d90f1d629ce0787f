package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/operator/actions"
)

type settlementFixture struct {
	env      testEnv
	svc      *Service
	checking ledger.Account
	card     ledger.FundingInstrument
}

func newSettlementFixture(t *testing.T) settlementFixture {
	t.Helper()
	env := newTestEnv(t)
	svc := NewService(env.storage, env.op, env.logger, Options{DefaultCurrency: "JPY"})
	ctx := context.Background()

	checking, err := svc.Account.CreateAccount(ctx, ledger.Account{Name: "Checking", Type: ledger.AccountTypeBank})
	require.NoError(t, err)
	card, err := svc.Account.CreateInstrument(ctx, ledger.FundingInstrument{
		Name: "Visa", AccountID: checking.ID, Kind: ledger.InstrumentKindCreditCard,
		ClosingDay: ptr(15), BillingDay: ptr(10),
	})
	require.NoError(t, err)

	return settlementFixture{env: env, svc: svc, checking: checking, card: card}
}

func (f settlementFixture) charge(t *testing.T, amount int64, date time.Time) ledger.Transaction {
	t.Helper()
	tx, err := f.svc.Transaction.CreateTransaction(context.Background(), ledger.Transaction{
		Type: ledger.TransactionTypeExpense, Amount: decimal.NewFromInt(amount),
		Date: date, InstrumentID: f.card.ID,
	}, date)
	require.NoError(t, err)
	return tx
}

// -- SettlementDate tests --

func TestSettlementService_SettlementDate(t *testing.T) {
	svc := NewSettlementService(nil, nil, nil)

	got, err := svc.SettlementDate(day(2024, 3, 20), 15, 10)
	require.NoError(t, err)
	assert.Equal(t, day(2024, 5, 10), got)

	_, err = svc.SettlementDate(day(2024, 3, 20), 0, 10)
	assert.ErrorIs(t, err, ledger.ErrInvalidInstrument)
	_, err = svc.SettlementDate(day(2024, 3, 20), 15, 32)
	assert.ErrorIs(t, err, ledger.ErrInvalidInstrument)
}

// -- Upcoming tests --

func TestSettlementService_Upcoming(t *testing.T) {
	f := newSettlementFixture(t)
	f.charge(t, 100, day(2024, 1, 20))
	f.charge(t, 70, day(2024, 2, 20))

	projection, err := f.svc.Settlement.Upcoming(context.Background(), day(2024, 3, 5))

	require.NoError(t, err)
	require.Len(t, projection.CurrentMonth, 1)
	require.Len(t, projection.NextMonth, 1)
	assert.True(t, projection.TotalCurrentMonth.Equal(decimal.NewFromInt(100)))
	assert.True(t, projection.TotalNextMonth.Equal(decimal.NewFromInt(70)))
	assert.Equal(t, "JPY", projection.CurrentMonth[0].Currency)
}

func TestSettlementService_UpcomingServesFreshCache(t *testing.T) {
	f := newSettlementFixture(t)
	f.charge(t, 70, day(2024, 2, 20))
	now := day(2024, 3, 5)

	_, err := f.svc.Settlement.Upcoming(context.Background(), now)
	require.NoError(t, err)

	op := new(mockProcessor)
	cached := NewSettlementService(f.env.storage, op, f.env.logger)
	projection, err := cached.Upcoming(context.Background(), now.Add(3*time.Hour))

	require.NoError(t, err)
	assert.True(t, projection.TotalNextMonth.Equal(decimal.NewFromInt(70)))
	op.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
}

func TestSettlementService_UpcomingProcessorError(t *testing.T) {
	env := newTestEnv(t)
	op := new(mockProcessor)
	op.On("Process", mock.Anything, mock.AnythingOfType("*actions.RefreshProjection")).
		Return(errors.New("queue closed"))

	_, err := NewSettlementService(env.storage, op, env.logger).Upcoming(context.Background(), day(2024, 3, 5))

	assert.EqualError(t, err, "queue closed")
	op.AssertExpectations(t)
}

// -- PostDue tests --

func TestSettlementService_PostDue(t *testing.T) {
	f := newSettlementFixture(t)
	f.charge(t, 100, day(2024, 1, 20))
	f.charge(t, 50, day(2024, 2, 1))
	ctx := context.Background()

	result, err := f.svc.Settlement.PostDue(ctx, day(2024, 3, 10))

	require.NoError(t, err)
	assert.Equal(t, PostResult{Posted: 2, Created: 1}, result)
	acc, err := f.svc.Account.GetAccount(ctx, f.checking.ID)
	require.NoError(t, err)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(-150)))

	// posting marks the cached projection dirty
	cache, err := f.env.storage.Read().Projection(ctx)
	require.NoError(t, err)
	assert.True(t, cache.Dirty)
}

func TestSettlementService_PostDuePassesNow(t *testing.T) {
	env := newTestEnv(t)
	now := day(2024, 3, 10)
	op := new(mockProcessor)
	op.On("Process", mock.Anything, mock.MatchedBy(func(action actions.IAction) bool {
		p, ok := action.(*actions.PostSettlements)
		return ok && p.Today.Equal(now)
	})).Return(nil)

	result, err := NewSettlementService(env.storage, op, env.logger).PostDue(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, PostResult{}, result)
	op.AssertExpectations(t)
}
