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
	"github.com/carson-networks/budget-engine/internal/storage"
)

func seedTransactions(t *testing.T, s *storage.Storage, txs []ledger.Transaction) {
	t.Helper()
	ctx := context.Background()
	w, err := s.Write(ctx)
	require.NoError(t, err)
	require.NoError(t, w.PutTransactions(ctx, txs))
	require.NoError(t, w.Commit(ctx))
}

func makeTransactions(n int, createdAt time.Time) []ledger.Transaction {
	txs := make([]ledger.Transaction, n)
	for i := range txs {
		txs[i] = ledger.Transaction{
			ID:        newID(),
			Type:      ledger.TransactionTypeIncome,
			Amount:    decimal.RequireFromString("5.00"),
			Date:      createdAt,
			Status:    ledger.TransactionStatusCompleted,
			CreatedAt: createdAt.Add(time.Duration(i) * time.Minute),
		}
	}
	return txs
}

// -- CreateTransaction tests --

func TestCreateTransaction_Success(t *testing.T) {
	env := newTestEnv(t)
	svc := NewService(env.storage, env.op, env.logger, Options{DefaultCurrency: "JPY"})
	ctx := context.Background()
	acc, err := svc.Account.CreateAccount(ctx, ledger.Account{Name: "Checking", Type: ledger.AccountTypeBank})
	require.NoError(t, err)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tx, err := svc.Transaction.CreateTransaction(ctx, ledger.Transaction{
		Type: ledger.TransactionTypeIncome, Amount: decimal.RequireFromString("42.50"),
		Date: now, AccountID: acc.ID, Description: "Refund",
	}, now)

	require.NoError(t, err)
	assert.NotEqual(t, acc.ID, tx.ID)
	assert.Equal(t, ledger.TransactionStatusCompleted, tx.Status)
	assert.True(t, tx.CreatedAt.Equal(now))

	stored, err := svc.Account.GetAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(decimal.RequireFromString("42.50")))
}

func TestCreateTransaction_ProcessorError(t *testing.T) {
	env := newTestEnv(t)
	op := new(mockProcessor)
	op.On("Process", mock.Anything, mock.AnythingOfType("*actions.CreateTransaction")).
		Return(errors.New("connection refused"))

	_, err := NewTransactionService(env.storage, op).CreateTransaction(context.Background(), ledger.Transaction{}, time.Now())

	assert.EqualError(t, err, "connection refused")
}

// -- DeleteTransaction tests --

func TestDeleteTransaction_ReturnsRemovedCount(t *testing.T) {
	env := newTestEnv(t)
	op := new(mockProcessor)
	id := newID()
	op.On("Process", mock.Anything, mock.MatchedBy(func(action actions.IAction) bool {
		d, ok := action.(*actions.DeleteTransaction)
		return ok && d.ID == id
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*actions.DeleteTransaction).Removed = 3
	}).Return(nil)

	removed, err := NewTransactionService(env.storage, op).DeleteTransaction(context.Background(), id, time.Now())

	require.NoError(t, err)
	assert.Equal(t, 3, removed)
}

func TestDeleteTransaction_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := NewTransactionService(env.storage, env.op).DeleteTransaction(context.Background(), newID(), time.Now())

	assert.ErrorIs(t, err, storage.ErrNotFound)
}

// -- ListTransactions tests --

func TestListTransactions_NoResults(t *testing.T) {
	env := newTestEnv(t)

	txs, nextCursor, err := NewTransactionService(env.storage, env.op).ListTransactions(context.Background(), TransactionFilter{}, nil)

	assert.NoError(t, err)
	assert.Nil(t, txs)
	assert.Nil(t, nextCursor)
}

func TestListTransactions_Paginates(t *testing.T) {
	env := newTestEnv(t)
	created := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	txs := makeTransactions(25, created)
	seedTransactions(t, env.storage, txs)
	svc := NewTransactionService(env.storage, env.op)
	ctx := context.Background()

	first, cursor, err := svc.ListTransactions(ctx, TransactionFilter{}, nil)
	require.NoError(t, err)
	assert.Len(t, first, defaultLimit)
	require.NotNil(t, cursor)
	assert.Equal(t, defaultLimit, cursor.Position)
	assert.True(t, cursor.MaxCreationTime.Equal(created.Add(24*time.Minute)))
	assert.True(t, first[0].CreatedAt.After(first[1].CreatedAt))

	// entries created after the first page are not pulled into later pages
	seedTransactions(t, env.storage, append(txs, makeTransactions(1, created.Add(time.Hour))...))

	second, cursor, err := svc.ListTransactions(ctx, TransactionFilter{}, cursor)
	require.NoError(t, err)
	assert.Len(t, second, 5)
	assert.Nil(t, cursor)
}

func TestListTransactions_Filters(t *testing.T) {
	env := newTestEnv(t)
	accountID, ruleID := newID(), newID()
	txs := makeTransactions(4, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	txs[0].AccountID = accountID
	txs[1].SourceAccountID = accountID
	txs[2].RecurringRuleID = ruleID
	txs[3].Status = ledger.TransactionStatusPendingSettlement
	seedTransactions(t, env.storage, txs)
	svc := NewTransactionService(env.storage, env.op)
	ctx := context.Background()

	byAccount, _, err := svc.ListTransactions(ctx, TransactionFilter{AccountID: accountID}, nil)
	require.NoError(t, err)
	assert.Len(t, byAccount, 2)

	byRule, _, err := svc.ListTransactions(ctx, TransactionFilter{RuleID: ruleID}, nil)
	require.NoError(t, err)
	require.Len(t, byRule, 1)
	assert.Equal(t, txs[2].ID, byRule[0].ID)

	pending, _, err := svc.ListTransactions(ctx, TransactionFilter{Status: ledger.TransactionStatusPendingSettlement}, nil)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, txs[3].ID, pending[0].ID)
}
