package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-engine/internal/config"
	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/storage/memory"
)

type failingStore struct {
	CollectionStore
	err error
}

func (f failingStore) Get(context.Context, string) ([]byte, error) { return nil, f.err }

func newMemoryStorage() *Storage {
	return New(memory.New())
}

// -- Reader tests --

func TestReader_EmptyCollections(t *testing.T) {
	ctx := context.Background()
	r := newMemoryStorage().Read()

	rules, err := r.Rules(ctx)
	require.NoError(t, err)
	assert.NotNil(t, rules)
	assert.Empty(t, rules)

	cooldown, err := r.Cooldown(ctx)
	require.NoError(t, err)
	assert.Nil(t, cooldown.LastRunAt)

	_, err = r.Transaction(ctx, uuid.Must(uuid.NewV4()))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReader_PropagatesStoreErrors(t *testing.T) {
	boom := errors.New("connection reset")
	r := NewReader(failingStore{err: boom})

	_, err := r.Accounts(context.Background())

	assert.ErrorIs(t, err, boom)
}

func TestReader_DecodeError(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Set(ctx, CollectionAccounts, []byte(`{not json`)))

	_, err := NewReader(store).Accounts(ctx)

	assert.ErrorContains(t, err, "decode accounts")
}

// -- Writer tests --

func TestWriter_CommitPersists(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStorage()
	acc := ledger.Account{ID: uuid.Must(uuid.NewV4()), Name: "Checking", Type: ledger.AccountTypeBank, Balance: decimal.NewFromInt(5)}

	w, err := s.Write(ctx)
	require.NoError(t, err)
	require.NoError(t, w.PutAccounts([]ledger.Account{acc}))

	// staged data is visible through the writer only
	staged, err := w.Account(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Checking", staged.Name)
	_, err = s.Read().Account(ctx, acc.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, w.Commit(ctx))

	got, err := s.Read().Account(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(5)))
}

func TestWriter_RollbackDiscards(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStorage()

	w, err := s.Write(ctx)
	require.NoError(t, err)
	require.NoError(t, w.PutLinks([]ledger.SettlementLink{{OriginID: uuid.Must(uuid.NewV4())}}))
	require.NoError(t, w.Rollback())
	require.NoError(t, w.Commit(ctx))

	links, err := s.Read().Links(ctx)
	require.NoError(t, err)
	assert.Empty(t, links)
	assert.Error(t, w.PutLinks(nil))
}

func TestWriter_PutTransactionsMarksProjectionDirty(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStorage()
	computedAt := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

	w, _ := s.Write(ctx)
	require.NoError(t, w.PutProjection(ledger.SettlementProjectionCache{
		ComputedAt: computedAt,
		Projection: &ledger.SettlementProjection{TotalNextMonth: decimal.NewFromInt(70)},
	}))
	require.NoError(t, w.Commit(ctx))

	w, _ = s.Write(ctx)
	require.NoError(t, w.PutTransactions(ctx, []ledger.Transaction{{ID: uuid.Must(uuid.NewV4()), Type: ledger.TransactionTypeIncome}}))
	require.NoError(t, w.Commit(ctx))

	cache, err := s.Read().Projection(ctx)
	require.NoError(t, err)
	assert.True(t, cache.Dirty)
	assert.True(t, cache.ComputedAt.Equal(computedAt))
	require.NotNil(t, cache.Projection)
	assert.True(t, cache.Projection.TotalNextMonth.Equal(decimal.NewFromInt(70)))
}

func TestStorage_WriteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newMemoryStorage().Write(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewStorage_MemoryBackend(t *testing.T) {
	s, err := NewStorage(&config.Config{StoreBackend: config.StoreBackendMemory})

	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestNewStorage_UnknownBackend(t *testing.T) {
	_, err := NewStorage(&config.Config{StoreBackend: "sqlite"})

	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestStorage_Ping(t *testing.T) {
	assert.NoError(t, newMemoryStorage().Ping(context.Background()))

	down := New(failingStore{err: errors.New("connection refused")})
	assert.EqualError(t, down.Ping(context.Background()), "connection refused")
}
