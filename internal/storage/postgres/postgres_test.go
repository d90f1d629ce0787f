package postgres

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container test skipped in -short mode")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("budget"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("testpassword"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(newTestDB(t))

	missing, err := s.Get(ctx, "accounts")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, s.Set(ctx, "accounts", []byte(`[{"id":"a","balance":"10"}]`)))
	require.NoError(t, s.Set(ctx, "accounts", []byte(`[{"id":"b","balance":"20"}]`)))

	payload, err := s.Get(ctx, "accounts")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"b","balance":"20"}]`, string(payload))
}

func TestStore_SetMany(t *testing.T) {
	ctx := context.Background()
	s := New(newTestDB(t))

	require.NoError(t, s.SetMany(ctx, map[string][]byte{
		"transactions":          []byte(`[]`),
		"settlement_projection": []byte(`{"dirty":true}`),
	}))

	txs, err := s.Get(ctx, "transactions")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(txs))

	cache, err := s.Get(ctx, "settlement_projection")
	require.NoError(t, err)
	assert.JSONEq(t, `{"dirty":true}`, string(cache))
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)

	assert.NoError(t, Migrate(db))
}
