package service

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/operator"
	"github.com/carson-networks/budget-engine/internal/operator/actions"
	"github.com/carson-networks/budget-engine/internal/storage"
	"github.com/carson-networks/budget-engine/internal/storage/memory"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func newID() uuid.UUID { return uuid.Must(uuid.NewV4()) }

// mockProcessor is a mock for actionProcessor.
type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) Process(ctx context.Context, action actions.IAction) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

type testEnv struct {
	storage *storage.Storage
	op      *operator.OperatorDelegator
	logger  *logrus.Logger
	hook    *test.Hook
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	logger, hook := test.NewNullLogger()
	s := storage.New(memory.New())
	op := operator.NewOperatorDelegator(s, logger)
	op.Start()
	t.Cleanup(op.Stop)
	return testEnv{storage: s, op: op, logger: logger, hook: hook}
}

// seed writes collections directly, bypassing validation.
func (e testEnv) seed(t *testing.T, rules []ledger.RecurrenceRule, instruments []ledger.FundingInstrument, accounts []ledger.Account) {
	t.Helper()
	ctx := context.Background()
	w, err := e.storage.Write(ctx)
	require.NoError(t, err)
	require.NoError(t, w.PutRules(rules))
	require.NoError(t, w.PutInstruments(instruments))
	require.NoError(t, w.PutAccounts(accounts))
	require.NoError(t, w.Commit(ctx))
}

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) ([]byte, error) { return nil, f.err }

func (f failingStore) Set(context.Context, string, []byte) error { return f.err }
