package operator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/storage"
	"github.com/carson-networks/budget-engine/internal/storage/memory"
)

// appendRule stages one more rule on top of whatever the writer sees.
type appendRule struct {
	title string
}

func (a *appendRule) Perform(ctx context.Context, writer *storage.Writer) error {
	rules, err := writer.Rules(ctx)
	if err != nil {
		return err
	}
	return writer.PutRules(append(rules, ledger.RecurrenceRule{Title: a.title}))
}

type failingAction struct{}

func (failingAction) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := writer.PutRules([]ledger.RecurrenceRule{{Title: "staged"}}); err != nil {
		return err
	}
	return errors.New("boom")
}

func newDelegator(t *testing.T) (*OperatorDelegator, *storage.Storage) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	s := storage.New(memory.New())
	d := NewOperatorDelegator(s, logger)
	d.Start()
	t.Cleanup(d.Stop)
	return d, s
}

func TestOperatorDelegator_SerializesWrites(t *testing.T) {
	d, s := newDelegator(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, d.Process(ctx, &appendRule{title: "r"}))
		}()
	}
	wg.Wait()

	rules, err := s.Read().Rules(ctx)
	require.NoError(t, err)
	assert.Len(t, rules, 50)
}

func TestOperatorDelegator_RollsBackOnError(t *testing.T) {
	d, s := newDelegator(t)
	ctx := context.Background()

	err := d.Process(ctx, failingAction{})

	assert.EqualError(t, err, "boom")
	rules, err := s.Read().Rules(ctx)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestOperatorDelegator_CancelledContext(t *testing.T) {
	d, s := newDelegator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.Process(ctx, &appendRule{title: "never"})

	assert.ErrorIs(t, err, context.Canceled)
	d.Stop()
	rules, err := s.Read().Rules(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestOperatorDelegator_StopIsIdempotent(t *testing.T) {
	logger := logrus.New()
	d := NewOperatorDelegator(storage.New(memory.New()), logger)
	d.Start()

	d.Stop()
	assert.NotPanics(t, d.Stop)
}

func TestOperatorDelegator_ProcessAfterStop(t *testing.T) {
	d, s := newDelegator(t)
	ctx := context.Background()
	require.NoError(t, d.Process(ctx, &appendRule{title: "before"}))

	d.Stop()

	var err error
	assert.NotPanics(t, func() {
		err = d.Process(ctx, &appendRule{title: "after"})
	})
	assert.ErrorIs(t, err, ErrStopped)
	rules, err := s.Read().Rules(ctx)
	require.NoError(t, err)
	assert.Len(t, rules, 1)
}

func TestOperatorDelegator_StopDuringConcurrentProcess(t *testing.T) {
	d, _ := newDelegator(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := d.Process(ctx, &appendRule{title: "r"})
			if err != nil {
				assert.ErrorIs(t, err, ErrStopped)
			}
		}()
	}
	d.Stop()
	wg.Wait()
}
