package operator

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-engine/internal/operator/actions"
	"github.com/carson-networks/budget-engine/internal/storage"
)

// ErrStopped is returned by Process once Stop has been called.
var ErrStopped = errors.New("operator stopped")

// OperatorDelegator owns the action queue and its single Operator. Every
// mutation of the collection store goes through Process, so whole-collection
// read-modify-write cycles never interleave.
type OperatorDelegator struct {
	storage  *storage.Storage
	logger   *logrus.Logger
	queue    chan ActionItem
	wg       sync.WaitGroup
	stopOnce sync.Once

	// mu guards stopped and the queue's closing against in-flight sends.
	mu      sync.RWMutex
	stopped bool
}

func NewOperatorDelegator(s *storage.Storage, logger *logrus.Logger) *OperatorDelegator {
	return &OperatorDelegator{
		storage: s,
		logger:  logger,
		queue:   make(chan ActionItem, 1000),
	}
}

func (d *OperatorDelegator) Start() {
	d.wg.Add(1)
	op := NewOperator(d.storage, d.queue, d.logger)
	go func() {
		defer d.wg.Done()
		op.Run()
	}()
}

// Stop refuses new actions, lets queued ones finish and waits for the worker.
func (d *OperatorDelegator) Stop() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.stopped = true
		close(d.queue)
		d.mu.Unlock()
		d.wg.Wait()
	})
}

// Process enqueues action and waits for it to be committed or rolled back.
func (d *OperatorDelegator) Process(ctx context.Context, action actions.IAction) error {
	item := ActionItem{
		ctx:    ctx,
		action: action,
		result: make(chan error, 1),
	}

	if err := d.enqueue(ctx, item); err != nil {
		return err
	}

	select {
	case err := <-item.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *OperatorDelegator) enqueue(ctx context.Context, item ActionItem) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}

	select {
	case d.queue <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
