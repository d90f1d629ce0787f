package operator

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-engine/internal/operator/actions"
	"github.com/carson-networks/budget-engine/internal/storage"
)

// Operator is the single worker draining the action queue. Each action gets
// its own Writer: committed when Perform succeeds, rolled back otherwise.
type Operator struct {
	storage *storage.Storage
	queue   <-chan ActionItem
	logger  *logrus.Logger
}

func NewOperator(s *storage.Storage, queue <-chan ActionItem, logger *logrus.Logger) *Operator {
	return &Operator{
		storage: s,
		queue:   queue,
		logger:  logger,
	}
}

// Run returns once the queue is closed and drained.
func (o *Operator) Run() {
	for item := range o.queue {
		item.result <- o.apply(item.ctx, item.action)
	}
}

func (o *Operator) apply(ctx context.Context, action actions.IAction) error {
	// Abandoned by the caller before it reached the front of the queue.
	if err := ctx.Err(); err != nil {
		return err
	}

	name := fmt.Sprintf("%T", action)
	start := time.Now()

	writer, err := o.storage.Write(ctx)
	if err != nil {
		return err
	}

	if err := action.Perform(ctx, writer); err != nil {
		_ = writer.Rollback()
		o.logger.WithError(err).WithField("action", name).Debug("Operator.Apply.RolledBack")
		return err
	}

	if err := writer.Commit(ctx); err != nil {
		o.logger.WithError(err).WithField("action", name).Error("Operator.Apply.CommitError")
		return err
	}

	o.logger.WithFields(logrus.Fields{
		"action":  name,
		"applyMs": time.Since(start).Milliseconds(),
	}).Debug("Operator.Apply.Committed")
	return nil
}

// ActionItem is one queued action and the channel its outcome is sent on.
type ActionItem struct {
	ctx    context.Context
	action actions.IAction
	result chan error
}
