package actions

import (
	"context"
	"time"

	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/storage"
)

// ClaimCooldown records a recurring run at At unless one was recorded within
// Window. Check and write happen in one operator step, so of two overlapping
// startup checks only one claims the run.
type ClaimCooldown struct {
	At     time.Time
	Window time.Duration

	Claimed  bool
	Previous ledger.RecurringCooldown
	IAction
}

func (c *ClaimCooldown) Perform(ctx context.Context, writer *storage.Writer) error {
	cooldown, err := writer.Cooldown(ctx)
	if err != nil {
		return err
	}
	c.Previous = cooldown
	if !cooldown.Due(c.At, c.Window) {
		return nil
	}

	at := c.At
	if err := writer.PutCooldown(ledger.RecurringCooldown{LastRunAt: &at}); err != nil {
		return err
	}
	c.Claimed = true
	return nil
}

// ReleaseCooldown puts back the marker a claim replaced, for runs that
// aborted before doing any work.
type ReleaseCooldown struct {
	Previous ledger.RecurringCooldown
	IAction
}

func (r *ReleaseCooldown) Perform(_ context.Context, writer *storage.Writer) error {
	return writer.PutCooldown(r.Previous)
}
