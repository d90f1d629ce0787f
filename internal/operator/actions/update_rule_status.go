package actions

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/storage"
)

// UpdateRuleStatus pauses, resumes or cancels a rule. The generation cursor is
// kept, so a resumed rule continues after its last materialized occurrence.
type UpdateRuleStatus struct {
	ID     uuid.UUID
	Status ledger.RuleStatus

	Updated ledger.RecurrenceRule
	IAction
}

func (u *UpdateRuleStatus) Perform(ctx context.Context, writer *storage.Writer) error {
	if !u.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ledger.ErrInvalidRule, u.Status)
	}

	rules, err := writer.Rules(ctx)
	if err != nil {
		return err
	}

	for i := range rules {
		if rules[i].ID != u.ID {
			continue
		}
		if rules[i].Status == ledger.RuleStatusCancelled && u.Status != ledger.RuleStatusCancelled {
			return fmt.Errorf("%w: cancelled rules cannot be reactivated", ledger.ErrInvalidRule)
		}
		rules[i].Status = u.Status
		if err := writer.PutRules(rules); err != nil {
			return err
		}
		u.Updated = rules[i]
		return nil
	}
	return fmt.Errorf("rule %s: %w", u.ID, storage.ErrNotFound)
}
