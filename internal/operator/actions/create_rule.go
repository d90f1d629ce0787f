package actions

import (
	"context"

	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/storage"
)

type CreateRule struct {
	Rule ledger.RecurrenceRule

	Created ledger.RecurrenceRule
	IAction
}

func (c *CreateRule) Perform(ctx context.Context, writer *storage.Writer) error {
	rule := c.Rule
	if rule.Status == "" {
		rule.Status = ledger.RuleStatusActive
	}
	if err := rule.Validate(); err != nil {
		return err
	}

	rules, err := writer.Rules(ctx)
	if err != nil {
		return err
	}

	rule.ID = newID()
	rule.LastGeneratedDate = nil
	if err := writer.PutRules(append(rules, rule)); err != nil {
		return err
	}

	c.Created = rule
	return nil
}
