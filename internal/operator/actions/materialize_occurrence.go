package actions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/settlement"
	"github.com/carson-networks/budget-engine/internal/storage"
)

// ErrRuleInactive is returned when a rule stopped being active between the
// processor's read and the write.
var ErrRuleInactive = errors.New("rule is not active")

// MaterializeOccurrence turns one occurrence of a rule into a transaction and
// advances the rule's generation cursor in the same write.
type MaterializeOccurrence struct {
	RuleID     uuid.UUID
	Occurrence time.Time
	Now        time.Time

	Created ledger.Transaction
	IAction
}

func (m *MaterializeOccurrence) Perform(ctx context.Context, writer *storage.Writer) error {
	rules, err := writer.Rules(ctx)
	if err != nil {
		return err
	}

	idx := -1
	for i := range rules {
		if rules[i].ID == m.RuleID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("rule %s: %w", m.RuleID, storage.ErrNotFound)
	}
	rule := rules[idx]
	if rule.Status != ledger.RuleStatusActive {
		return fmt.Errorf("rule %s: %w", m.RuleID, ErrRuleInactive)
	}
	if rule.LastGeneratedDate != nil && !ledger.StartOfDay(m.Occurrence).After(ledger.StartOfDay(*rule.LastGeneratedDate)) {
		return fmt.Errorf("rule %s: occurrence %s already materialized", m.RuleID, m.Occurrence.Format(time.DateOnly))
	}

	instrument, err := lookupInstrument(ctx, writer, rule.InstrumentID)
	if err != nil {
		return err
	}

	tx := rule.NewTransaction(newID(), m.Occurrence, m.Now)
	settlement.Attach(&tx, instrument)

	txs, err := writer.Transactions(ctx)
	if err != nil {
		return err
	}
	if err := writer.PutTransactions(ctx, append(txs, tx)); err != nil {
		return err
	}

	occurrence := m.Occurrence
	rules[idx].LastGeneratedDate = &occurrence
	if err := writer.PutRules(rules); err != nil {
		return err
	}

	if _, err := recomputeBalances(ctx, writer); err != nil {
		return err
	}

	m.Created = tx
	return nil
}
