package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/operator/actions"
	"github.com/carson-networks/budget-engine/internal/recurrence"
	"github.com/carson-networks/budget-engine/internal/storage"
)

var ErrInvalidWindow = errors.New("window end is before window start")

// RuleService manages recurrence rules and answers occurrence queries.
type RuleService struct {
	storage  *storage.Storage
	operator actionProcessor
}

func NewRuleService(store *storage.Storage, op actionProcessor) *RuleService {
	return &RuleService{storage: store, operator: op}
}

func (s *RuleService) CreateRule(ctx context.Context, rule ledger.RecurrenceRule) (ledger.RecurrenceRule, error) {
	action := &actions.CreateRule{Rule: rule}
	if err := s.operator.Process(ctx, action); err != nil {
		return ledger.RecurrenceRule{}, err
	}
	return action.Created, nil
}

func (s *RuleService) GetRule(ctx context.Context, id uuid.UUID) (ledger.RecurrenceRule, error) {
	return s.storage.Read().Rule(ctx, id)
}

func (s *RuleService) ListRules(ctx context.Context) ([]ledger.RecurrenceRule, error) {
	return s.storage.Read().Rules(ctx)
}

func (s *RuleService) UpdateRuleStatus(ctx context.Context, id uuid.UUID, status ledger.RuleStatus) (ledger.RecurrenceRule, error) {
	action := &actions.UpdateRuleStatus{ID: id, Status: status}
	if err := s.operator.Process(ctx, action); err != nil {
		return ledger.RecurrenceRule{}, err
	}
	return action.Updated, nil
}

// NextOccurrence reports the rule's next occurrence on or after reference.
func (s *RuleService) NextOccurrence(ctx context.Context, id uuid.UUID, reference time.Time) (time.Time, bool, error) {
	rule, err := s.GetRule(ctx, id)
	if err != nil {
		return time.Time{}, false, err
	}
	next, ok := recurrence.NextOccurrence(rule, reference)
	return next, ok, nil
}

// Occurrences enumerates the rule's occurrences within [from, to] without
// touching its stored cursor.
func (s *RuleService) Occurrences(ctx context.Context, id uuid.UUID, from, to time.Time) ([]time.Time, error) {
	if to.Before(from) {
		return nil, ErrInvalidWindow
	}
	rule, err := s.GetRule(ctx, id)
	if err != nil {
		return nil, err
	}
	return recurrence.OccurrencesInRange(rule, from, to), nil
}
