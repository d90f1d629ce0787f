package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/logging"
	"github.com/carson-networks/budget-engine/internal/operator/actions"
	"github.com/carson-networks/budget-engine/internal/recurrence"
	"github.com/carson-networks/budget-engine/internal/storage"
)

const DefaultRecurringCooldown = 8 * time.Hour

// settlementPoster is the part of SettlementService a recurring run needs.
type settlementPoster interface {
	PostDue(ctx context.Context, now time.Time) (PostResult, error)
}

// RecurringService materializes due occurrences of active recurrence rules.
type RecurringService struct {
	storage    *storage.Storage
	operator   actionProcessor
	settlement settlementPoster
	logger     *logrus.Logger
	cooldown   time.Duration
}

func NewRecurringService(
	store *storage.Storage,
	op actionProcessor,
	poster settlementPoster,
	logger *logrus.Logger,
	cooldown time.Duration,
) *RecurringService {
	if cooldown <= 0 {
		cooldown = DefaultRecurringCooldown
	}
	return &RecurringService{
		storage:    store,
		operator:   op,
		settlement: poster,
		logger:     logger,
		cooldown:   cooldown,
	}
}

// Run materializes at most one occurrence per active rule: the next one on or
// after now, when it falls on now's calendar day. Periods missed while the
// service was down are not caught up. Per-rule failures are logged and counted
// without stopping the batch; only failing to read the rules aborts the run.
func (s *RecurringService) Run(ctx context.Context, now time.Time) (RunResult, error) {
	rules, err := s.storage.Read().Rules(ctx)
	if err != nil {
		return RunResult{}, err
	}

	result := RunResult{}
	for _, rule := range rules {
		if rule.Status != ledger.RuleStatusActive {
			continue
		}
		result.Processed++

		next, ok := recurrence.NextOccurrence(rule, now)
		if !ok {
			continue
		}
		if ledger.StartOfDay(next).After(ledger.StartOfDay(now.In(next.Location()))) {
			continue
		}

		stopTimer := func() {}
		if logData := logging.GetLogData(ctx); logData != nil {
			stopTimer = logData.AddToExistingTiming("materializeMs")
		}
		action := &actions.MaterializeOccurrence{RuleID: rule.ID, Occurrence: next, Now: now}
		err := s.operator.Process(ctx, action)
		stopTimer()
		if err != nil {
			result.Errors++
			s.logger.WithError(err).WithFields(logrus.Fields{
				"ruleID":     rule.ID.String(),
				"occurrence": next.Format(time.DateOnly),
			}).Error("Recurring.Run.RuleError")
			continue
		}
		result.Created++
	}

	if s.settlement != nil {
		posted, err := s.settlement.PostDue(ctx, now)
		if err != nil {
			result.Errors++
			s.logger.WithError(err).Error("Recurring.Run.PostSettlementsError")
		} else if posted.Posted > 0 {
			s.logger.WithFields(logrus.Fields{
				"posted":  posted.Posted,
				"created": posted.Created,
			}).Info("Recurring.Run.SettlementsPosted")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"processed": result.Processed,
		"created":   result.Created,
		"errors":    result.Errors,
	}).Info("Recurring.Run.Complete")
	return result, nil
}

// StartupCheck runs the processor unless a run was recorded within the
// cooldown window. The window is claimed before running, so concurrent checks
// run at most once. It reports whether a run happened.
func (s *RecurringService) StartupCheck(ctx context.Context, now time.Time) (RunResult, bool, error) {
	claim := &actions.ClaimCooldown{At: now, Window: s.cooldown}
	if err := s.operator.Process(ctx, claim); err != nil {
		return RunResult{}, false, err
	}
	if !claim.Claimed {
		s.logger.WithField("lastRunAt", claim.Previous.LastRunAt).Info("Recurring.StartupCheck.Skipped")
		return RunResult{}, false, nil
	}

	result, err := s.Run(ctx, now)
	if err != nil {
		if releaseErr := s.operator.Process(ctx, &actions.ReleaseCooldown{Previous: claim.Previous}); releaseErr != nil {
			s.logger.WithError(releaseErr).Error("Recurring.StartupCheck.ReleaseError")
		}
		return result, false, err
	}
	return result, true, nil
}
