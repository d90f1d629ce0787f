// Package recurrence derives occurrence dates from recurrence rules.
//
// All arithmetic is done on calendar days in the location of the rule's base
// date. Functions here are pure: they never touch the rule they are given.
package recurrence

import (
	"time"

	"github.com/carson-networks/budget-engine/internal/ledger"
)

// NextOccurrence returns the first occurrence after the rule's cursor
// (lastGeneratedDate, else startDate) that is not earlier than reference.
// It returns false when the rule has ended or cannot step.
func NextOccurrence(rule ledger.RecurrenceRule, reference time.Time) (time.Time, bool) {
	if rule.Interval < 1 || !rule.Frequency.Valid() {
		return time.Time{}, false
	}

	base := rule.StartDate
	if rule.LastGeneratedDate != nil {
		base = *rule.LastGeneratedDate
	}
	base = ledger.StartOfDay(base)
	ref := ledger.StartOfDay(reference.In(base.Location()))

	var end time.Time
	if rule.EndDate != nil {
		end = ledger.StartOfDay(rule.EndDate.In(base.Location()))
		// Checked against the reference, not the candidate.
		if end.Before(ref) {
			return time.Time{}, false
		}
	}

	next := step(rule, base)
	for next.Before(ref) {
		next = step(rule, next)
	}

	if rule.Frequency == ledger.FrequencyWeekly && rule.DayOfWeek != nil {
		shift := (*rule.DayOfWeek - int(next.Weekday()) + 7) % 7
		next = next.AddDate(0, 0, shift)
	}

	if rule.EndDate != nil && next.After(end) {
		return time.Time{}, false
	}
	return next, true
}

// OccurrencesInRange enumerates occurrences between windowStart and windowEnd
// inclusive. The cursor is seeded at max(startDate, windowStart) and the seed
// itself is the first element. Identical inputs always give identical output.
//
// The seed is emitted even when it is not itself an occurrence, and stepping
// continues from it: a monthly rule on the 15th over Mar 1 to May 31 yields
// Mar 1, Apr 15 and May 15. Callers wanting only true occurrences should pass
// a window starting on one, or use NextOccurrence.
func OccurrencesInRange(rule ledger.RecurrenceRule, windowStart, windowEnd time.Time) []time.Time {
	if rule.Interval < 1 || !rule.Frequency.Valid() {
		return nil
	}

	loc := rule.StartDate.Location()
	cursor := ledger.StartOfDay(rule.StartDate)
	if from := ledger.StartOfDay(windowStart.In(loc)); from.After(cursor) {
		cursor = from
	}
	until := ledger.StartOfDay(windowEnd.In(loc))

	if rule.EndDate != nil && cursor.After(ledger.StartOfDay(rule.EndDate.In(loc))) {
		return nil
	}

	var occurrences []time.Time
	for !cursor.After(until) {
		occurrences = append(occurrences, cursor)

		local := rule
		last := cursor
		local.LastGeneratedDate = &last

		next, ok := NextOccurrence(local, cursor)
		if !ok {
			break
		}
		cursor = next
	}
	return occurrences
}

// step advances t by one interval of the rule's frequency.
func step(rule ledger.RecurrenceRule, t time.Time) time.Time {
	switch rule.Frequency {
	case ledger.FrequencyDaily:
		return t.AddDate(0, 0, rule.Interval)
	case ledger.FrequencyWeekly:
		return t.AddDate(0, 0, 7*rule.Interval)
	case ledger.FrequencyMonthly:
		if rule.DayOfMonth != nil {
			return ledger.ClampedDate(t.Year(), t.Month()+time.Month(rule.Interval), *rule.DayOfMonth, t.Location())
		}
		return t.AddDate(0, rule.Interval, 0)
	case ledger.FrequencyYearly:
		if rule.MonthOfYear != nil && rule.DayOfMonth != nil {
			return ledger.ClampedDate(t.Year()+rule.Interval, time.Month(*rule.MonthOfYear), *rule.DayOfMonth, t.Location())
		}
		return t.AddDate(rule.Interval, 0, 0)
	}
	return t
}
