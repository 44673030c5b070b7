package recurrence

import (
	"context"
	"log/slog"
	"time"

	"github.com/igor325/AGROTASKv2/internal/domain"
)

// ExecutionCounter supplies how many dispatch attempts were ever logged for
// an entity. Rows of any outcome count, so repeated delivery failures can
// exhaust a limited-occurrence item; this matches the historical behavior
// and switching to success-only counting is a store-side change.
type ExecutionCounter interface {
	CountExecutions(ctx context.Context, entityID string, kind domain.AlertKind) (int, error)
}

// Evaluator decides whether a schedulable entity is due on a given
// calendar date and whether its recurrence is exhausted.
type Evaluator struct {
	counter ExecutionCounter
}

func NewEvaluator(counter ExecutionCounter) *Evaluator {
	return &Evaluator{counter: counter}
}

// IsDueToday reports whether the entity should fire on today's calendar
// date. One-shot items compare the raw UTC date of ScheduledDate, not the
// business-timezone date; items scheduled near local midnight land on the
// adjacent UTC day. The kind selects which ledger rows count toward an
// occurrence limit; an entity is only exhausted by its own alert kind.
func (e *Evaluator) IsDueToday(ctx context.Context, s *domain.Schedulable, today time.Time, kind domain.AlertKind) (bool, error) {
	if !s.IsRepeating {
		if s.ScheduledDate.IsZero() {
			return false, nil
		}
		return domain.DayKey(s.ScheduledDate) == domain.DayKey(today), nil
	}

	if s.RepeatStartDate.IsZero() {
		return false, nil
	}

	start := domain.StartOfDay(s.RepeatStartDate)
	day := domain.StartOfDay(today)

	if day.Before(start) {
		return false, nil
	}

	interval := s.RepeatInterval
	if interval < 1 {
		interval = 1
	}

	switch s.RepeatUnit {
	case domain.RepeatUnitDay:
		daysSinceStart := int(day.Sub(start).Hours() / 24)
		if daysSinceStart%interval != 0 {
			return false, nil
		}

	case domain.RepeatUnitWeek:
		if len(s.RepeatDaysOfWeek) == 0 {
			slog.WarnContext(ctx, "weekly entity has no repeat days configured",
				slog.String("entity_id", s.ID),
			)
			return false, nil
		}

		if !containsDay(s.RepeatDaysOfWeek, isoWeekday(day)) {
			return false, nil
		}

		// Week interval counts Monday-aligned week boundaries, not raw
		// day-count/7: a Friday start and the following Monday are one
		// week apart.
		weeks := int(mondayOf(day).Sub(mondayOf(start)).Hours() / 24 / 7)
		if weeks%interval != 0 {
			return false, nil
		}

	default:
		return false, nil
	}

	return e.passesEndCriteria(ctx, s, day, kind)
}

func (e *Evaluator) passesEndCriteria(ctx context.Context, s *domain.Schedulable, day time.Time, kind domain.AlertKind) (bool, error) {
	switch s.RepeatEndType {
	case domain.RepeatEndDate:
		if s.RepeatEndDate.IsZero() {
			return true, nil
		}
		// Inclusive end date: eligible through the whole final day.
		return !day.After(domain.StartOfDay(s.RepeatEndDate)), nil

	case domain.RepeatEndOccurrences:
		if s.RepeatOccurrences <= 0 {
			return true, nil
		}
		count, err := e.counter.CountExecutions(ctx, s.ID, kind)
		if err != nil {
			return false, err
		}
		return count < s.RepeatOccurrences, nil
	}

	return true, nil
}

// HasReachedEnd reports whether the entity is finished and should be marked
// completed. One-shot items always complete after their single cycle;
// delivery failures do not keep an entity alive.
func (e *Evaluator) HasReachedEnd(ctx context.Context, s *domain.Schedulable, today time.Time, kind domain.AlertKind) (bool, error) {
	if !s.IsRepeating {
		return true, nil
	}

	switch s.RepeatEndType {
	case domain.RepeatEndDate:
		if s.RepeatEndDate.IsZero() {
			return false, nil
		}
		return !domain.StartOfDay(today).Before(domain.StartOfDay(s.RepeatEndDate)), nil

	case domain.RepeatEndOccurrences:
		if s.RepeatOccurrences <= 0 {
			return false, nil
		}
		count, err := e.counter.CountExecutions(ctx, s.ID, kind)
		if err != nil {
			return false, err
		}
		return count >= s.RepeatOccurrences, nil
	}

	return false, nil
}

// isoWeekday maps a date to the ISO index used by RepeatDaysOfWeek,
// 0=Mon .. 6=Sun.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 6
	}
	return wd - 1
}

// mondayOf returns UTC midnight of the Monday of t's week.
func mondayOf(t time.Time) time.Time {
	return domain.StartOfDay(t).AddDate(0, 0, -isoWeekday(t))
}

func containsDay(days []int, day int) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
