package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/igor325/AGROTASKv2/internal/domain"
	"github.com/igor325/AGROTASKv2/internal/observability/tracing"
	"github.com/igor325/AGROTASKv2/internal/service/message"
	"github.com/igor325/AGROTASKv2/internal/service/timewindow"
)

// RunActivities executes one scheduler pass at the given instant: every
// configured work shift plus the individual task alerts, in parallel. A
// non-nil error means the pass could not start at all; per-entity failures
// are collected inside the result instead.
func (e *Engine) RunActivities(ctx context.Context, now time.Time) (*ActivityRunResult, error) {
	started := time.Now()
	runID := uuid.NewString()
	currentMinute := e.clock.MinuteOfDay(now)

	ctx, span := tracing.StartSchedulerPassSpan(ctx, "activities", now)
	defer span.End()

	slog.InfoContext(ctx, "activity scheduler pass starting",
		slog.String("run_id", runID),
		slog.Time("now", now),
		slog.String("business_time", timewindow.FormatHHMM(currentMinute)),
	)

	shifts, err := e.store.ListShiftDefinitions(ctx)
	if err != nil {
		tracing.RecordPassResult(span, 0, 0, 1, err)
		return nil, fmt.Errorf("listing shift definitions: %w", err)
	}

	rr := &runRecorder{}
	shiftResults := make([]AlertResult, len(shifts))
	var individual AlertResult

	var wg sync.WaitGroup
	for i, shift := range shifts {
		wg.Add(1)
		go func(i int, shift domain.ShiftDefinition) {
			defer wg.Done()
			shiftResults[i] = e.processShift(ctx, runID, rr, shift, currentMinute, now)
		}(i, shift)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		individual = e.processIndividualAlerts(ctx, runID, rr, currentMinute, now)
	}()
	wg.Wait()

	e.flushRecords(ctx, rr)

	result := &ActivityRunResult{
		Success:   true,
		Timestamp: now,
		Results: ActivityResults{
			Shifts:           make(map[string]AlertResult, len(shifts)),
			IndividualAlerts: individual,
		},
	}

	notified := individual.RecipientsNotified
	processed := individual.EntitiesProcessed
	errCount := len(individual.Errors)
	for i, shift := range shifts {
		result.Results.Shifts[shift.Title] = shiftResults[i]
		notified += shiftResults[i].RecipientsNotified
		processed += shiftResults[i].EntitiesProcessed
		errCount += len(shiftResults[i].Errors)
	}

	tracing.RecordPassResult(span, processed, notified, errCount, nil)
	if e.metrics != nil {
		e.metrics.RecordPassDuration(ctx, "activities", time.Since(started))
	}

	slog.InfoContext(ctx, "activity scheduler pass finished",
		slog.String("run_id", runID),
		slog.Int("shifts", len(shifts)),
		slog.Int("recipients_notified", notified),
		slog.Int("errors", errCount),
	)

	return result, nil
}

// processShift sends the digest for one work shift when the current minute
// is exactly AlertMinutesBefore ahead of the shift time. Recipients with no
// pending task today are skipped, and the digest lists every task due
// today regardless of the per-task notification gate.
func (e *Engine) processShift(
	ctx context.Context,
	runID string,
	rr *runRecorder,
	shift domain.ShiftDefinition,
	currentMinute int,
	now time.Time,
) (result AlertResult) {
	result = newAlertResult()
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic in shift pass",
				slog.String("shift", shift.Title),
				slog.Any("panic", r),
			)
			result.Errors = append(result.Errors, fmt.Sprintf("System error: %v", r))
		}
	}()

	ctx, span := tracing.StartShiftSpan(ctx, shift.Title, shift.Time)
	defer span.End()

	shiftMinute, err := timewindow.ParseHHMM(shift.Time)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", shift.Title, err))
		return result
	}
	alertMinute := shiftMinute - shift.AlertMinutesBefore

	if !timewindow.ExactMatch(currentMinute, alertMinute) {
		return result
	}

	if shift.Message == "" {
		slog.WarnContext(ctx, "shift has no message configured, skipping",
			slog.String("shift", shift.Title),
		)
		return result
	}

	result.Executed = true
	kind := domain.ShiftAlertKind(shift.Title)
	day := domain.StartOfDay(now)

	recipients, err := e.store.ListActiveRecipients(ctx)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("System error: %v", err))
		return result
	}

	slog.InfoContext(ctx, "shift alert time reached",
		slog.String("shift", shift.Title),
		slog.Int("recipients", len(recipients)),
	)

	for _, recipient := range recipients {
		key := domain.LedgerKey{RecipientID: recipient.ID, Kind: kind}

		if e.ledger.AlreadySent(ctx, key, day, time.Time{}) {
			if e.metrics != nil {
				e.metrics.RecordDispatchSkip(ctx, kind.String(), "already_sent")
			}
			continue
		}

		tasks, err := e.store.ListPendingActivitiesForRecipient(ctx, recipient.ID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", recipient.Name, err))
			continue
		}

		due := e.filterDueToday(ctx, tasks, now, &result.Errors, recipient.Name)
		if len(due) == 0 {
			continue
		}

		if recipient.Phone == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", recipient.Name, domain.ErrRecipientNoPhone))
			continue
		}

		taskIDs := make([]string, len(due))
		for i, task := range due {
			taskIDs[i] = task.ID
		}
		text := message.Render(shift.Message, recipient.Name, message.FormatTaskList(due))
		metadata := map[string]any{
			"shiftId":     shift.ID,
			"shiftTime":   shift.Time,
			"activityIds": taskIDs,
			"taskCount":   len(due),
		}

		_, sendErr := e.dispatchTo(ctx, key, time.Time{}, recipient, text, metadata)
		rr.add(domain.DispatchRecord{
			RunID:       runID,
			Kind:        kind.String(),
			RecipientID: recipient.ID,
			ExecutedAt:  time.Now().UTC(),
			Success:     sendErr == nil,
			Error:       errString(sendErr),
		})
		if sendErr != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", recipient.Name, sendErr))
			continue
		}

		result.RecipientsNotified++
		result.EntitiesProcessed += len(due)
		if e.metrics != nil {
			e.metrics.RecordRecipientNotified(ctx, kind.String())
		}
	}

	return result
}

// processIndividualAlerts sends per-task alerts for tasks scheduled exactly
// lookahead minutes from now.
func (e *Engine) processIndividualAlerts(
	ctx context.Context,
	runID string,
	rr *runRecorder,
	currentMinute int,
	now time.Time,
) (result AlertResult) {
	result = newAlertResult()
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic in individual alert pass", slog.Any("panic", r))
			result.Errors = append(result.Errors, fmt.Sprintf("System error: %v", r))
		}
	}()

	targetMinute := currentMinute + e.lookaheadMinutes
	day := domain.StartOfDay(now)

	activities, err := e.store.ListPendingActivities(ctx)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("System error: %v", err))
		return result
	}

	var atTarget []domain.ActivityWithRecipients
	for _, activity := range activities {
		if activity.ScheduledDate.IsZero() {
			continue
		}
		if timewindow.ExactMatch(e.clock.MinuteOfDay(activity.ScheduledDate), targetMinute) {
			atTarget = append(atTarget, activity)
		}
	}
	if len(atTarget) == 0 {
		return result
	}

	result.Executed = true
	slog.InfoContext(ctx, "individual alerts due",
		slog.String("target_time", timewindow.FormatHHMM(targetMinute)),
		slog.Int("activities", len(atTarget)),
	)

	for _, activity := range atTarget {
		due, err := e.evaluator.IsDueToday(ctx, &activity.Schedulable, now, domain.AlertKindIndividual)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", activity.Title, err))
			continue
		}
		if !due {
			continue
		}

		if len(activity.Recipients) == 0 {
			slog.WarnContext(ctx, "activity has no recipients",
				slog.String("activity_id", activity.ID),
				slog.String("title", activity.Title),
			)
			continue
		}

		timeOfDay := timewindow.FormatHHMM(e.clock.MinuteOfDay(activity.ScheduledDate))

		for _, recipient := range activity.Recipients {
			if !recipient.Active {
				continue
			}

			key := domain.LedgerKey{
				EntityID:    activity.ID,
				RecipientID: recipient.ID,
				Kind:        domain.AlertKindIndividual,
			}

			if e.ledger.AlreadySent(ctx, key, day, activity.UpdatedAt) {
				if e.metrics != nil {
					e.metrics.RecordDispatchSkip(ctx, key.Kind.String(), "already_sent")
				}
				continue
			}

			if recipient.Phone == "" {
				result.Errors = append(result.Errors,
					fmt.Sprintf("%s (%s): %v", recipient.Name, activity.Title, domain.ErrRecipientNoPhone))
				continue
			}

			text := activity.Message
			if text == "" {
				text = message.DefaultIndividual(activity.Title, timeOfDay)
			}
			text = message.Render(text, recipient.Name, "")

			_, sendErr := e.dispatchTo(ctx, key, activity.UpdatedAt, recipient, text, nil)
			rr.add(domain.DispatchRecord{
				RunID:       runID,
				Kind:        key.Kind.String(),
				EntityID:    activity.ID,
				RecipientID: recipient.ID,
				ExecutedAt:  time.Now().UTC(),
				Success:     sendErr == nil,
				Error:       errString(sendErr),
			})
			if sendErr != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("%s (%s): %v", recipient.Name, activity.Title, sendErr))
				continue
			}

			result.RecipientsNotified++
			if e.metrics != nil {
				e.metrics.RecordRecipientNotified(ctx, key.Kind.String())
			}
		}

		result.EntitiesProcessed++

		e.completeIfEnded(ctx, &activity.Schedulable, now, domain.AlertKindIndividual,
			e.store.MarkActivityCompleted, &result.Errors)
	}

	return result
}

// filterDueToday keeps the tasks whose recurrence rules fire today.
// Evaluation failures are reported but never abort the whole digest.
func (e *Engine) filterDueToday(
	ctx context.Context,
	tasks []domain.Schedulable,
	now time.Time,
	errs *[]string,
	recipientName string,
) []domain.Schedulable {
	due := make([]domain.Schedulable, 0, len(tasks))
	for i := range tasks {
		ok, err := e.evaluator.IsDueToday(ctx, &tasks[i], now, domain.AlertKindIndividual)
		if err != nil {
			*errs = append(*errs, fmt.Sprintf("%s (%s): %v", recipientName, tasks[i].Title, err))
			continue
		}
		if ok {
			due = append(due, tasks[i])
		}
	}
	return due
}

// completeIfEnded marks the entity completed once its recurrence end
// criteria are met. Completion is independent of delivery success; a task
// whose last occurrence failed to send still completes.
func (e *Engine) completeIfEnded(
	ctx context.Context,
	s *domain.Schedulable,
	now time.Time,
	kind domain.AlertKind,
	complete func(context.Context, string) error,
	errs *[]string,
) {
	reached, err := e.evaluator.HasReachedEnd(ctx, s, now, kind)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: %v", s.Title, err))
		return
	}
	if !reached {
		return
	}

	slog.InfoContext(ctx, "marking entity as completed",
		slog.String("entity_id", s.ID),
		slog.String("title", s.Title),
	)
	if err := complete(ctx, s.ID); err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: %v", s.Title, err))
		return
	}
	if e.metrics != nil {
		e.metrics.RecordEntityCompleted(ctx, kind.String())
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
