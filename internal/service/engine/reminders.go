package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/igor325/AGROTASKv2/internal/domain"
	"github.com/igor325/AGROTASKv2/internal/observability/tracing"
	"github.com/igor325/AGROTASKv2/internal/service/message"
	"github.com/igor325/AGROTASKv2/internal/service/timewindow"
)

// RunReminders executes one admin reminder pass at the given instant.
// Every reminder due today whose time-of-day falls inside the invocation
// window is broadcast to all admin accounts. A non-nil error means the
// pass could not start.
func (e *Engine) RunReminders(ctx context.Context, now time.Time) (*ReminderRunResult, error) {
	started := time.Now()
	runID := uuid.NewString()
	currentMinute := e.clock.MinuteOfDay(now)
	day := domain.StartOfDay(now)

	ctx, span := tracing.StartSchedulerPassSpan(ctx, "reminders", now)
	defer span.End()

	slog.InfoContext(ctx, "reminder scheduler pass starting",
		slog.String("run_id", runID),
		slog.Time("now", now),
		slog.String("business_time", timewindow.FormatHHMM(currentMinute)),
	)

	result := &ReminderRunResult{
		Success:   true,
		Timestamp: now,
		Results:   ReminderResults{Errors: []string{}},
	}

	reminders, err := e.store.ListPendingReminders(ctx)
	if err != nil {
		tracing.RecordPassResult(span, 0, 0, 1, err)
		return nil, fmt.Errorf("listing reminders: %w", err)
	}

	var inWindow []domain.Schedulable
	for i := range reminders {
		reminder := &reminders[i]
		if reminder.ScheduledDate.IsZero() {
			continue
		}
		due, err := e.evaluator.IsDueToday(ctx, reminder, now, domain.AlertKindAdminReminder)
		if err != nil {
			result.Results.Errors = append(result.Results.Errors,
				fmt.Sprintf("%s: %v", reminder.Title, err))
			continue
		}
		if !due {
			continue
		}
		if timewindow.InWindow(e.clock.MinuteOfDay(reminder.ScheduledDate), currentMinute, e.windowMinutes) {
			inWindow = append(inWindow, *reminder)
		}
	}

	if len(inWindow) == 0 {
		tracing.RecordPassResult(span, 0, 0, len(result.Results.Errors), nil)
		return result, nil
	}

	admins, err := e.store.ListAdminRecipients(ctx)
	if err != nil {
		tracing.RecordPassResult(span, 0, 0, 1, err)
		return nil, fmt.Errorf("listing admin accounts: %w", err)
	}
	if len(admins) == 0 {
		slog.WarnContext(ctx, "no admin accounts found")
		tracing.RecordPassResult(span, 0, 0, len(result.Results.Errors), nil)
		return result, nil
	}

	rr := &runRecorder{}

	for i := range inWindow {
		reminder := &inWindow[i]
		timeOfDay := timewindow.FormatHHMM(e.clock.MinuteOfDay(reminder.ScheduledDate))

		slog.InfoContext(ctx, "processing reminder",
			slog.String("reminder_id", reminder.ID),
			slog.String("title", reminder.Title),
			slog.String("time", timeOfDay),
		)

		for _, admin := range admins {
			key := domain.LedgerKey{
				EntityID:    reminder.ID,
				RecipientID: admin.ID,
				Kind:        domain.AlertKindAdminReminder,
			}

			if e.ledger.AlreadySent(ctx, key, day, time.Time{}) {
				if e.metrics != nil {
					e.metrics.RecordDispatchSkip(ctx, key.Kind.String(), "already_sent")
				}
				continue
			}

			if admin.Phone == "" {
				result.Results.Errors = append(result.Results.Errors,
					fmt.Sprintf("%s: %v", admin.Name, domain.ErrRecipientNoPhone))
				continue
			}

			text := reminder.Message
			if text == "" {
				text = message.DefaultReminder(reminder.Title, reminder.Description, timeOfDay)
			}
			text = message.Render(text, admin.Name, "")

			_, sendErr := e.dispatchTo(ctx, key, time.Time{}, admin, text, nil)
			rr.add(domain.DispatchRecord{
				RunID:       runID,
				Kind:        key.Kind.String(),
				EntityID:    reminder.ID,
				RecipientID: admin.ID,
				ExecutedAt:  time.Now().UTC(),
				Success:     sendErr == nil,
				Error:       errString(sendErr),
			})
			if sendErr != nil {
				result.Results.Errors = append(result.Results.Errors,
					fmt.Sprintf("%s: %v", admin.Name, sendErr))
				continue
			}

			result.Results.AdminsNotified++
			if e.metrics != nil {
				e.metrics.RecordRecipientNotified(ctx, key.Kind.String())
			}
		}

		result.Results.RemindersProcessed++

		e.completeIfEnded(ctx, reminder, now, domain.AlertKindAdminReminder,
			e.store.MarkReminderCompleted, &result.Results.Errors)
	}

	e.flushRecords(ctx, rr)

	tracing.RecordPassResult(span,
		result.Results.RemindersProcessed,
		result.Results.AdminsNotified,
		len(result.Results.Errors),
		nil,
	)
	if e.metrics != nil {
		e.metrics.RecordPassDuration(ctx, "reminders", time.Since(started))
	}

	slog.InfoContext(ctx, "reminder scheduler pass finished",
		slog.String("run_id", runID),
		slog.Int("reminders_processed", result.Results.RemindersProcessed),
		slog.Int("admins_notified", result.Results.AdminsNotified),
		slog.Int("errors", len(result.Results.Errors)),
	)

	return result, nil
}
