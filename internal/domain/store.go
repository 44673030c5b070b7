package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=domain

// Store is the read/write surface this engine needs from the task
// database. CRUD and schema belong to the external system; the engine only
// lists candidates, appends ledger rows, and flips status to completed.
type Store interface {
	// ListPendingActivities returns pending, notification-enabled activities
	// with their assigned recipients.
	ListPendingActivities(ctx context.Context) ([]ActivityWithRecipients, error)

	// ListPendingActivitiesForRecipient returns every pending activity
	// assigned to the recipient, regardless of the notification gate. Shift
	// digests list all of a recipient's tasks for the day.
	ListPendingActivitiesForRecipient(ctx context.Context, recipientID string) ([]Schedulable, error)

	MarkActivityCompleted(ctx context.Context, id string) error

	ListActiveRecipients(ctx context.Context) ([]Recipient, error)
	ListAdminRecipients(ctx context.Context) ([]Recipient, error)

	ListShiftDefinitions(ctx context.Context) ([]ShiftDefinition, error)

	ListPendingReminders(ctx context.Context) ([]Schedulable, error)
	MarkReminderCompleted(ctx context.Context, id string) error

	// CountSameDayAttempts counts ledger rows for key executed within
	// [day 00:00, day+1 00:00) UTC. A non-zero notBefore additionally
	// requires executedAt >= notBefore, which is how a same-day edit
	// invalidates stale "already sent" rows.
	CountSameDayAttempts(ctx context.Context, key LedgerKey, day time.Time, notBefore time.Time) (int, error)

	// CountExecutions counts all ledger rows for the entity and kind, any
	// outcome, across all days. Feeds the occurrences end criterion.
	CountExecutions(ctx context.Context, entityID string, kind AlertKind) (int, error)

	// AppendExecution appends one ledger row. Returns ErrDuplicateAttempt
	// when the storage-level dedup constraint rejects the row.
	AppendExecution(ctx context.Context, entry *ExecutionLogEntry) error
}
