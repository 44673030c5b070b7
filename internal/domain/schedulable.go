package domain

import (
	"time"
)

// Status is the lifecycle state of a schedulable entity. Transitions to
// canceled happen in the external CRUD system; completed is set here once
// the recurrence end criteria are met.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

type RepeatUnit string

const (
	RepeatUnitDay  RepeatUnit = "day"
	RepeatUnitWeek RepeatUnit = "week"
)

type RepeatEndType string

const (
	RepeatEndNever       RepeatEndType = "never"
	RepeatEndDate        RepeatEndType = "date"
	RepeatEndOccurrences RepeatEndType = "occurrences"
)

// Schedulable is a task or reminder with optional recurrence rules. The
// same shape backs farm activities and admin reminders; both schedulers
// evaluate it identically.
type Schedulable struct {
	ID          string
	Title       string
	Description string
	Status      Status

	// ScheduledDate is the absolute UTC instant of a one-shot item and the
	// anchor time-of-day for repeating ones. Zero means unset.
	ScheduledDate time.Time

	IsRepeating       bool
	RepeatInterval    int
	RepeatUnit        RepeatUnit
	RepeatStartDate   time.Time
	RepeatDaysOfWeek  []int // ISO indices, 0=Mon .. 6=Sun
	RepeatEndType     RepeatEndType
	RepeatEndDate     time.Time
	RepeatOccurrences int

	ShouldSendNotification bool

	// Message is the pre-resolved notification text. Empty means the engine
	// builds a default body at dispatch time.
	Message string

	// UpdatedAt invalidates same-day ledger entries older than the last
	// edit, so a rescheduled item can notify again.
	UpdatedAt time.Time
}

// ActivityWithRecipients is an activity together with its assigned
// recipients, modeled as an explicit join rather than back-references.
type ActivityWithRecipients struct {
	Schedulable
	Recipients []Recipient
}

// DayKey returns the UTC calendar-date key used for same-day ledger lookups.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// StartOfDay truncates t to UTC midnight.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
