package domain

import (
	"strconv"
	"time"
)

// AlertKind discriminates what a ledger entry was for. It is part of the
// idempotency key: "individual" for per-task alerts, the shift title for
// shift digests, and "admin_reminder" for admin broadcasts.
type AlertKind string

const (
	AlertKindIndividual    AlertKind = "individual"
	AlertKindAdminReminder AlertKind = "admin_reminder"
)

// ShiftAlertKind derives the alert kind for a named work shift.
func ShiftAlertKind(shiftTitle string) AlertKind {
	return AlertKind(shiftTitle)
}

func (k AlertKind) String() string {
	return string(k)
}

// LedgerKey identifies one (entity, recipient, kind) dispatch target.
// EntityID is empty for shift digests, which are not entity-scoped.
type LedgerKey struct {
	EntityID    string
	RecipientID string
	Kind        AlertKind
}

// ExecutionLogEntry is one appended record per dispatch attempt, success or
// failure. Entries are never updated or deleted by this subsystem.
type ExecutionLogEntry struct {
	ID           string
	EntityID     string
	RecipientID  string
	Kind         AlertKind
	ExecutedAt   time.Time
	Success      bool
	ErrorMessage string
	Metadata     map[string]any

	// DedupDay is the storage-level dedup generation: the UTC day key, with
	// the entity's last-edit timestamp appended for individual alerts so an
	// edited task may send again on the same day. See DedupDayKey.
	DedupDay string
}

func NewExecutionLogEntry(key LedgerKey, entityUpdatedAt time.Time, success bool, errMessage string) *ExecutionLogEntry {
	executedAt := time.Now().UTC()
	return &ExecutionLogEntry{
		EntityID:     key.EntityID,
		RecipientID:  key.RecipientID,
		Kind:         key.Kind,
		ExecutedAt:   executedAt,
		Success:      success,
		ErrorMessage: errMessage,
		DedupDay:     DedupDayKey(executedAt, key.Kind, entityUpdatedAt),
	}
}

// DedupDayKey builds the value backing the unique (entity, recipient, kind,
// dedup_day) storage constraint. One row per key per day, except that each
// edit of an individual task opens a fresh generation.
func DedupDayKey(executedAt time.Time, kind AlertKind, entityUpdatedAt time.Time) string {
	day := DayKey(executedAt)
	if kind == AlertKindIndividual && !entityUpdatedAt.IsZero() {
		return day + "@" + strconv.FormatInt(entityUpdatedAt.Unix(), 10)
	}
	return day
}

// DispatchRecord is the analytics projection of a dispatch attempt handed
// to the result recorder. It mirrors the ledger entry but is free to live
// in a separate store with its own retention.
type DispatchRecord struct {
	RunID       string
	Kind        string
	EntityID    string
	RecipientID string
	ExecutedAt  time.Time
	Success     bool
	Error       string
}
