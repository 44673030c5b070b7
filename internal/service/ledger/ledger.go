// Package ledger answers "was this alert already sent today?" and records
// dispatch attempts, backing same-day idempotency with the SQL execution
// log and an optional Redis fast path.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/igor325/AGROTASKv2/internal/domain"
)

// AttemptStore is the slice of the store the ledger needs.
type AttemptStore interface {
	CountSameDayAttempts(ctx context.Context, key domain.LedgerKey, day time.Time, notBefore time.Time) (int, error)
	AppendExecution(ctx context.Context, entry *domain.ExecutionLogEntry) error
}

// Ledger coordinates the execution log and the sent index. The index is
// optional; with a nil index every check goes straight to the store.
type Ledger struct {
	store AttemptStore
	index domain.SentIndex
}

func New(store AttemptStore, index domain.SentIndex) *Ledger {
	return &Ledger{store: store, index: index}
}

// AlreadySent reports whether a successful or failed attempt for key was
// already recorded on day. For individual alerts a non-zero entityUpdatedAt
// discards older same-day rows, so an edited task becomes eligible again.
// Read failures are logged and treated as "not sent": a duplicate message
// is preferable to a silently dropped one.
func (l *Ledger) AlreadySent(ctx context.Context, key domain.LedgerKey, day time.Time, entityUpdatedAt time.Time) bool {
	notBefore := time.Time{}
	if key.Kind == domain.AlertKindIndividual {
		notBefore = entityUpdatedAt
	}

	// The index cannot honor edit invalidation, so it only serves keys
	// without one.
	if l.index != nil && notBefore.IsZero() {
		sent, err := l.index.WasSent(ctx, key, day)
		if err != nil {
			slog.WarnContext(ctx, "sent index read failed, falling back to ledger",
				slog.String("recipient_id", key.RecipientID),
				slog.String("kind", key.Kind.String()),
				slog.String("error", err.Error()),
			)
		} else if sent {
			return true
		}
	}

	count, err := l.store.CountSameDayAttempts(ctx, key, day, notBefore)
	if err != nil {
		slog.WarnContext(ctx, "ledger read failed, assuming not sent",
			slog.String("entity_id", key.EntityID),
			slog.String("recipient_id", key.RecipientID),
			slog.String("kind", key.Kind.String()),
			slog.String("error", err.Error()),
		)
		return false
	}
	return count > 0
}

// RecordAttempt appends a ledger row for the attempt and, on success,
// marks the sent index. The entity's last-edit timestamp scopes the dedup
// generation for individual alerts. ErrDuplicateAttempt from the store is
// passed through so callers can treat a lost dedup race as a skip.
func (l *Ledger) RecordAttempt(ctx context.Context, key domain.LedgerKey, entityUpdatedAt time.Time, success bool, errMessage string, metadata map[string]any) error {
	entry := domain.NewExecutionLogEntry(key, entityUpdatedAt, success, errMessage)
	entry.ID = uuid.NewString()
	entry.Metadata = metadata

	if err := l.store.AppendExecution(ctx, entry); err != nil {
		if errors.Is(err, domain.ErrDuplicateAttempt) {
			return err
		}
		slog.ErrorContext(ctx, "failed to append execution log",
			slog.String("entity_id", key.EntityID),
			slog.String("recipient_id", key.RecipientID),
			slog.String("kind", key.Kind.String()),
			slog.String("error", err.Error()),
		)
		return err
	}

	if success && l.index != nil {
		if _, err := l.index.MarkSent(ctx, key, entry.ExecutedAt); err != nil {
			slog.WarnContext(ctx, "failed to mark sent index",
				slog.String("recipient_id", key.RecipientID),
				slog.String("kind", key.Kind.String()),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}
