package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=sent_index.go -destination=sent_index_mock.go -package=domain

// SentIndex is a fast same-day sent marker kept in front of the SQL ledger.
// It is an optimization only: a miss always falls through to the ledger,
// and index errors are never fatal.
type SentIndex interface {
	// MarkSent records the key as sent for the day. First reports whether
	// this call was the one that created the marker.
	MarkSent(ctx context.Context, key LedgerKey, day time.Time) (first bool, err error)

	WasSent(ctx context.Context, key LedgerKey, day time.Time) (bool, error)
}
