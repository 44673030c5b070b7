package domain

import "context"

// DispatchRecorder receives dispatch outcomes for analytics. Recording is
// best effort and never blocks or fails a scheduler run.
type DispatchRecorder interface {
	RecordBatch(ctx context.Context, records []DispatchRecord) error
	Flush(ctx context.Context) error
	Close() error
}
