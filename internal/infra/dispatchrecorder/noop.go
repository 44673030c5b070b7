package dispatchrecorder

import (
	"context"

	"github.com/igor325/AGROTASKv2/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.DispatchRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordBatch(_ context.Context, _ []domain.DispatchRecord) error {
	return nil
}

func (n *noopRecorder) Flush(_ context.Context) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
