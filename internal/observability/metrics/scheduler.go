package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	schedulerMeterName = "scheduler.engine"
)

type SchedulerMetrics struct {
	dispatchAttempts   metric.Int64Counter
	dispatchSkips      metric.Int64Counter
	entitiesCompleted  metric.Int64Counter
	passDuration       metric.Float64Histogram
	recipientsNotified metric.Int64Counter
}

func NewSchedulerMetrics() (*SchedulerMetrics, error) {
	meter := otel.Meter(schedulerMeterName)

	dispatchAttempts, err := meter.Int64Counter(
		"scheduler_dispatch_attempts_total",
		metric.WithDescription("Total number of message dispatch attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	dispatchSkips, err := meter.Int64Counter(
		"scheduler_dispatch_skips_total",
		metric.WithDescription("Dispatches skipped by the same-day ledger"),
		metric.WithUnit("{skip}"),
	)
	if err != nil {
		return nil, err
	}

	entitiesCompleted, err := meter.Int64Counter(
		"scheduler_entities_completed_total",
		metric.WithDescription("Entities marked completed after reaching their end criteria"),
		metric.WithUnit("{entity}"),
	)
	if err != nil {
		return nil, err
	}

	passDuration, err := meter.Float64Histogram(
		"scheduler_pass_duration_seconds",
		metric.WithDescription("Scheduler pass duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
		),
	)
	if err != nil {
		return nil, err
	}

	recipientsNotified, err := meter.Int64Counter(
		"scheduler_recipients_notified_total",
		metric.WithDescription("Recipients that received a message"),
		metric.WithUnit("{recipient}"),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerMetrics{
		dispatchAttempts:   dispatchAttempts,
		dispatchSkips:      dispatchSkips,
		entitiesCompleted:  entitiesCompleted,
		passDuration:       passDuration,
		recipientsNotified: recipientsNotified,
	}, nil
}

func (m *SchedulerMetrics) RecordDispatchAttempt(ctx context.Context, kind, outcome string) {
	m.dispatchAttempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	))
}

func (m *SchedulerMetrics) RecordDispatchSkip(ctx context.Context, kind, reason string) {
	m.dispatchSkips.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("reason", reason),
	))
}

func (m *SchedulerMetrics) RecordEntityCompleted(ctx context.Context, kind string) {
	m.entitiesCompleted.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
	))
}

func (m *SchedulerMetrics) RecordPassDuration(ctx context.Context, pass string, duration time.Duration) {
	m.passDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("pass", pass),
	))
}

func (m *SchedulerMetrics) RecordRecipientNotified(ctx context.Context, kind string) {
	m.recipientsNotified.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
	))
}
