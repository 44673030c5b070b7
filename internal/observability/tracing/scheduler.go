package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const schedulerTracerName = "github.com/igor325/AGROTASKv2/internal/service/engine"

func SchedulerTracer() trace.Tracer {
	return otel.Tracer(schedulerTracerName)
}

func StartSchedulerPassSpan(ctx context.Context, pass string, now time.Time) (context.Context, trace.Span) {
	return SchedulerTracer().Start(ctx, "scheduler."+pass,
		trace.WithAttributes(
			attribute.String("scheduler.now", now.Format(time.RFC3339)),
		),
	)
}

func StartShiftSpan(ctx context.Context, shiftTitle, shiftTime string) (context.Context, trace.Span) {
	return SchedulerTracer().Start(ctx, "scheduler.shift",
		trace.WithAttributes(
			attribute.String("shift.title", shiftTitle),
			attribute.String("shift.time", shiftTime),
		),
	)
}

func StartDispatchSpan(ctx context.Context, kind, entityID, recipientID string) (context.Context, trace.Span) {
	return SchedulerTracer().Start(ctx, "scheduler.dispatch",
		trace.WithAttributes(
			attribute.String("dispatch.kind", kind),
			attribute.String("dispatch.entity_id", entityID),
			attribute.String("dispatch.recipient_id", recipientID),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordPassResult(span trace.Span, entitiesProcessed, recipientsNotified, errorCount int, err error) {
	span.SetAttributes(
		attribute.Int("pass.entities_processed", entitiesProcessed),
		attribute.Int("pass.recipients_notified", recipientsNotified),
		attribute.Int("pass.error_count", errorCount),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

func RecordDispatchResult(span trace.Span, messageID string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetAttributes(attribute.String("dispatch.message_id", messageID))
	span.SetStatus(codes.Ok, "")
}
