// Package logging builds the process-wide slog handler: JSON output with
// trace and request id correlation attributes pulled from the context.
package logging

import (
	"context"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

type Environment string

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "prod"
)

// ServiceInfo identifies the running service in every log line.
type ServiceInfo struct {
	Name    string
	Version string
}

type Handler struct {
	inner   slog.Handler
	service ServiceInfo
}

// NewHandler builds the JSON handler. Dev lowers the level to debug.
func NewHandler(service ServiceInfo, env Environment) *Handler {
	level := slog.LevelInfo
	if env == EnvDev {
		level = slog.LevelDebug
	}

	inner := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}).WithAttrs([]slog.Attr{
		slog.String("service", service.Name),
		slog.String("version", service.Version),
		slog.String("env", string(env)),
	})

	return &Handler{inner: inner, service: service}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		record.AddAttrs(slog.String("request_id", requestID))
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}

	record.AddAttrs(gcpTraceAttrs(ctx, h.service.Name)...)

	return h.inner.Handle(ctx, record)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{inner: h.inner.WithAttrs(attrs), service: h.service}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name), service: h.service}
}
