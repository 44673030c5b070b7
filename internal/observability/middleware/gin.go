// Package middleware carries the gin request instrumentation: trace
// extraction, request id propagation, request logging, metrics, and
// panic recovery.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/igor325/AGROTASKv2/internal/observability/logging"
	"github.com/igor325/AGROTASKv2/internal/observability/metrics"
)

type GinConfig struct {
	SkipPaths   []string
	TracerName  string
	HTTPMetrics *metrics.HTTPMetrics
}

// Gin returns the request middleware. Each request gets a server span,
// a validated request id in its context, a structured access log line,
// and an HTTP metrics sample.
func Gin(cfg GinConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	tracer := otel.Tracer(cfg.TracerName)
	propagator := otel.GetTextMapPropagator()

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()

		ctx := propagator.Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))

		requestID := logging.ValidateAndExtractRequestID(c.GetHeader("x-request-id"))
		ctx = logging.WithRequestID(ctx, requestID)
		c.Header("x-request-id", requestID)

		ctx, span := tracer.Start(ctx, c.Request.Method+" "+c.FullPath(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", c.Request.Method),
				attribute.String("url.path", c.Request.URL.Path),
				attribute.String("request.id", requestID),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		duration := time.Since(start)

		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		} else {
			span.SetStatus(codes.Ok, "")
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		cfg.HTTPMetrics.RecordRequest(ctx, c.Request.Method, route, status, duration.Seconds())

		logLevel := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			logLevel = slog.LevelError
		}
		slog.LogAttrs(ctx, logLevel, "request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("duration", duration),
		)
	}
}

// PanicRecoveryGin converts handler panics into 500 responses.
func PanicRecoveryGin() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(c.Request.Context(), "panic recovered in HTTP handler",
					slog.Any("panic", r),
					slog.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "internal server error",
				})
			}
		}()
		c.Next()
	}
}
