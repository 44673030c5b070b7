// Package observability wires the OpenTelemetry SDK and the process
// logger. Exporters speak OTLP over HTTP; without a configured endpoint
// the providers stay no-op and only logging is active.
package observability

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/igor325/AGROTASKv2/internal/observability/logging"
)

type Config struct {
	ServiceInfo  logging.ServiceInfo
	Environment  logging.Environment
	SamplingRate float64
}

type Resources struct {
	logger         *slog.Logger
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

func Init(ctx context.Context, cfg Config) (*Resources, error) {
	res := &Resources{
		logger: slog.New(logging.NewHandler(cfg.ServiceInfo, cfg.Environment)),
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	// OTEL_EXPORTER_OTLP_ENDPOINT selects the collector; the exporters read
	// it themselves.
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		return res, nil
	}

	sdkResource, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceInfo.Name),
			semconv.ServiceVersion(cfg.ServiceInfo.Version),
			semconv.DeploymentEnvironmentName(string(cfg.Environment)),
		),
	)
	if err != nil {
		return nil, err
	}

	traceExporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}
	res.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(sdkResource),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplingRate))),
	)
	otel.SetTracerProvider(res.tracerProvider)

	metricExporter, err := otlpmetrichttp.New(ctx)
	if err != nil {
		return nil, err
	}
	res.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
			sdkmetric.WithInterval(30*time.Second),
		)),
		sdkmetric.WithResource(sdkResource),
	)
	otel.SetMeterProvider(res.meterProvider)

	return res, nil
}

func (r *Resources) Logger() *slog.Logger {
	return r.logger
}

func (r *Resources) Shutdown(ctx context.Context) error {
	var errs []error
	if r.tracerProvider != nil {
		if err := r.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if r.meterProvider != nil {
		if err := r.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
