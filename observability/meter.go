package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/speechkit/logger"
)

// InitMeter installs a global meter provider exporting over OTLP HTTP.
// The returned provider must be shut down on exit.
func InitMeter(ctx context.Context, cfg MeterConfig, svc ServiceInfo) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(svc)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))

	return mp, nil
}

// Meter returns the speechkit meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the instruments recorded around provider operations.
type Metrics struct {
	operationTotal    metric.Int64Counter
	operationDuration metric.Float64Histogram
	operationActive   metric.Int64UpDownCounter
	errorTotal        metric.Int64Counter
	pollTotal         metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	operationTotal, err := meter.Int64Counter("speechkit.operation.total",
		metric.WithDescription("Total number of provider operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating operation.total counter: %w", err)
	}

	operationDuration, err := meter.Float64Histogram("speechkit.operation.duration",
		metric.WithDescription("Duration of provider operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating operation.duration histogram: %w", err)
	}

	operationActive, err := meter.Int64UpDownCounter("speechkit.operation.active",
		metric.WithDescription("Number of in-flight provider operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating operation.active counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("speechkit.error.total",
		metric.WithDescription("Total errors by code and provider"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating error.total counter: %w", err)
	}

	pollTotal, err := meter.Int64Counter("speechkit.poll.total",
		metric.WithDescription("Transcript status checks by observed status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating poll.total counter: %w", err)
	}

	return &Metrics{
		operationTotal:    operationTotal,
		operationDuration: operationDuration,
		operationActive:   operationActive,
		errorTotal:        errorTotal,
		pollTotal:         pollTotal,
	}, nil
}

// MustMetrics is NewMetrics on the global meter, falling back to a no-op
// instrument set if creation fails.
func MustMetrics() *Metrics {
	m, err := NewMetrics(Meter())
	if err != nil {
		logger.Warn("metrics disabled", logger.ErrorFields("create instruments", err))
		m, _ = NewMetrics(noop.NewMeterProvider().Meter(instrumentationName))
	}
	return m
}

// OperationStarted increments the in-flight gauge.
func (m *Metrics) OperationStarted(ctx context.Context, provider, operation string) {
	m.operationActive.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("operation", operation),
	))
}

// OperationFinished records a completed operation and its outcome.
func (m *Metrics) OperationFinished(ctx context.Context, provider, operation, status string, duration time.Duration) {
	base := []attribute.KeyValue{
		attribute.String("provider", provider),
		attribute.String("operation", operation),
	}
	m.operationActive.Add(ctx, -1, metric.WithAttributes(base...))
	m.operationTotal.Add(ctx, 1, metric.WithAttributes(append(base, attribute.String("status", status))...))
	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(base...))
}

// RecordError counts an error by code.
func (m *Metrics) RecordError(ctx context.Context, provider, code string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("code", code),
	))
}

// RecordPoll counts one status check.
func (m *Metrics) RecordPoll(ctx context.Context, provider, status string) {
	m.pollTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("status", status),
	))
}
