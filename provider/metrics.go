package provider

import (
	"context"
	"time"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/observability"
)

// WithMetrics returns a Middleware that records operation count, duration,
// in-flight gauge and errors by code.
func WithMetrics[I, O any](metrics *observability.Metrics, operation string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &metricsRR[I, O]{inner: inner, metrics: metrics, operation: operation}
	}
}

type metricsRR[I, O any] struct {
	inner     RequestResponse[I, O]
	metrics   *observability.Metrics
	operation string
}

func (m *metricsRR[I, O]) Name() string                         { return m.inner.Name() }
func (m *metricsRR[I, O]) IsAvailable(ctx context.Context) bool { return m.inner.IsAvailable(ctx) }

func (m *metricsRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	name := m.inner.Name()
	m.metrics.OperationStarted(ctx, name, m.operation)
	start := time.Now()
	output, err := m.inner.Execute(ctx, input)

	status := "ok"
	if err != nil {
		status = "error"
		m.metrics.RecordError(ctx, name, string(errors.Wrap(err).Code))
	}
	m.metrics.OperationFinished(ctx, name, m.operation, status, time.Since(start))

	return output, err
}
