package provider

import (
	"context"
	"time"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
)

// WithLogging returns a Middleware that logs each Execute call with the
// provider name, duration and outcome.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &loggingRR[I, O]{inner: inner, log: log}
	}
}

type loggingRR[I, O any] struct {
	inner RequestResponse[I, O]
	log   *logger.Logger
}

func (l *loggingRR[I, O]) Name() string                         { return l.inner.Name() }
func (l *loggingRR[I, O]) IsAvailable(ctx context.Context) bool { return l.inner.IsAvailable(ctx) }

func (l *loggingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	output, err := l.inner.Execute(ctx, input)

	fields := map[string]interface{}{
		logger.FieldProvider: l.inner.Name(),
		logger.FieldDuration: time.Since(start).Milliseconds(),
	}
	log := l.log.WithContext(ctx)

	switch {
	case err == nil:
		log.Debug("provider execute ok", fields)
	case errors.HasCode(err, errors.ErrCodeCanceled):
		log.Info("provider execute canceled", fields)
	default:
		fields[logger.FieldError] = err.Error()
		fields["code"] = string(errors.Wrap(err).Code)
		log.Error("provider execute failed", fields)
	}

	return output, err
}
