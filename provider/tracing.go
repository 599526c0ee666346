package provider

import (
	"context"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/observability"
)

// WithTracing returns a Middleware that wraps each Execute call in a span
// named spanName, tagged with the provider name and, on failure, the
// error code.
func WithTracing[I, O any](spanName string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &tracingRR[I, O]{inner: inner, spanName: spanName}
	}
}

type tracingRR[I, O any] struct {
	inner    RequestResponse[I, O]
	spanName string
}

func (t *tracingRR[I, O]) Name() string                         { return t.inner.Name() }
func (t *tracingRR[I, O]) IsAvailable(ctx context.Context) bool { return t.inner.IsAvailable(ctx) }

func (t *tracingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	ctx, span := observability.StartSpan(ctx, t.spanName)
	defer span.End()

	observability.SetSpanAttribute(ctx, observability.AttrProvider, t.inner.Name())

	output, err := t.inner.Execute(ctx, input)
	if err != nil {
		observability.SetSpanAttribute(ctx, observability.AttrErrorCode, string(errors.Wrap(err).Code))
		observability.SetSpanError(ctx, err)
	}

	return output, err
}
