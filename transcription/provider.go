package transcription

import (
	"context"

	"github.com/kbukum/speechkit/provider"
)

// Provider is the interface that transcription backends must implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Transcribe runs one transcription to completion and returns the result.
	// Cancelling ctx abandons the job.
	Transcribe(ctx context.Context, req Request) (*Response, error)
}

// Executor is a transcription provider seen through the generic provider
// middleware interface.
type Executor = provider.RequestResponse[Request, *Response]

// Middleware wraps an Executor.
type Middleware = provider.Middleware[Request, *Response]

// AsExecutor exposes p as an Executor.
func AsExecutor(p Provider) Executor {
	if e, ok := p.(Executor); ok {
		return e
	}
	return executor{p}
}

type executor struct{ Provider }

func (e executor) Execute(ctx context.Context, req Request) (*Response, error) {
	return e.Transcribe(ctx, req)
}

// Instrument wraps p with the middlewares, first outermost, and returns
// it as a Provider again.
func Instrument(p Provider, middlewares ...Middleware) Provider {
	if len(middlewares) == 0 {
		return p
	}
	return &instrumented{
		Executor: provider.Chain(middlewares...)(AsExecutor(p)),
		inner:    p,
	}
}

type instrumented struct {
	Executor
	inner Provider
}

func (i *instrumented) Transcribe(ctx context.Context, req Request) (*Response, error) {
	return i.Execute(ctx, req)
}

// Close releases the wrapped provider's resources, if it holds any.
func (i *instrumented) Close(ctx context.Context) error {
	if c, ok := i.inner.(provider.Closeable); ok {
		return c.Close(ctx)
	}
	return nil
}
