package provider

import "context"

// Provider is the base interface all providers must implement.
type Provider interface {
	// Name returns the provider's unique name.
	Name() string
	// IsAvailable reports whether the provider is ready to handle requests.
	// It must not perform network I/O.
	IsAvailable(ctx context.Context) bool
}

// RequestResponse is a provider that takes one input and returns one output.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Factory creates a provider instance from a settings map.
type Factory[T Provider] func(cfg map[string]any) (T, error)
