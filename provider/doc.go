// Package provider is the generic backend abstraction behind speechkit's
// transcription providers.
//
// A RequestResponse[I, O] provider takes one input and returns one output.
// Middleware[I, O] wraps a provider with cross-cutting behaviour and Chain
// composes several, first outermost:
//
//	wrapped := provider.Chain(
//	    provider.WithLogging[In, Out](log),
//	    provider.WithMetrics[In, Out](metrics, "transcribe"),
//	    provider.WithTracing[In, Out](observability.SpanTranscribe),
//	)(raw)
//
// Registry[T] maps backend names to factories that build providers from a
// settings map, and caches the built instances:
//
//	reg := provider.NewRegistry[transcription.Provider]()
//	reg.RegisterFactory("assemblyai", assemblyai.Factory())
//	p, err := reg.Resolve("assemblyai", settings)
package provider
