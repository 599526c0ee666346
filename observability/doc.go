// Package observability wires OpenTelemetry tracing and metrics for
// speechkit. Exporters are OTLP over HTTP and are off unless enabled in
// config; spans and instruments are always safe to use since the global
// providers default to no-ops.
//
//	shutdown, err := observability.Setup(ctx, cfg.Observability, observability.ServiceInfo{
//	    Name: "speechkit", Version: version.GetShortVersion(),
//	})
//	defer shutdown(context.Background())
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanTranscribe)
//	defer span.End()
package observability
