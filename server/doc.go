// Package server provides the speechkit HTTP surface: a Gin engine behind
// h2c with plugin invocation, health, info and Prometheus metrics routes.
//
// # Middleware
//
// Applied at the root handler (server/middleware):
//
//   - Recovery: panic recovery rendered as an INTERNAL_ERROR body
//   - RequestID: X-Request-Id generation and context propagation
//   - BodySizeLimit: request body size limits
//   - RequestLogger: request logging with duration tracking
//
// Request counts and latencies are recorded per route template.
//
// # Endpoints
//
//   - GET /health: provider and component availability
//   - GET /info: version and build information
//   - GET /metrics: Prometheus exposition
//   - GET /v1/plugins, GET /v1/plugins/:plugin: plugin descriptors
//   - POST /v1/plugins/:plugin/functions/:function: invoke a function with
//     {"arguments": {...}}, answered with {"result": "..."}
package server
