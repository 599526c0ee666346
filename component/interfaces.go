package component

import (
	"context"

	"github.com/kbukum/speechkit/observability"
)

// Component represents a lifecycle-managed part of an application, such as
// the HTTP server or the telemetry exporters.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start initializes and starts the component.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the component and releases resources.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) observability.Health
}

// Description holds summary information logged at startup.
type Description struct {
	// Name is the human-readable display name. If empty, Name() is used.
	Name string
	// Type categorizes the component: "server", "telemetry", "provider".
	Type string
	// Details is a one-line configuration summary, e.g. "0.0.0.0:8080".
	Details string
}

// Describable is optionally implemented by Components to self-report
// what they are and how they are configured.
type Describable interface {
	Describe() Description
}
