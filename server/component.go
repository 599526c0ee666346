package server

import (
	"context"
	"fmt"

	"github.com/kbukum/speechkit/component"
	"github.com/kbukum/speechkit/observability"
)

const componentName = "http-server"

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component adapts a Server to the component lifecycle.
type Component struct {
	server *Server
}

// NewComponent returns a component backed by s.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

// Name returns the component name used for registration.
func (sc *Component) Name() string { return componentName }

// Start starts the underlying HTTP server.
func (sc *Component) Start(ctx context.Context) error {
	return sc.server.Start(ctx)
}

// Stop gracefully shuts down the underlying HTTP server.
func (sc *Component) Stop(ctx context.Context) error {
	return sc.server.Stop(ctx)
}

// Health reports up while the server is serving.
func (sc *Component) Health(_ context.Context) observability.Health {
	if sc.server.Running() {
		return observability.Health{Name: componentName, Status: observability.HealthStatusUp}
	}
	return observability.Health{
		Name:    componentName,
		Status:  observability.HealthStatusDown,
		Message: "HTTP server not running",
	}
}

// Describe returns the summary logged at startup.
func (sc *Component) Describe() component.Description {
	cfg := sc.server.config
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: fmt.Sprintf("%s:%d max_concurrent=%d", cfg.Host, cfg.Port, cfg.Bulkhead.MaxConcurrent),
	}
}
