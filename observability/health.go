package observability

import "context"

// HealthStatus represents the health state of a component or service.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDown     HealthStatus = "down"
	HealthStatusDegraded HealthStatus = "degraded"
)

// Health describes the health of one provider or component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// ServiceHealth is the body of the /health endpoint.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// HealthChecker is implemented by anything that can report its health.
type HealthChecker interface {
	CheckHealth(ctx context.Context) Health
}

// CheckHealth runs every checker and folds the results into one report.
// A down component makes the service down; degraded never overrides down.
func CheckHealth(ctx context.Context, service, version string, checkers ...HealthChecker) *ServiceHealth {
	sh := &ServiceHealth{Service: service, Status: HealthStatusUp, Version: version}
	for _, c := range checkers {
		h := c.CheckHealth(ctx)
		sh.Components = append(sh.Components, h)
		switch h.Status {
		case HealthStatusDown:
			sh.Status = HealthStatusDown
		case HealthStatusDegraded:
			if sh.Status != HealthStatusDown {
				sh.Status = HealthStatusDegraded
			}
		}
	}
	return sh
}
