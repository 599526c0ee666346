package provider

import (
	"context"

	"github.com/kbukum/speechkit/observability"
)

// HealthChecker adapts a provider's availability to the health report.
func HealthChecker(p Provider) observability.HealthChecker {
	return healthAdapter{p: p}
}

type healthAdapter struct{ p Provider }

func (h healthAdapter) CheckHealth(ctx context.Context) observability.Health {
	if h.p.IsAvailable(ctx) {
		return observability.Health{Name: h.p.Name(), Status: observability.HealthStatusUp}
	}
	return observability.Health{
		Name:    h.p.Name(),
		Status:  observability.HealthStatusDown,
		Message: "provider not configured",
	}
}
