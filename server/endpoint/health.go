package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/version"
)

// HealthCheckers returns the checkers to run for one health request.
// It is called per request so providers registered after startup are seen.
type HealthCheckers func() []observability.HealthChecker

// Health reports provider and component availability. A down checker
// turns the response into 503.
func Health(serviceName string, checkers HealthCheckers) gin.HandlerFunc {
	return func(c *gin.Context) {
		var list []observability.HealthChecker
		if checkers != nil {
			list = checkers()
		}
		report := observability.CheckHealth(c.Request.Context(), serviceName, version.GetVersionInfo().Version, list...)

		status := http.StatusOK
		if report.Status == observability.HealthStatusDown {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, report)
	}
}
