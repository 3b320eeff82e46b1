package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/sessionkit/component"
)

// HealthChecker returns health status for registered components.
type HealthChecker func(ctx context.Context) []component.Health

// Health reports the worst component status: 200 for healthy or degraded,
// 503 when any component is unhealthy.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := component.StatusHealthy
		var components []component.Health

		if checker != nil {
			components = checker(c.Request.Context())
			for _, ch := range components {
				switch ch.Status {
				case component.StatusUnhealthy:
					status = component.StatusUnhealthy
				case component.StatusDegraded:
					if status != component.StatusUnhealthy {
						status = component.StatusDegraded
					}
				}
			}
		}

		httpStatus := http.StatusOK
		if status == component.StatusUnhealthy {
			httpStatus = http.StatusServiceUnavailable
		}
		c.JSON(httpStatus, gin.H{
			"status":     status,
			"service":    serviceName,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": components,
		})
	}
}
