package rest

import (
	"net/http"

	"report-assembler/di"
	"report-assembler/utils/logger"
	"report-assembler/utils/resilience"

	"github.com/labstack/echo/v4"
)

// handleHealth reports degraded, not unhealthy, while the backend breaker
// is open: the process itself can still serve.
func handleHealth(container *di.ApplicationComponents) echo.HandlerFunc {
	return func(c echo.Context) error {
		resp := HealthResponse{Status: "healthy", PolisAPI: "unknown"}

		if container.PolisAPIClient != nil {
			state := container.PolisAPIClient.BreakerStats().State
			resp.PolisAPI = state.String()
			if state != resilience.StateClosed {
				resp.Status = "degraded"
			}
		}
		if container.ViewRegistry != nil {
			resp.ActiveViews = container.ViewRegistry.Len()
		}
		if container.RedisCache != nil {
			ctx := c.Request().Context()
			if err := container.RedisCache.Ping(ctx); err != nil {
				logger.FromContext(ctx).WarnContext(ctx, "redis ping failed", "error", err)
				resp.RedisCache = "unreachable"
				resp.Status = "degraded"
			} else {
				resp.RedisCache = "ok"
			}
		}

		return c.JSON(http.StatusOK, resp)
	}
}
