package middleware

import (
	"strings"
	"time"

	"report-assembler/utils/logger"

	"github.com/labstack/echo/v4"
)

// LoggingMiddleware logs one line per completed request. Health and
// metrics scrapes are skipped.
func LoggingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.URL.Path == "/v1/health" || req.URL.Path == "/metrics" {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			ctx := req.Context()
			res := c.Response()
			attrs := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"route", c.Path(),
				"status", res.Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size", res.Size,
			}
			if strings.HasSuffix(c.Path(), "/events") {
				attrs = append(attrs, "stream", true)
			}

			log := logger.FromContext(ctx)
			switch {
			case res.Status >= 500:
				log.ErrorContext(ctx, "request completed", attrs...)
			case res.Status >= 400:
				log.WarnContext(ctx, "request completed", attrs...)
			default:
				log.InfoContext(ctx, "request completed", attrs...)
			}
			return nil
		}
	}
}
