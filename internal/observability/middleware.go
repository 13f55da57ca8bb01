package observability

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// Middleware records request counts and latencies per route. The registered
// route path is used as the label, not the raw URL, so /assistance/:requestId
// stays one series regardless of id.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			method := c.Request().Method
			path := c.Path()
			code := strconv.Itoa(status)
			HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
			HTTPRequestDuration.WithLabelValues(method, path, code).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
