package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/talent-catalog/internal/metrics"
)

type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Record counts and times each request by route template.
func (mm *MetricsMiddleware) Record() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := statusFromError(err, c.Response().Status)
			mm.metrics.RecordHTTPRequest(c.Path(), c.Request().Method, status, time.Since(start))

			return err
		}
	}
}
