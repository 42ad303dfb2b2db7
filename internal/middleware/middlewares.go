package middleware

import (
	"github.com/deppfellow/talent-catalog/internal/server"
)

// Middlewares groups every middleware component the router installs.
//
// Each component holds what it needs from *server.Server (config, logger,
// metrics, New Relic application), so the router only decides the order.
type Middlewares struct {
	Global          *GlobalMiddlewares
	Auth            *AuthMiddleware
	ContextEnhancer *ContextEnhancer
	Tracing         *TracingMiddleware
	Metrics         *MetricsMiddleware
	RateLimit       *RateLimitMiddleware
}

// NewMiddlewares builds every component from the application container.
// The New Relic application is nil when no license key is configured.
func NewMiddlewares(s *server.Server) *Middlewares {
	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		Auth:            NewAuthMiddleware(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, s.LoggerService.GetApplication()),
		Metrics:         NewMetricsMiddleware(s.Metrics),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
