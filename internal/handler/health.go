package handler

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/deppfellow/talent-catalog/internal/middleware"
	"github.com/deppfellow/talent-catalog/internal/server"
)

// HealthHandler serves /status for load balancers and uptime checks.
type HealthHandler struct {
	Handler
}

// NewHealthHandler creates the handler on the application container.
func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type checkResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type healthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]checkResult `json:"checks"`
}

// CheckHealth pings the configured dependencies and reports each one.
//
// The checks to run come from observability.health_checks: "database"
// pings the pgx pool and "redis" pings the Redis client, each bounded by
// the configured timeout. Disabled checks are left out of the response.
//
// The response is 200 with status "healthy" when every check passes, and
// 503 with status "unhealthy" otherwise. Failures are also sent to New
// Relic as a HealthCheckError custom event.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := healthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]checkResult),
	}

	checks := map[string]func(context.Context) error{}
	if h.server.DB != nil {
		checks["database"] = h.server.DB.Pool.Ping
	}
	if h.server.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		}
	}

	for name, ping := range checks {
		if !h.enabled(name) {
			continue
		}
		result := h.check(c.Request().Context(), &logger, name, ping)
		if result.Status != "healthy" {
			response.Status = "unhealthy"
		}
		response.Checks[name] = result
	}

	if response.Status != "healthy" {
		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordEvent(map[string]any{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) check(parent context.Context, logger *zerolog.Logger, name string, ping func(context.Context) error) checkResult {
	ctx, cancel := context.WithTimeout(parent, h.server.Config.Observability.HealthCheckTimeout())
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	elapsed := time.Since(start)

	if err != nil {
		logger.Error().
			Err(err).
			Str("check", name).
			Dur("response_time", elapsed).
			Msg("health check failed")

		h.recordEvent(map[string]any{
			"check_type":       name,
			"operation":        "health_check",
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})

		return checkResult{Status: "unhealthy", ResponseTime: elapsed.String(), Error: err.Error()}
	}

	return checkResult{Status: "healthy", ResponseTime: elapsed.String()}
}

// enabled reports whether the named dependency check is configured to run.
func (h *HealthHandler) enabled(name string) bool {
	cfg := h.server.Config.Observability.HealthChecks
	if !cfg.Enabled {
		return false
	}
	return len(cfg.Checks) == 0 || slices.Contains(cfg.Checks, name)
}

func (h *HealthHandler) recordEvent(attrs map[string]any) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", attrs)
	}
}
