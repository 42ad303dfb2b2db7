package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/deppfellow/talent-catalog/internal/logger"
	"github.com/deppfellow/talent-catalog/internal/server"
)

// Echo context keys.
const (
	// UserIDKey and UserRoleKey hold the Clerk session subject and role.
	// AuthMiddleware.RequireAuth sets them; nothing else should.
	UserIDKey   = "user_id"
	UserRoleKey = "user_role"

	// LoggerKey holds the request-scoped *zerolog.Logger in the Echo
	// context. Code that only sees a context.Context uses
	// logger.FromContext instead.
	LoggerKey = "logger"
)

// ContextEnhancer enriches every request with a request-scoped logger.
//
// The logger carries:
//   - request_id
//   - method, route path and client ip
//   - trace.id and span.id, when a New Relic transaction exists
//   - user_id and user_role, when auth already ran
//
// It is stored both in the Echo context (c.Set) and in the request's
// context.Context, so services and the pgx tracer log with the same fields
// as the handler.
type ContextEnhancer struct {
	server *server.Server
}

// NewContextEnhancer creates a ContextEnhancer on the application container.
func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext returns the Echo middleware.
//
// For every request it:
//  1. reads the request id set by RequestID (empty if that did not run)
//  2. derives a child logger with the request fields
//  3. adds the New Relic trace context, if a transaction exists
//  4. adds the user, if auth ran before it
//  5. stores the logger in the Echo context and the Go context
//
// On admin routes auth runs after this middleware, so RequireAuth enriches
// the logger again once the session is known.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()). // route template, e.g. /api/admin/country/:id
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			if userID := GetUserID(c); userID != "" {
				contextLogger = contextLogger.With().Str("user_id", userID).Logger()
			}

			if userRole := GetUserRole(c); userRole != "" {
				contextLogger = contextLogger.With().Str("user_role", userRole).Logger()
			}

			setLogger(c, &contextLogger)

			return next(c)
		}
	}
}

// setLogger stores l under LoggerKey and under logger.ContextKey in a
// derived request context, replacing the request.
func setLogger(c echo.Context, l *zerolog.Logger) {
	c.Set(LoggerKey, l)
	ctx := context.WithValue(c.Request().Context(), logger.ContextKey, l)
	c.SetRequest(c.Request().WithContext(ctx))
}

// GetUserID returns the authenticated Clerk subject, or "".
func GetUserID(c echo.Context) string {
	if userID, ok := c.Get(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// GetUserRole returns the active organization role of the session, or "".
func GetUserRole(c echo.Context) string {
	if role, ok := c.Get(UserRoleKey).(string); ok {
		return role
	}
	return ""
}

// GetLogger returns the request-scoped logger.
//
// When EnhanceContext did not run (unit tests, routes mounted outside the
// router) it returns a no-op logger, so callers never check for nil.
func GetLogger(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return l
	}
	l := zerolog.Nop()
	return &l
}
