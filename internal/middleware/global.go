package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/talent-catalog/internal/errs"
	"github.com/deppfellow/talent-catalog/internal/server"
	"github.com/deppfellow/talent-catalog/internal/sqlerr"
)

// GlobalMiddlewares groups the middleware applied to every route and the
// global error handler.
//
// It holds the *server.Server container so each middleware can read the
// config (CORS origins, environment) and the request logger set up by
// ContextEnhancer.
type GlobalMiddlewares struct {
	server *server.Server
}

// NewGlobalMiddlewares constructs the bundle around the application
// container.
func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{server: s}
}

// CORS returns Echo's CORS middleware restricted to the configured origins.
//
// The admin frontend is served from a different origin than the API, so
// every origin it runs on must be listed in
// TALENTCATALOG_SERVER__CORS_ALLOWED_ORIGINS. X-Request-ID is exposed so the
// browser can read it when reporting a failed call.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  global.server.Config.Server.CORSAllowedOrigins,
		ExposeHeaders: []string{RequestIDHeader},
	})
}

// RequestLogger returns Echo's request logger middleware with a zerolog
// LogValuesFunc.
//
// It writes one "API" line per request through the request-scoped logger,
// so request_id, user_id and the trace ids come along. The level follows
// the final status:
//   - 5xx -> Error, with the error attached
//   - 4xx -> Warn
//   - anything else -> Info
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		// LogValuesFunc runs once the handler chain has returned; v carries
		// the measured latency, status and error.
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			// When a handler returns an error, Echo has not written the final
			// status yet: GlobalErrorHandler does that afterwards. Derive the
			// status from the error so failed requests are not logged as 200.
			// https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			statusCode := statusFromError(v.Error, v.Status)

			l := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = l.Error().Err(v.Error)
			case statusCode >= 400:
				e = l.Warn()
			default:
				e = l.Info()
			}

			// correlation fields, when RequestID and auth ran
			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}
			if userID := GetUserID(c); userID != "" {
				e = e.Str("user_id", userID)
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// statusFromError is the status GlobalErrorHandler will answer err with,
// or fallback when err is nil.
//
// It mirrors the handler's classification: our HTTPError first, then Echo's
// own error, then whatever sqlerr makes of a driver error. The request
// logger, the metrics middleware and the tracing middleware all use it,
// so the three agree on the status of a failed request.
func statusFromError(err error, fallback int) int {
	if err == nil {
		return fallback
	}

	var httpErr *errs.HTTPError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Status
	case errors.As(err, &echoErr):
		return echoErr.Code
	case errors.As(sqlerr.HandleError(err), &httpErr):
		return httpErr.Status
	default:
		return http.StatusInternalServerError
	}
}

// Recover returns Echo's panic recovery middleware.
//
// A panicking handler becomes a 500 through GlobalErrorHandler instead of
// taking the process down. The projection builder panics on a property
// its source type lacks; this is where that ends up.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

// Secure returns Echo's secure headers middleware (X-XSS-Protection,
// X-Content-Type-Options, X-Frame-Options).
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler is the final funnel for every error a handler or
// middleware returns.
//
// It works in three steps:
//  1. Classify. An errs.HTTPError is used as is. Echo's route 404 becomes
//     our "Route not found" shape. Anything else is assumed to come from
//     the database and goes through sqlerr.HandleError, which turns unique
//     and foreign key violations into 409s, missing rows into 404s named
//     after the entity, and the rest into a 500 that hides the cause.
//  2. Log the original error through the request logger: Error with a
//     stack for 5xx, Warn for client errors.
//  3. Write the errs.HTTPError JSON body, unless the response has already
//     been committed. HEAD requests get the status only.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	// keep the real error for the log; err may be replaced for the client
	originalErr := err

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			// other echo errors (405, 413, bind errors) keep their code
			if echoErr.Code == http.StatusNotFound {
				err = errs.NewNotFoundError("Route not found", false, nil)
			}
		} else {
			err = sqlerr.HandleError(err)
		}
	}

	var echoErr *echo.HTTPError
	var status int
	var code string
	var message string
	var fieldErrors []errs.FieldError
	var action *errs.Action
	override := false

	switch {
	case errors.As(err, &httpErr):
		status = httpErr.Status
		code = httpErr.Code
		message = httpErr.Message
		fieldErrors = httpErr.Errors
		action = httpErr.Action
		override = httpErr.Override

	case errors.As(err, &echoErr):
		status = echoErr.Code
		code = errs.MakeUpperCaseWithUnderscores(http.StatusText(status))
		// Message is `any`; only plain strings are passed through
		if msg, ok := echoErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(echoErr.Code)
		}

	default:
		// unreachable in practice: sqlerr always returns an HTTPError
		status = http.StatusInternalServerError
		code = errs.MakeUpperCaseWithUnderscores(http.StatusText(status))
		message = http.StatusText(status)
	}

	l := GetLogger(c)
	var e *zerolog.Event
	if status >= 500 {
		e = l.Error().Stack()
	} else {
		e = l.Warn()
	}
	e.Err(originalErr).
		Int("status", status).
		Str("error_code", code).
		Msg(message)

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, errs.HTTPError{
			Code:     code,
			Message:  message,
			Status:   status,
			Override: override,
			Errors:   fieldErrors,
			Action:   action,
		})
	}
	if err != nil {
		l.Error().Err(err).Msg("failed to write error response")
	}
}
