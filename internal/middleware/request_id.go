package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// RequestIDHeader is read from the request and set on the response.
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey stores the id on the Echo context.
	RequestIDKey = "request_id"
)

// RequestID gives every request a correlation id.
//
// An id sent by the caller (a proxy or the admin frontend) is reused,
// otherwise a random UUID is generated. The id is stored on the Echo
// context for the logger and tracing middleware and echoed in the
// response header, so a failed call reported by a user can be found in the
// logs. It must be the first middleware in the chain.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			c.Set(RequestIDKey, requestID)
			c.Response().Header().Set(RequestIDHeader, requestID)

			return next(c)
		}
	}
}

// GetRequestID returns the id set by RequestID, or "" if it did not run.
func GetRequestID(c echo.Context) string {
	if requestID, ok := c.Get(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
