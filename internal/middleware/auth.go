package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/talent-catalog/internal/errs"
	"github.com/deppfellow/talent-catalog/internal/server"
)

// AuthMiddleware guards the admin API with Clerk session tokens.
//
// The Clerk secret key is installed globally by service.AuthService at
// startup; this middleware only verifies tokens and exposes the session
// on the Echo context.
type AuthMiddleware struct {
	server *server.Server
}

// NewAuthMiddleware creates the middleware on the application container.
func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	return &AuthMiddleware{server: s}
}

// RequireAuth verifies the Clerk session token in the Authorization header.
//
// Clerk's middleware is net/http shaped, so it is adapted with
// echo.WrapMiddleware:
//   - an invalid or missing token never reaches Echo: Clerk calls
//     writeUnauthorized, which answers 401 with the errs.HTTPError body
//   - a valid token leaves the session claims in the request context, and
//     the inner handler below copies them onto the Echo context
//
// On success UserIDKey holds the Clerk subject, UserRoleKey the active
// organization role and "permissions" its permissions. The request logger
// is rebuilt with user_id and user_role, since EnhanceContext ran before
// the session was known.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return echo.WrapMiddleware(
		clerkhttp.WithHeaderAuthorization(
			clerkhttp.AuthorizationFailureHandler(http.HandlerFunc(auth.writeUnauthorized)),
		),
	)(func(c echo.Context) error {
		start := time.Now()

		claims, ok := clerk.SessionClaimsFromContext(c.Request().Context())
		if !ok {
			// Clerk let the request through without claims; treat it as
			// unauthenticated rather than trusting it
			GetLogger(c).Error().
				Str("function", "RequireAuth").
				Dur("duration", time.Since(start)).
				Msg("could not get session claims from context")

			return errs.NewUnauthorizedError("Unauthorized", false)
		}

		c.Set(UserIDKey, claims.Subject)
		c.Set(UserRoleKey, claims.ActiveOrganizationRole)
		c.Set("permissions", claims.Claims.ActiveOrganizationPermissions)

		l := GetLogger(c).With().
			Str("user_id", claims.Subject).
			Str("user_role", claims.ActiveOrganizationRole).
			Logger()
		setLogger(c, &l)

		l.Debug().
			Str("function", "RequireAuth").
			Dur("duration", time.Since(start)).
			Msg("user authenticated")

		return next(c)
	})
}

// writeUnauthorized is Clerk's failure handler. It runs outside Echo, so
// GlobalErrorHandler never sees the failure: the body is encoded here, in
// the same shape, and logged through the root logger.
func (auth *AuthMiddleware) writeUnauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w.WriteHeader(http.StatusUnauthorized)

	if err := json.NewEncoder(w).Encode(errs.NewUnauthorizedError("Unauthorized", false)); err != nil {
		auth.server.Logger.Error().
			Err(err).
			Str("function", "RequireAuth").
			Msg("failed to write JSON response")
		return
	}

	auth.server.Logger.Warn().
		Str("function", "RequireAuth").
		Str("request_id", w.Header().Get(RequestIDHeader)).
		Str("path", r.URL.Path).
		Msg("session token rejected")
}
