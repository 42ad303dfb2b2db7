// Package router assembles the Echo instance: the global middleware chain,
// the system routes and the authenticated admin API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/talent-catalog/internal/handler"
	"github.com/deppfellow/talent-catalog/internal/middleware"
	"github.com/deppfellow/talent-catalog/internal/server"
)

// AdminPrefix is the path prefix of every authenticated route.
const AdminPrefix = "/api/admin"

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	mw := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		mw.Tracing.NewRelicMiddleware(),
		mw.Tracing.EnhanceTracing(),
		mw.ContextEnhancer.EnhanceContext(),
		mw.Global.CORS(),
		mw.Global.Secure(),
		mw.Global.RequestLogger(),
		mw.Metrics.Record(),
		mw.Global.Recover(),
	)

	registerSystemRoutes(router, s, h)

	admin := router.Group(AdminPrefix, mw.Auth.RequireAuth, mw.RateLimit.Limit())
	registerAdminRoutes(admin, h)

	return router
}
