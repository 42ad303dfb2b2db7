package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/talent-catalog/internal/config"
	"github.com/deppfellow/talent-catalog/internal/errs"
	"github.com/deppfellow/talent-catalog/internal/logger"
	"github.com/deppfellow/talent-catalog/internal/metrics"
	"github.com/deppfellow/talent-catalog/internal/server"
)

func testServer() *server.Server {
	l := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Server: config.ServerConfig{CORSAllowedOrigins: []string{"*"}},
		},
		Logger:  &l,
		Metrics: metrics.New(),
	}
}

func newEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	mw := NewMiddlewares(s)
	e.HTTPErrorHandler = mw.Global.GlobalErrorHandler
	e.Use(RequestID(), mw.ContextEnhancer.EnhanceContext(), mw.Metrics.Record())
	return e
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func serve(e *echo.Echo, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestGlobalErrorHandler(t *testing.T) {
	e := newEcho(testServer())

	e.GET("/conflict", func(c echo.Context) error {
		return errs.NewConflictError("A Country with this Name already exists", errs.CodeEntityExists)
	})
	e.GET("/missing", func(c echo.Context) error {
		return fmt.Errorf("table:countries: %w", pgx.ErrNoRows)
	})
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("connection reset")
	})

	t.Run("http error passes through", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/conflict")
		assert.Equal(t, http.StatusConflict, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, errs.CodeEntityExists, body.Code)
		assert.True(t, body.Override)
	})

	t.Run("no rows becomes 404", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/missing")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Country not found", decodeError(t, rec).Message)
	})

	t.Run("unknown error hides its cause", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/boom")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Code)
		assert.NotContains(t, body.Message, "connection reset")
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/nowhere")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Route not found", decodeError(t, rec).Message)
	})
}

func TestRequestID(t *testing.T) {
	e := newEcho(testServer())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	rec := serve(e, http.MethodGet, "/")
	generated := rec.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestEnhanceContext_StoresLoggerInRequestContext(t *testing.T) {
	e := newEcho(testServer())

	var fromEcho, fromCtx *zerolog.Logger
	e.GET("/", func(c echo.Context) error {
		fromEcho = GetLogger(c)
		fromCtx = logger.FromContext(c.Request().Context(), nil)
		return c.NoContent(http.StatusNoContent)
	})

	serve(e, http.MethodGet, "/")
	require.NotNil(t, fromCtx)
	assert.Same(t, fromEcho, fromCtx)
}

func TestGetLogger_Fallback(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.NotNil(t, GetLogger(c))
	assert.Empty(t, GetUserID(c))
}

func TestRateLimit(t *testing.T) {
	s := testServer()
	s.Config.Server.RateLimit = 1

	e := newEcho(s)
	e.GET("/limited", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, NewRateLimitMiddleware(s).Limit())

	// burst is 2
	assert.Equal(t, http.StatusNoContent, serve(e, http.MethodGet, "/limited").Code)
	assert.Equal(t, http.StatusNoContent, serve(e, http.MethodGet, "/limited").Code)

	rec := serve(e, http.MethodGet, "/limited")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", decodeError(t, rec).Code)

	metricsRec := httptest.NewRecorder()
	s.Metrics.Handler().ServeHTTP(metricsRec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, metricsRec.Body.String(), `talentcatalog_rate_limit_hits_total{route="/limited"} 1`)
	assert.Contains(t, metricsRec.Body.String(), `talentcatalog_http_requests_total{method="GET",route="/limited",status="429"} 1`)
}

func TestRateLimit_Disabled(t *testing.T) {
	s := testServer()

	e := newEcho(s)
	e.GET("/open", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, NewRateLimitMiddleware(s).Limit())

	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusNoContent, serve(e, http.MethodGet, "/open").Code)
	}
}

func TestStatusFromError(t *testing.T) {
	assert.Equal(t, http.StatusOK, statusFromError(nil, http.StatusOK))
	assert.Equal(t, http.StatusTeapot, statusFromError(echo.NewHTTPError(http.StatusTeapot), 0))
	assert.Equal(t, http.StatusNotFound, statusFromError(fmt.Errorf("table:users: %w", pgx.ErrNoRows), 0))
	assert.Equal(t, http.StatusInternalServerError, statusFromError(errors.New("x"), http.StatusOK))
}
