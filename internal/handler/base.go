package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/talent-catalog/internal/dto"
	"github.com/deppfellow/talent-catalog/internal/middleware"
	"github.com/deppfellow/talent-catalog/internal/server"
	"github.com/deppfellow/talent-catalog/internal/validation"
)

// Handler carries the shared server container into every endpoint group.
//
// Resource handlers embed it to reach the config (pagination bounds) and
// the New Relic application; everything domain specific comes from the
// services they are constructed with.
type Handler struct {
	server *server.Server
}

// NewHandler wraps the application container.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// request is satisfied by a pointer to a request struct.
//
// With it Handle can call new(Req) on every request and still treat the
// result as a validation.Validatable. Each call therefore binds into its
// own payload; concurrent requests never share one.
type request[T any] interface {
	*T
	validation.Validatable
}

// HandlerFunc is the signature of an endpoint returning a body. req has
// already been bound and validated when it runs.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// HandlerFuncNoContent is the signature of an endpoint answering with a
// status only (deletes).
type HandlerFuncNoContent[Req validation.Validatable] func(c echo.Context, req Req) error

// ResponseHandler decides how a successful result is written.
//
// Handle writes the response, GetOperation names the kind of handler in
// the logs, and AddAttributes describes the result on the New Relic
// transaction.
type ResponseHandler interface {
	Handle(c echo.Context, result any) error
	GetOperation() string
	AddAttributes(txn *newrelic.Transaction, result any)
}

// JSONResponseHandler writes the result as JSON with a fixed status.
// Projected results (*dto.Map) keep their key order.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result any) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

// AddAttributes records the size of projected results.
func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result any) {
	switch r := result.(type) {
	case *dto.Map:
		if r != nil {
			txn.AddAttribute("projection.keys", r.Len())
		}
	case []*dto.Map:
		txn.AddAttribute("projection.items", len(r))
	}
}

// NoContentResponseHandler ignores the result and writes the status only.
type NoContentResponseHandler struct {
	status int
}

func (h NoContentResponseHandler) Handle(c echo.Context, _ any) error {
	return c.NoContent(h.status)
}

func (h NoContentResponseHandler) GetOperation() string {
	return "handler_no_content"
}

func (h NoContentResponseHandler) AddAttributes(*newrelic.Transaction, any) {}

// handleRequest is the pipeline shared by Handle and HandleNoContent.
//
// Steps:
//  1. tag the New Relic transaction with the route and derive a logger
//     carrying the operation and route
//  2. bind path params and the JSON body into req and validate it; a
//     failure is returned as the 400 built by validation.BindAndValidate
//  3. run the endpoint, timing it
//  4. on success, record durations and result attributes on the
//     transaction and let responseHandler write the response
//
// Errors are returned untouched. GlobalErrorHandler renders them, so the
// endpoint errors and the validation errors share one response shape.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (any, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	route := c.Path()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("route", route).
		Logger()

	logger.Debug().Msg("handling request")

	validationStart := time.Now()
	if err := validation.BindAndValidate(c, req); err != nil {
		validationDuration := time.Since(validationStart)

		logger.Warn().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}

		return err
	}

	validationDuration := time.Since(validationStart)
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		// Debug only: GlobalErrorHandler logs the error at its real level
		logger.Debug().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("handler execution failed")

		if txn != nil {
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		}
		return err
	}

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", time.Since(start).Milliseconds())
		responseHandler.AddAttributes(txn, result)
	}

	logger.Debug().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", time.Since(start)).
		Msg("request completed")

	return responseHandler.Handle(c, result)
}

// Handle wraps handler as an Echo handler answering with status and the
// JSON encoded result.
//
// Req is the request struct and PReq its pointer, so routes read as
//
//	Handle(country.Get, http.StatusOK)
//
// with both type parameters inferred from the method's signature.
func Handle[Req any, PReq request[Req], Res any](
	handler HandlerFunc[PReq, Res],
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, PReq(new(Req)), func(c echo.Context, req PReq) (any, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleNoContent wraps handler as an Echo handler answering with an empty
// body.
func HandleNoContent[Req any, PReq request[Req]](
	handler HandlerFuncNoContent[PReq],
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, PReq(new(Req)), func(c echo.Context, req PReq) (any, error) {
			return nil, handler(c, req)
		}, NoContentResponseHandler{status: status})
	}
}
