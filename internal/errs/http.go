package errs

import (
	"net/http"
)

// Conflict codes.
const (
	// CodeEntityExists: the entity would duplicate an existing one.
	CodeEntityExists = "ENTITY_EXISTS"
	// CodeEntityReferenced: the entity cannot be removed while others point at it.
	CodeEntityReferenced = "ENTITY_REFERENCED"
)

// Constructors for every status the admin API answers with.
//
// The default Code is the status text in upper snake case (NOT_FOUND,
// TOO_MANY_REQUESTS). override says whether Message was written for the end
// user; when false, clients show their own generic text instead. Conflicts,
// rate limiting and 501 always carry a user-facing message.

func statusCode(status int) string {
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

// NewUnauthorizedError builds a 401 for a missing or rejected session.
func NewUnauthorizedError(message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusUnauthorized),
		Message:  message,
		Status:   http.StatusUnauthorized,
		Override: override,
	}
}

func NewForbiddenError(message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusForbidden),
		Message:  message,
		Status:   http.StatusForbidden,
		Override: override,
	}
}

// NewBadRequestError builds a 400. code replaces the default BAD_REQUEST
// when non-nil; errors lists field-level failures.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	formattedCode := statusCode(http.StatusBadRequest)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
		Action:   action,
	}
}

// NewNotFoundError builds a 404. code replaces the default NOT_FOUND when
// non-nil.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := statusCode(http.StatusNotFound)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewConflictError builds a 409 with one of the conflict codes. The message
// is always shown to the client.
func NewConflictError(message string, code string) *HTTPError {
	return &HTTPError{
		Code:     code,
		Message:  message,
		Status:   http.StatusConflict,
		Override: true,
	}
}

// NewTooManyRequestsError builds the 429 the rate limiter answers with.
func NewTooManyRequestsError(message string) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusTooManyRequests),
		Message:  message,
		Status:   http.StatusTooManyRequests,
		Override: true,
	}
}

// NewNotImplementedError builds a 501 for endpoints whose backing feature
// does not exist yet.
func NewNotImplementedError(message string) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusNotImplemented),
		Message:  message,
		Status:   http.StatusNotImplemented,
		Override: true,
	}
}

// NewInternalServerError never carries the underlying cause; that only goes
// to the logs.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:    statusCode(http.StatusInternalServerError),
		Message: http.StatusText(http.StatusInternalServerError),
		Status:  http.StatusInternalServerError,
	}
}

func ValidationError(err error) *HTTPError {
	return NewBadRequestError("Validation failed: "+err.Error(), false, nil, nil, nil)
}
