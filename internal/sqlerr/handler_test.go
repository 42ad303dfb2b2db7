package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/talent-catalog/internal/errs"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleError_UniqueViolation(t *testing.T) {
	err := HandleError(fmt.Errorf("insert country: %w", &pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		TableName:      "countries",
		ConstraintName: "countries_name_key",
	}))

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusConflict, httpErr.Status)
	assert.Equal(t, errs.CodeEntityExists, httpErr.Code)
	assert.Equal(t, "A Country with this Name already exists", httpErr.Message)
}

func TestHandleError_ForeignKeyViolation(t *testing.T) {
	t.Run("delete of referenced row", func(t *testing.T) {
		err := HandleError(&pgconn.PgError{
			Code:      "23503",
			Severity:  "ERROR",
			Message:   `update or delete on table "countries" violates foreign key constraint "candidates_country_id_fkey" on table "candidates"`,
			TableName: "candidates",
		})

		httpErr := asHTTPError(t, err)
		assert.Equal(t, http.StatusConflict, httpErr.Status)
		assert.Equal(t, errs.CodeEntityReferenced, httpErr.Code)
		assert.Equal(t, "The record is still referenced by candidates", httpErr.Message)
	})

	t.Run("insert with unknown reference", func(t *testing.T) {
		err := HandleError(&pgconn.PgError{
			Code:       "23503",
			Severity:   "ERROR",
			Message:    `insert or update on table "users" violates foreign key constraint "users_partner_id_fkey"`,
			TableName:  "users",
			ColumnName: "partner_id",
		})

		httpErr := asHTTPError(t, err)
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.Equal(t, "USER_NOT_FOUND", httpErr.Code)
		assert.Equal(t, "The referenced Partner does not exist", httpErr.Message)
	})
}

func TestHandleError_NotNullViolation(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:       "23502",
		TableName:  "saved_lists",
		ColumnName: "name",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "SAVED_LIST_REQUIRED", httpErr.Code)
	assert.Equal(t, []errs.FieldError{{Field: "name", Error: "is required"}}, httpErr.Errors)
}

func TestHandleError_NoRows(t *testing.T) {
	err := HandleError(fmt.Errorf("%scountries: %w", TableMarker, pgx.ErrNoRows))
	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Country not found", httpErr.Message)

	err = HandleError(sql.ErrNoRows)
	assert.Equal(t, "Resource not found", asHTTPError(t, err).Message)
}

func TestHandleError_PassThroughAndFallback(t *testing.T) {
	original := errs.NewForbiddenError("nope", true)
	assert.Same(t, original, HandleError(original))

	httpErr := asHTTPError(t, HandleError(errors.New("connection reset")))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestErrCode(t *testing.T) {
	converted := ConvertPgError(&pgconn.PgError{Code: "23514", Severity: "ERROR"})

	assert.Equal(t, CheckViolation, ErrCode(fmt.Errorf("wrap: %w", converted)))
	assert.Equal(t, Other, ErrCode(errors.New("x")))
	assert.Equal(t, SeverityError, converted.Severity)
}

func TestSingular(t *testing.T) {
	assert.Equal(t, "country", singular("countries"))
	assert.Equal(t, "user", singular("users"))
	assert.Equal(t, "s", singular("s"))
}
