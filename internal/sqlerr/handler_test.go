package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/firmdata/dataroom/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected HTTPError, got %v", err)
	return httpErr
}

func TestHandleErrorPassesThroughHTTPError(t *testing.T) {
	t.Parallel()

	original := errs.NewForbiddenError("User does not have access to this client", false)

	result := HandleError(original)

	assert.Same(t, original, result)
}

func TestHandleErrorUniqueViolation(t *testing.T) {
	t.Parallel()

	err := HandleError(&pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		TableName:      "clients",
		ConstraintName: "clients_name_key",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "CLIENT_ALREADY_EXISTS", httpErr.Code)
	assert.Contains(t, httpErr.Message, "already exists")
	assert.Contains(t, httpErr.Message, "Name")
}

func TestHandleErrorForeignKeyViolation(t *testing.T) {
	t.Parallel()

	err := HandleError(&pgconn.PgError{
		Code:       "23503",
		Severity:   "ERROR",
		TableName:  "upload_batches",
		ColumnName: "client_id",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "UPLOAD_BATCHE_NOT_FOUND", httpErr.Code)
	assert.Equal(t, "The referenced Client does not exist", httpErr.Message)
}

func TestHandleErrorNotNullViolation(t *testing.T) {
	t.Parallel()

	err := HandleError(&pgconn.PgError{
		Code:       "23502",
		Severity:   "ERROR",
		TableName:  "uploaded_files",
		ColumnName: "filename",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "filename", httpErr.Errors[0].Field)
	assert.Equal(t, "is required", httpErr.Errors[0].Error)
}

func TestHandleErrorCheckViolation(t *testing.T) {
	t.Parallel()

	err := HandleError(&pgconn.PgError{
		Code:       "23514",
		Severity:   "ERROR",
		TableName:  "upload_batches",
		ColumnName: "status",
	})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "UPLOAD_BATCHE_INVALID", httpErr.Code)
}

func TestHandleErrorNoRowsWithTableAnnotation(t *testing.T) {
	t.Parallel()

	err := HandleError(fmt.Errorf("table:upload_batches: %w", pgx.ErrNoRows))

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Upload Batche not found", httpErr.Message)
}

func TestHandleErrorNoRowsWithoutAnnotation(t *testing.T) {
	t.Parallel()

	err := HandleError(pgx.ErrNoRows)

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Resource not found", httpErr.Message)
}

func TestHandleErrorUnknownErrorIs500(t *testing.T) {
	t.Parallel()

	err := HandleError(errors.New("connection refused"))

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestErrCode(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("insert failed: %w", ConvertPgError(&pgconn.PgError{Code: "23505"}))

	assert.Equal(t, UniqueViolation, ErrCode(wrapped))
	assert.Equal(t, Other, ErrCode(errors.New("nope")))
}
