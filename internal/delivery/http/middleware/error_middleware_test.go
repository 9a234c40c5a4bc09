package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "identity/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func invokeErrorHandler(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	m := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.HandleHTTPError(err, c)

	return rec
}

func TestErrorMiddleware_AppError(t *testing.T) {
	rec := invokeErrorHandler(t, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")
	assert.Contains(t, rec.Body.String(), "invalid email or password")
}

func TestErrorMiddleware_DuplicateEmail(t *testing.T) {
	rec := invokeErrorHandler(t, errors.Wrap(domainerrors.ErrDuplicateEmail, "registration failed"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "DUPLICATE_EMAIL")
}

func TestErrorMiddleware_EchoHTTPError(t *testing.T) {
	rec := invokeErrorHandler(t, echo.NewHTTPError(http.StatusNotFound, "Not Found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "HTTP_ERROR")
}

// Unhandled errors must never leak their cause to the client.
func TestErrorMiddleware_UnhandledErrorStaysOpaque(t *testing.T) {
	rec := invokeErrorHandler(t, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
	assert.Contains(t, rec.Body.String(), "internal server error")
	assert.NotContains(t, rec.Body.String(), "dial tcp")
	assert.NotContains(t, rec.Body.String(), "5432")
}

// Store failures wrapped in DatabaseExecuteError surface a generic message,
// not the SQL error.
func TestErrorMiddleware_DatabaseErrorStaysOpaque(t *testing.T) {
	dbErr := domainerrors.NewDatabaseExecuteError(errors.New(`pq: relation "accounts" does not exist`), "failed to create account")
	rec := invokeErrorHandler(t, dbErr)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
	assert.NotContains(t, rec.Body.String(), "relation")
}
