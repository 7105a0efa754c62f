package errcodes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIs_MatchesOnlySameResource(t *testing.T) {
	err := errors.WithStack(NotFound("Member"))

	assert.ErrorIs(t, err, NotFound("Member"))
	assert.NotErrorIs(t, err, NotFound("Book"))
}

func TestHasCode(t *testing.T) {
	err := errors.Wrap(OutOfStock("Dune"), "borrow")

	assert.True(t, HasCode(err, "out_of_stock"))
	assert.False(t, HasCode(err, "conflict"))
	assert.False(t, HasCode(errors.New("boom"), "conflict"))
	assert.False(t, HasCode(nil, "conflict"))
}

func TestFromDB(t *testing.T) {
	assert.Nil(t, FromDB(nil, "Member"))

	err := FromDB(errors.New("constraint failed: UNIQUE constraint failed: members.email (2067)"), "Member")
	assert.True(t, HasCode(err, "conflict"))
	assert.Equal(t, "Member already exists.", err.Error())

	err = FromDB(errors.New("FOREIGN KEY constraint failed (787)"), "Book")
	assert.True(t, HasCode(err, "referential_integrity"))

	err = FromDB(errors.New("CHECK constraint failed: stock >= 0"), "Book")
	assert.True(t, HasCode(err, "validation_error"))

	err = FromDB(errors.New("disk I/O error"), "Book")
	var e *Error
	assert.False(t, errors.As(err, &e))
	assert.Contains(t, err.Error(), "disk I/O error")
}

func TestPayload(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		httpCode int
		code     string
	}{
		{"not found", NotFound("Book"), http.StatusNotFound, "not_found"},
		{"conflict", Conflict("Email already registered."), http.StatusConflict, "conflict"},
		{"out of stock", OutOfStock("Dune"), http.StatusConflict, "out_of_stock"},
		{"referential integrity", ReferentialIntegrity("member", "borrow records"), http.StatusConflict, "referential_integrity"},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed, "method_not_allowed"},
		{"generic", errors.New("db closed"), http.StatusInternalServerError, "internal_server_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			httpCode, payload := Payload(tc.err)
			assert.Equal(t, tc.httpCode, httpCode)
			assert.Equal(t, tc.code, payload.Error.Code)
			assert.Equal(t, tc.httpCode, payload.Error.StatusCode)
		})
	}
}

func TestHandle_WritesJSON(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHandler().Handle(ReferentialIntegrity("book", "borrow records"), c)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"referential_integrity","message":"Cannot delete book: borrow records exist.","status_code":409}}`, rec.Body.String())
}

func TestHandle_ConflictAndServerError(t *testing.T) {
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/loans/borrow", nil), rec)
	NewHandler().Handle(errors.WithStack(Conflict("Member 1 already has \"Dune\" borrowed.")), c)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"conflict","message":"Member 1 already has \"Dune\" borrowed.","status_code":409}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/books", nil), rec)
	NewHandler().Handle(errors.New("db closed"), c)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"internal_server_error","message":"Internal Server Error","status_code":500}}`, rec.Body.String())
}
