package loans

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shishobooks/lending/pkg/binder"
	"github.com/shishobooks/lending/pkg/errcodes"
	"github.com/shishobooks/lending/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestHandler(t *testing.T) (*handler, *echo.Echo) {
	t.Helper()
	db := setupTestDB(t)
	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	return &handler{loanService: NewService(db)}, e
}

func doRequest(e *echo.Echo, method, target, body string, fn echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return rec, fn(e.NewContext(req, rec))
}

func TestHandler_BorrowAndReturn(t *testing.T) {
	h, e := setupTestHandler(t)
	db := h.loanService.db

	member := insertMember(t, db, "ann")
	book := insertBook(t, db, "Dune", 1)
	body := `{"member_id":` + strconv.Itoa(member.ID) + `,"book_id":` + strconv.Itoa(book.ID) + `}`

	rec, err := doRequest(e, http.MethodPost, "/loans/borrow", body, h.borrow)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var record models.BorrowRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Nil(t, record.ReturnedAt)

	_, err = doRequest(e, http.MethodPost, "/loans/borrow", body, h.borrow)
	assert.True(t, errcodes.HasCode(err, "conflict"))

	rec, err = doRequest(e, http.MethodPost, "/loans/return", body, h.giveBack)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, err = doRequest(e, http.MethodGet, "/loans?open=true", "", h.list)
	require.NoError(t, err)
	var records []*models.BorrowRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	assert.Empty(t, records)
}

func TestHandler_BorrowRequiresIDs(t *testing.T) {
	h, e := setupTestHandler(t)

	_, err := doRequest(e, http.MethodPost, "/loans/borrow", `{"member_id":1}`, h.borrow)
	assert.ErrorIs(t, err, errcodes.ValidationError(`"book_id" is required`))
}
