package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shishobooks/lending/pkg/config"
	"github.com/shishobooks/lending/pkg/database"
	"github.com/shishobooks/lending/pkg/errcodes"
	"github.com/shishobooks/lending/pkg/migrations"
	"github.com/shishobooks/lending/pkg/reports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := config.NewForTest()
	db, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	srv, err := New(cfg, db)
	require.NoError(t, err)

	return &testServer{t, srv.Handler}
}

func (s *testServer) do(method, target, body string, out interface{}) int {
	s.t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

func TestServer_LendingFlow(t *testing.T) {
	s := newTestServer(t)

	var member struct{ ID int }
	code := s.do(http.MethodPost, "/members", `{"name":"Ann","email":"ann@example.com"}`, &member)
	require.Equal(t, http.StatusCreated, code)

	var book struct {
		ID    int
		Stock int
	}
	code = s.do(http.MethodPost, "/books", `{"title":"Dune"}`, &book)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, 1, book.Stock)

	loan := `{"member_id":1,"book_id":1}`
	assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/loans/borrow", loan, nil))

	var errResp errcodes.ErrorPayload
	code = s.do(http.MethodPost, "/members", `{"name":"Bob","email":"ann@example.com"}`, &errResp)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "conflict", errResp.Error.Code)

	code = s.do(http.MethodDelete, "/books/1", "", &errResp)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "referential_integrity", errResp.Error.Code)

	var counts []*reports.BookBorrowCount
	code = s.do(http.MethodGet, "/reports/most-borrowed?limit=5", "", &counts)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, counts, 1)
	assert.Equal(t, 1, counts[0].TimesBorrowed)

	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/loans/return", loan, nil))

	code = s.do(http.MethodPost, "/loans/return", loan, &errResp)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Borrow record not found.", errResp.Error.Message)
}

func TestServer_OverdueWithSeededRecords(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/members", `{"name":"Ann","email":"ann@example.com"}`, nil))
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/books", `{"title":"Dune","stock":3}`, nil))

	borrowedAt := time.Now().UTC().AddDate(0, 0, -20).Format(time.RFC3339)
	code := s.do(http.MethodPost, "/test/borrow-records", `{"member_id":1,"book_id":1,"borrowed_at":"`+borrowedAt+`"}`, nil)
	require.Equal(t, http.StatusCreated, code)

	var records []*reports.OverdueRecord
	code = s.do(http.MethodGet, "/reports/overdue", "", &records)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, records, 1)
	assert.Equal(t, "Ann", records[0].MemberName)

	code = s.do(http.MethodGet, "/reports/overdue?days=30", "", &records)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, records)

	var deleted struct {
		BorrowRecords int `json:"borrow_records"`
		Members       int `json:"members"`
	}
	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/test/data", "", &deleted))
	assert.Equal(t, 1, deleted.BorrowRecords)
	assert.Equal(t, 1, deleted.Members)
}

func TestServer_InvoiceAndConfig(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/products", `{"name":"Pen","sku":"PEN-1","price_cents":10000,"stock":4}`, nil))
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/products", `{"name":"Pad","sku":"PAD-1","price_cents":5000}`, nil))

	var invoice struct {
		Number     string `json:"number"`
		TotalCents int64  `json:"total_cents"`
	}
	code := s.do(http.MethodPost, "/invoices", `{"lines":[{"product_id":1,"quantity":2},{"product_id":2,"quantity":1}],"discount_percent":10}`, &invoice)
	require.Equal(t, http.StatusCreated, code)
	assert.NotEmpty(t, invoice.Number)
	assert.Equal(t, int64(26550), invoice.TotalCents)

	var policy struct {
		OverdueThresholdDays int     `json:"overdue_threshold_days"`
		GSTPercent           float64 `json:"gst_percent"`
	}
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/config", "", &policy))
	assert.Equal(t, 14, policy.OverdueThresholdDays)
	assert.InDelta(t, 18, policy.GSTPercent, 0.001)
}

func TestServer_UnknownRoute(t *testing.T) {
	s := newTestServer(t)

	var errResp errcodes.ErrorPayload
	code := s.do(http.MethodGet, "/nope", "", &errResp)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Page not found.", errResp.Error.Message)
}
