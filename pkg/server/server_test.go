package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shishobooks/circulation/pkg/config"
	"github.com/shishobooks/circulation/pkg/errcodes"
	"github.com/shishobooks/circulation/pkg/metrics"
	"github.com/shishobooks/circulation/pkg/models"
	"github.com/shishobooks/circulation/pkg/testutils/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t        *testing.T
	e        *echo.Echo
	registry *metrics.Registry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	registry := metrics.NewRegistry()
	e, err := newEcho(config.NewForTest(), testdb.New(t), registry)
	require.NoError(t, err)
	return &testServer{t: t, e: e, registry: registry}
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	ts.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rr := httptest.NewRecorder()
	ts.e.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) addBook(title, author string) models.Book {
	ts.t.Helper()
	rr := ts.do(http.MethodPost, "/api/books", fmt.Sprintf(`{"title":%q,"author":%q}`, title, author))
	require.Equal(ts.t, http.StatusCreated, rr.Code, rr.Body.String())
	var book models.Book
	require.NoError(ts.t, json.Unmarshal(rr.Body.Bytes(), &book))
	return book
}

func (ts *testServer) addBorrower(name, email string) models.Borrower {
	ts.t.Helper()
	rr := ts.do(http.MethodPost, "/api/borrowers", fmt.Sprintf(`{"name":%q,"email":%q}`, name, email))
	require.Equal(ts.t, http.StatusCreated, rr.Code, rr.Body.String())
	var borrower models.Borrower
	require.NoError(ts.t, json.Unmarshal(rr.Body.Bytes(), &borrower))
	return borrower
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestScenario_BorrowThenListBorrowedBooks(t *testing.T) {
	ts := newTestServer(t)
	book := ts.addBook("1984", "Orwell")
	borrower := ts.addBorrower("X", "x@example.com")

	rr := ts.do(http.MethodPost, fmt.Sprintf("/api/books/%d/borrow/%d", book.ID, borrower.ID), "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = ts.do(http.MethodGet, fmt.Sprintf("/api/borrowers/%d/books", borrower.ID), "")
	require.Equal(t, http.StatusOK, rr.Code)
	held := decode[[]models.Book](t, rr)
	require.Len(t, held, 1)
	assert.Equal(t, book.ID, held[0].ID)
	assert.False(t, held[0].Available)
}

func TestScenario_DuplicateEmail(t *testing.T) {
	ts := newTestServer(t)
	ts.addBorrower("A", "a@x.com")

	rr := ts.do(http.MethodPost, "/api/borrowers", `{"name":"B","email":"a@x.com"}`)
	require.Equal(t, http.StatusConflict, rr.Code)
	payload := decode[errcodes.Payload](t, rr)
	assert.Equal(t, "duplicate_email", payload.Code)
	assert.Equal(t, http.StatusConflict, payload.Status)
	assert.False(t, payload.Timestamp.IsZero())
}

func TestScenario_BorrowMissingBook(t *testing.T) {
	ts := newTestServer(t)
	borrower := ts.addBorrower("X", "x@example.com")

	rr := ts.do(http.MethodPost, fmt.Sprintf("/api/books/999/borrow/%d", borrower.ID), "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	payload := decode[errcodes.Payload](t, rr)
	assert.Equal(t, "Book Not Found", payload.Error)
	assert.Contains(t, payload.Message, "999")
}

func TestScenario_BorrowByMissingBorrower(t *testing.T) {
	ts := newTestServer(t)
	book := ts.addBook("Dune", "Herbert")

	rr := ts.do(http.MethodPost, fmt.Sprintf("/api/books/%d/borrow/999", book.ID), "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "borrower_not_found", decode[errcodes.Payload](t, rr).Code)

	rr = ts.do(http.MethodGet, "/api/books", "")
	require.Equal(t, http.StatusOK, rr.Code)
	all := decode[[]models.Book](t, rr)
	require.Len(t, all, 1)
	assert.True(t, all[0].Available)
	assert.Nil(t, all[0].BorrowerID)
}

func TestScenario_TwoBorrowersTwoBooks(t *testing.T) {
	ts := newTestServer(t)
	first := ts.addBook("First", "A")
	second := ts.addBook("Second", "B")
	alice := ts.addBorrower("Alice", "alice@example.com")
	bob := ts.addBorrower("Bob", "bob@example.com")

	rr := ts.do(http.MethodPost, fmt.Sprintf("/api/books/%d/borrow/%d", first.ID, alice.ID), "")
	require.Equal(t, http.StatusOK, rr.Code)
	rr = ts.do(http.MethodPost, fmt.Sprintf("/api/books/%d/borrow", second.ID), fmt.Sprintf(`{"borrower_id":%d}`, bob.ID))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	all := decode[[]models.Book](t, ts.do(http.MethodGet, "/api/books", ""))
	require.Len(t, all, 2)
	holders := map[int]int{}
	for _, b := range all {
		assert.False(t, b.Available)
		require.NotNil(t, b.BorrowerID)
		holders[b.ID] = *b.BorrowerID
	}
	assert.Equal(t, map[int]int{first.ID: alice.ID, second.ID: bob.ID}, holders)
}

func TestValidationErrorPayload(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(http.MethodPost, "/api/books", `{"title":"","author":"  "}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	for _, key := range []string{"timestamp", "status", "error", "code", "message", "validation_errors"} {
		assert.Contains(t, raw, key)
	}
	assert.NotContains(t, raw, "reference")
	assert.Equal(t, "Validation Failed", raw["error"])
}

func TestUnsupportedMediaType(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/borrowers", strings.NewReader("<borrower/>"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationXML)
	rr := httptest.NewRecorder()
	ts.e.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(http.MethodGet, "/api/nothing-here", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Page not found.", decode[errcodes.Payload](t, rr).Message)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMetricsRoute(t *testing.T) {
	ts := newTestServer(t)
	book := ts.addBook("Emma", "Austen")
	borrower := ts.addBorrower("X", "x@example.com")
	ts.do(http.MethodPost, fmt.Sprintf("/api/books/%d/borrow/%d", book.ID, borrower.ID), "")
	ts.do(http.MethodPost, fmt.Sprintf("/api/books/%d/return", book.ID), "")

	rr := ts.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	snapshot := decode[metrics.Snapshot](t, rr)
	assert.Equal(t, int64(1), snapshot.CounterValue(metrics.BooksAddedTotal, nil))
	assert.Equal(t, int64(1), snapshot.CounterValue(metrics.BorrowersCreatedTotal, nil))
	assert.Equal(t, int64(1), snapshot.CounterValue(metrics.BooksBorrowedTotal, nil))
	assert.Equal(t, int64(1), snapshot.CounterValue(metrics.BooksReturnedTotal, nil))
}

func TestMetricsDisabled(t *testing.T) {
	e, err := newEcho(config.NewForTest(), testdb.New(t), nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteTestData(t *testing.T) {
	ts := newTestServer(t)
	book := ts.addBook("Emma", "Austen")
	borrower := ts.addBorrower("X", "x@example.com")
	ts.do(http.MethodPost, fmt.Sprintf("/api/books/%d/borrow/%d", book.ID, borrower.ID), "")

	rr := ts.do(http.MethodDelete, "/test/data", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"books":1,"borrowers":1}`, rr.Body.String())

	assert.JSONEq(t, `[]`, ts.do(http.MethodGet, "/api/books", "").Body.String())
	assert.JSONEq(t, `[]`, ts.do(http.MethodGet, "/api/borrowers", "").Body.String())
}

func TestNew(t *testing.T) {
	cfg := config.NewForTest()
	cfg.ServerPort = 4000
	srv, err := New(cfg, testdb.New(t), nil)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:4000", srv.Addr)
}
