package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Snapshot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := NewRegistry()
	t.Cleanup(func() { _ = r.Shutdown(context.Background()) })

	c := r.Collector()
	c.IncrementCounter(ctx, BooksBorrowedTotal, nil)
	c.IncrementCounter(ctx, LendingOutcomesTotal, map[string]string{"operation": "borrow", "outcome": "success"})
	c.IncrementCounter(ctx, LendingOutcomesTotal, map[string]string{"operation": "return", "outcome": "success"})
	c.IncrementCounter(ctx, LendingOutcomesTotal, map[string]string{"operation": "borrow", "outcome": "book_already_borrowed"})
	c.RecordDuration(ctx, BookOperationDuration, 2*time.Second, map[string]string{"operation": "borrow"})

	snapshot, err := r.Snapshot(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(snapshot.Metrics))
	for _, m := range snapshot.Metrics {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{BookOperationDuration, BooksBorrowedTotal, LendingOutcomesTotal}, names)

	assert.Equal(t, int64(1), snapshot.CounterValue(BooksBorrowedTotal, nil))
	assert.Equal(t, int64(3), snapshot.CounterValue(LendingOutcomesTotal, nil))
	assert.Equal(t, int64(2), snapshot.CounterValue(LendingOutcomesTotal, map[string]string{"outcome": "success"}))
	assert.Equal(t, int64(0), snapshot.CounterValue(BooksReturnedTotal, nil))

	hist, ok := snapshot.Find(BookOperationDuration)
	require.True(t, ok)
	assert.Equal(t, KindHistogram, hist.Kind)
	require.Len(t, hist.Points, 1)
	assert.Equal(t, uint64(1), hist.Points[0].Count)
	assert.InDelta(t, 2.0, hist.Points[0].Sum, 0.001)
	assert.Equal(t, map[string]string{"operation": "borrow"}, hist.Points[0].Labels)
}

func TestRegisterRoutes(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	r.Collector().IncrementCounter(context.Background(), BooksAddedTotal, nil)

	e := echo.New()
	RegisterRoutes(e, r)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var snapshot Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snapshot))
	assert.Equal(t, int64(1), snapshot.CounterValue(BooksAddedTotal, nil))
}
