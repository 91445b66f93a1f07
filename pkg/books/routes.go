package books

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/circulation/pkg/metrics"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the catalog's write routes. Reads live in
// the queries package.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, collector metrics.Collector) {
	bookService := NewService(db, collector)

	h := &handler{
		bookService: bookService,
	}

	g.POST("", h.create)
}
