package lending

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/circulation/pkg/metrics"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the lending routes on the books group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, collector metrics.Collector) {
	h := &handler{
		engine: NewEngine(db, collector),
	}

	g.POST("/:id/borrow/:borrower_id", h.borrow)
	g.POST("/:id/borrow", h.borrowWithPayload)
	g.POST("/:id/return", h.returnBook)
}
