package borrowers

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/circulation/pkg/metrics"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the registry's write routes. Reads live in
// the queries package.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, collector metrics.Collector) {
	borrowerService := NewService(db, collector)

	h := &handler{
		borrowerService: borrowerService,
	}

	g.POST("", h.create)
}
