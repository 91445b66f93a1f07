package queries

import (
	"github.com/labstack/echo/v4"
	"github.com/shishobooks/circulation/pkg/metrics"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the read routes on the books and borrowers groups.
func RegisterRoutes(booksGroup, borrowersGroup *echo.Group, db *bun.DB, collector metrics.Collector) {
	h := &handler{
		queryService: NewService(db, collector),
	}

	booksGroup.GET("", h.listBooks)

	borrowersGroup.GET("", h.listBorrowers)
	borrowersGroup.GET("/:id", h.retrieveBorrower)
	borrowersGroup.GET("/:id/books", h.borrowedBooks)
}
