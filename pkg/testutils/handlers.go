package testutils

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/circulation/pkg/models"
	"github.com/uptrace/bun"
)

type handler struct {
	db *bun.DB
}

// deleteAllDataResponse is the response body for wiping the database.
type deleteAllDataResponse struct {
	Books     int `json:"books"`
	Borrowers int `json:"borrowers"`
}

// deleteAllData removes every book and borrower.
// DELETE /test/data.
func (h *handler) deleteAllData(c echo.Context) error {
	ctx := c.Request().Context()

	// Books first, they reference borrowers.
	result, err := h.db.NewDelete().
		Model((*models.Book)(nil)).
		Where("1=1").
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to delete books")
	}
	books, _ := result.RowsAffected()

	result, err = h.db.NewDelete().
		Model((*models.Borrower)(nil)).
		Where("1=1").
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to delete borrowers")
	}
	borrowers, _ := result.RowsAffected()

	return errors.WithStack(c.JSON(http.StatusOK, deleteAllDataResponse{
		Books:     int(books),
		Borrowers: int(borrowers),
	}))
}
