package queries

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shishobooks/circulation/pkg/errcodes"
)

type handler struct {
	queryService *Service
}

func (h *handler) listBooks(c echo.Context) error {
	ctx := c.Request().Context()

	books, err := h.queryService.ListBooks(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, books))
}

func (h *handler) listBorrowers(c echo.Context) error {
	ctx := c.Request().Context()

	borrowers, err := h.queryService.ListBorrowers(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, borrowers))
}

func (h *handler) retrieveBorrower(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Borrower")
	}

	borrower, err := h.queryService.RetrieveBorrower(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, borrower))
}

func (h *handler) borrowedBooks(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Borrower")
	}

	books, err := h.queryService.ListBorrowedBooks(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, books))
}
