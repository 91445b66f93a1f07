package books

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type handler struct {
	bookService *Service
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	params := AddBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	// A blank ISBN means the book doesn't have one.
	if params.ISBN != nil && *params.ISBN == "" {
		params.ISBN = nil
	}

	book, err := h.bookService.AddBook(ctx, AddBookOptions{
		Title:  params.Title,
		Author: params.Author,
		ISBN:   params.ISBN,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	log.Info("book added", logger.Data{"book_id": book.ID})

	return errors.WithStack(c.JSON(http.StatusCreated, book))
}
