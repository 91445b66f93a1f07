package borrowers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type handler struct {
	borrowerService *Service
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	params := RegisterBorrowerPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	borrower, err := h.borrowerService.RegisterBorrower(ctx, RegisterBorrowerOptions{
		Name:  params.Name,
		Email: params.Email,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	log.Info("borrower registered", logger.Data{"borrower_id": borrower.ID})

	return errors.WithStack(c.JSON(http.StatusCreated, borrower))
}
