package metrics

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	registry *Registry
}

func (h *handler) snapshot(c echo.Context) error {
	snapshot, err := h.registry.Snapshot(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.JSON(http.StatusOK, snapshot))
}
