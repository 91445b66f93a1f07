package metrics

import (
	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, registry *Registry) {
	h := &handler{registry}

	e.GET("/metrics", h.snapshot)
}
