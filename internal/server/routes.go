package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	h.Stock.RegisterRoutes(e)
	h.Fulfillment.RegisterRoutes(e)
	h.Pickup.RegisterRoutes(e)
	h.Transfer.RegisterRoutes(e)
	h.Location.RegisterRoutes(e)
}
