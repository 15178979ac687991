package server

import (
	"app/internal/handler"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Handlers struct {
	Stock       *handler.StockHandler
	Fulfillment *handler.FulfillmentHandler
	Pickup      *handler.PickupHandler
	Transfer    *handler.TransferHandler
	Location    *handler.LocationHandler
}

func Start(addr string, h Handlers) error {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	RegisterRoutes(e, h)
	return e.Start(addr)
}
