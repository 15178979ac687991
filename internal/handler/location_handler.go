package handler

import (
	"net/http"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /locations の拠点レジストリAPI
type LocationHandler struct {
	uc *usecase.LocationUsecase
}

// DI
func NewLocationHandler(uc *usecase.LocationUsecase) *LocationHandler {
	return &LocationHandler{uc: uc}
}

func (h *LocationHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/locations", h.create)
	e.GET("/locations", h.list)
	e.GET("/locations/:id", h.get)
	e.POST("/locations/:id/deactivate", h.deactivate)
}

type createLocationRequest struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	ShipEnabled   bool    `json:"ship_enabled"`
	PickupEnabled bool    `json:"pickup_enabled"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Priority      int     `json:"priority"`
}

func (h *LocationHandler) create(c echo.Context) error {
	var req createLocationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Create(c.Request().Context(), usecase.CreateLocationInput{
		Name:          req.Name,
		Type:          model.LocationType(req.Type),
		ShipEnabled:   req.ShipEnabled,
		PickupEnabled: req.PickupEnabled,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Priority:      req.Priority,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *LocationHandler) list(c echo.Context) error {
	activeOnly := c.QueryParam("active") != "false"

	out, err := h.uc.List(c.Request().Context(), activeOnly)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *LocationHandler) get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *LocationHandler) deactivate(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Deactivate(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
