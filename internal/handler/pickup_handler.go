package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /pickups の店舗受け取りAPI
type PickupHandler struct {
	uc *usecase.PickupUsecase
}

// DI
func NewPickupHandler(uc *usecase.PickupUsecase) *PickupHandler {
	return &PickupHandler{uc: uc}
}

func (h *PickupHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/pickups", h.create)
	e.GET("/pickups/:id", h.get)
	e.POST("/pickups/:id/ready", h.markReady)
	e.POST("/pickups/:id/complete", h.complete)
	e.POST("/pickups/:id/cancel", h.cancel)
}

type createPickupRequest struct {
	OrderRef   string                    `json:"order_ref"`
	LocationID int64                     `json:"location_id"`
	Items      []usecase.PickupItemInput `json:"items"`
}

func (h *PickupHandler) create(c echo.Context) error {
	var req createPickupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Create(c.Request().Context(), usecase.CreatePickupInput{
		OrderRef:   req.OrderRef,
		LocationID: req.LocationID,
		Items:      req.Items,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *PickupHandler) get(c echo.Context) error {
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

func (h *PickupHandler) markReady(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.MarkReady(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

type completePickupRequest struct {
	Code string `json:"code"`
}

func (h *PickupHandler) complete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req completePickupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Complete(c.Request().Context(), id, req.Code)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *PickupHandler) cancel(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Cancel(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
