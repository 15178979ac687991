package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /transfers の拠点間転送API
type TransferHandler struct {
	uc *usecase.TransferUsecase
}

// DI
func NewTransferHandler(uc *usecase.TransferUsecase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

func (h *TransferHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/transfers", h.create)
	e.GET("/transfers/:id", h.get)
	e.POST("/transfers/:id/initiate", h.initiate)
	e.POST("/transfers/:id/receive", h.receive)
	e.POST("/transfers/:id/cancel", h.cancel)
}

type createTransferRequest struct {
	SourceLocationID      int64 `json:"source_location_id"`
	DestinationLocationID int64 `json:"destination_location_id"`
	VariantID             int64 `json:"variant_id"`
	ExpectedQuantity      int64 `json:"expected_quantity"`
}

func (h *TransferHandler) create(c echo.Context) error {
	var req createTransferRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Create(c.Request().Context(), usecase.CreateTransferInput{
		SourceLocationID:      req.SourceLocationID,
		DestinationLocationID: req.DestinationLocationID,
		VariantID:             req.VariantID,
		ExpectedQuantity:      req.ExpectedQuantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *TransferHandler) get(c echo.Context) error {
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

func (h *TransferHandler) initiate(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Initiate(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

type receiveTransferRequest struct {
	ActualQuantity int64 `json:"actual_quantity"`
}

func (h *TransferHandler) receive(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req receiveTransferRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Receive(c.Request().Context(), id, req.ActualQuantity)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *TransferHandler) cancel(c echo.Context) error {
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
