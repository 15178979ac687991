package handler

import (
	"errors"
	"net/http"
	"strconv"

	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// usecaseのエラー種別をHTTPステータスへ写す
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	switch {
	case errors.Is(err, repo.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, repo.ErrContention):
		//リトライ上限まで競合が続いた。呼び出し側で再試行できる。
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "contention"})
	case errors.Is(err, usecase.ErrInsufficientStock),
		errors.Is(err, usecase.ErrReservationMismatch),
		errors.Is(err, usecase.ErrNegativeOnHand),
		errors.Is(err, usecase.ErrInsufficientSourceStock),
		errors.Is(err, usecase.ErrCodeMismatch),
		errors.Is(err, usecase.ErrInvalidState):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrInvalidReleaseQuantity):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrNoFulfillableLocation):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// /stock の在庫エンジンAPI
type StockHandler struct {
	uc *usecase.ReservationUsecase
}

// DI
func NewStockHandler(uc *usecase.ReservationUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

func (h *StockHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/stock/reserve", h.reserve)
	e.POST("/stock/release", h.release)
	e.POST("/stock/confirm", h.confirm)
	e.POST("/stock/adjust", h.adjust)
	e.GET("/stock/:variant_id", h.get)
	e.GET("/stock/:variant_id/movements", h.listMovements)
}

type reserveRequest struct {
	VariantID  int64  `json:"variant_id"`
	LocationID int64  `json:"location_id"`
	Quantity   int64  `json:"quantity"`
	OrderRef   string `json:"order_ref"`
}

func (h *StockHandler) reserve(c echo.Context) error {
	var req reserveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Reserve(c.Request().Context(), usecase.ReserveInput{
		VariantID:  req.VariantID,
		LocationID: req.LocationID,
		Quantity:   req.Quantity,
		OrderRef:   req.OrderRef,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

type releaseRequest struct {
	VariantID  int64 `json:"variant_id"`
	LocationID int64 `json:"location_id"`
	Quantity   int64 `json:"quantity"`
}

func (h *StockHandler) release(c echo.Context) error {
	var req releaseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Release(c.Request().Context(), usecase.ReleaseInput{
		VariantID:  req.VariantID,
		LocationID: req.LocationID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

type confirmRequest struct {
	VariantID     int64  `json:"variant_id"`
	LocationID    int64  `json:"location_id"`
	Quantity      int64  `json:"quantity"`
	ReferenceType string `json:"reference_type"`
	ReferenceID   string `json:"reference_id"`
}

func (h *StockHandler) confirm(c echo.Context) error {
	var req confirmRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Confirm(c.Request().Context(), usecase.ConfirmInput{
		VariantID:     req.VariantID,
		LocationID:    req.LocationID,
		Quantity:      req.Quantity,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

type adjustRequest struct {
	VariantID     int64  `json:"variant_id"`
	LocationID    int64  `json:"location_id"`
	Delta         int64  `json:"delta"`
	Originator    string `json:"originator"`
	ReferenceType string `json:"reference_type"`
	ReferenceID   string `json:"reference_id"`
}

func (h *StockHandler) adjust(c echo.Context) error {
	var req adjustRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Adjust(c.Request().Context(), usecase.AdjustInput{
		VariantID:     req.VariantID,
		LocationID:    req.LocationID,
		Delta:         req.Delta,
		Originator:    req.Originator,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *StockHandler) get(c echo.Context) error {
	variantID, err := strconv.ParseInt(c.Param("variant_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid variant_id"})
	}

	var locationID int64
	if v := c.QueryParam("location_id"); v != "" {
		locationID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid location_id"})
		}
	}

	out, err := h.uc.GetStock(c.Request().Context(), variantID, locationID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *StockHandler) listMovements(c echo.Context) error {
	variantID, err := strconv.ParseInt(c.Param("variant_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid variant_id"})
	}

	locationID, err := strconv.ParseInt(c.QueryParam("location_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid location_id"})
	}

	var limit int
	if v := c.QueryParam("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
	}

	out, err := h.uc.ListMovements(c.Request().Context(), variantID, locationID, limit)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
