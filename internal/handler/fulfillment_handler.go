package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /fulfillment の拠点選定API
type FulfillmentHandler struct {
	uc *usecase.FulfillmentUsecase
}

// DI
func NewFulfillmentHandler(uc *usecase.FulfillmentUsecase) *FulfillmentHandler {
	return &FulfillmentHandler{uc: uc}
}

func (h *FulfillmentHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/fulfillment/select", h.selectLocation)
}

type selectLocationRequest struct {
	Strategy             string                     `json:"strategy"`
	VariantID            int64                      `json:"variant_id"`
	Quantity             int64                      `json:"quantity"`
	CandidateLocationIDs []int64                    `json:"candidate_location_ids,omitempty"`
	Context              usecase.FulfillmentContext `json:"context"`
}

func (h *FulfillmentHandler) selectLocation(c echo.Context) error {
	var req selectLocationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.SelectLocation(c.Request().Context(), usecase.SelectLocationInput{
		Strategy:             usecase.StrategyKind(req.Strategy),
		VariantID:            req.VariantID,
		Quantity:             req.Quantity,
		CandidateLocationIDs: req.CandidateLocationIDs,
		Context:              req.Context,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
