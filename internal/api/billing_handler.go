package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solarify-backend-go/internal/core"
)

// BillingHandler exposes the solar billing and net metering calculators as
// action-dispatch endpoints. Responses always use the Envelope shape.
type BillingHandler struct {
	billingService core.BillingService
	logger         *zap.Logger
}

// NewBillingHandler creates a new instance of BillingHandler.
func NewBillingHandler(billingService core.BillingService, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{billingService: billingService, logger: logger}
}

// SolarBilling dispatches a solar billing calculator action.
func (h *BillingHandler) SolarBilling(c *gin.Context) {
	h.dispatch(c, h.billingService.DispatchSolarBilling)
}

// NetMetering dispatches a net metering calculator action.
func (h *BillingHandler) NetMetering(c *gin.Context) {
	h.dispatch(c, h.billingService.DispatchNetMetering)
}

func (h *BillingHandler) dispatch(c *gin.Context, fn func(ctx context.Context, action string, params []byte) (interface{}, error)) {
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, envelopeErr("invalid request body: "+err.Error()))
		return
	}

	result, err := fn(c.Request.Context(), req.Action, req.Params)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrUnknownAction):
			c.JSON(http.StatusBadRequest, envelopeErr(err.Error()))
		case errors.Is(err, core.ErrInvalidParams):
			c.JSON(http.StatusBadRequest, envelopeErr(err.Error()))
		default:
			h.logger.Error("Calculator dispatch failed", zap.String("action", req.Action), zap.Error(err))
			c.JSON(http.StatusInternalServerError, envelopeErr("calculation failed"))
		}
		return
	}

	c.JSON(http.StatusOK, envelopeOK(result))
}
