package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solarify-backend-go/internal/core"
	"solarify-backend-go/internal/models"
)

// RFQHandler handles HTTP requests for requests-for-quote.
type RFQHandler struct {
	rfqService core.RFQService
	logger     *zap.Logger
}

// NewRFQHandler creates a new instance of RFQHandler.
func NewRFQHandler(rfqService core.RFQService, logger *zap.Logger) *RFQHandler {
	return &RFQHandler{rfqService: rfqService, logger: logger}
}

func mapRFQErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrRFQNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "RFQ not found"})
	case errors.Is(err, core.ErrNotRFQOwner), errors.Is(err, core.ErrNotInvitedInstaller), errors.Is(err, core.ErrWrongRole):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Access denied", Details: err.Error()})
	case errors.Is(err, core.ErrRFQNotEditable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "RFQ can no longer be changed", Details: err.Error()})
	case errors.Is(err, core.ErrNoInstallersSelected):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "At least one installer must be selected"})
	case errors.Is(err, core.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid amount", Details: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected error occurred", Details: err.Error()})
	}
}

// Create creates a draft RFQ for the authenticated homeowner.
func (h *RFQHandler) Create(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	var req models.CreateRFQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	rfq, err := h.rfqService.Create(c.Request.Context(), userID.(string), req)
	if err != nil {
		h.logger.Error("Failed to create RFQ", zap.String("userID", userID.(string)), zap.Error(err))
		mapRFQErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusCreated, rfq)
}

// Get returns a single RFQ visible to the caller.
func (h *RFQHandler) Get(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}
	rfqID := c.Param("rfqId")

	rfq, err := h.rfqService.Get(c.Request.Context(), userID.(string), rfqID)
	if err != nil {
		mapRFQErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, rfq)
}

// Update edits a draft or pending RFQ.
func (h *RFQHandler) Update(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}
	rfqID := c.Param("rfqId")

	var req models.UpdateRFQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	rfq, err := h.rfqService.Update(c.Request.Context(), userID.(string), rfqID, req)
	if err != nil {
		h.logger.Error("Failed to update RFQ", zap.String("rfqID", rfqID), zap.Error(err))
		mapRFQErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, rfq)
}

// Submit moves a draft RFQ to pending, making it visible to invited installers.
func (h *RFQHandler) Submit(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}
	rfqID := c.Param("rfqId")

	rfq, err := h.rfqService.Submit(c.Request.Context(), userID.(string), rfqID)
	if err != nil {
		h.logger.Error("Failed to submit RFQ", zap.String("rfqID", rfqID), zap.Error(err))
		mapRFQErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, rfq)
}

// Delete removes an RFQ that has not been quoted yet.
func (h *RFQHandler) Delete(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}
	rfqID := c.Param("rfqId")

	if err := h.rfqService.Delete(c.Request.Context(), userID.(string), rfqID); err != nil {
		h.logger.Error("Failed to delete RFQ", zap.String("rfqID", rfqID), zap.Error(err))
		mapRFQErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "RFQ deleted successfully"})
}

// ListMine returns the authenticated homeowner's RFQs, newest first.
func (h *RFQHandler) ListMine(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	rfqs, err := h.rfqService.ListMine(c.Request.Context(), userID.(string))
	if err != nil {
		h.logger.Error("Failed to list RFQs", zap.String("userID", userID.(string)), zap.Error(err))
		mapRFQErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, rfqs)
}

// Inbox returns pending RFQs the authenticated installer is invited to.
// Pass ?sort=budget to order by the highest budget instead of recency.
func (h *RFQHandler) Inbox(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	sortByBudget := c.Query("sort") == "budget"

	rfqs, err := h.rfqService.Inbox(c.Request.Context(), userID.(string), sortByBudget)
	if err != nil {
		h.logger.Error("Failed to list RFQ inbox", zap.String("userID", userID.(string)), zap.Error(err))
		mapRFQErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, rfqs)
}

// Decline removes the installer from an RFQ's candidate pool.
func (h *RFQHandler) Decline(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}
	rfqID := c.Param("rfqId")

	if err := h.rfqService.Decline(c.Request.Context(), userID.(string), rfqID); err != nil {
		h.logger.Error("Failed to decline RFQ", zap.String("rfqID", rfqID), zap.Error(err))
		mapRFQErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "RFQ declined"})
}
