package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solarify-backend-go/internal/core"
	"solarify-backend-go/internal/models"
)

// PromotionHandler handles HTTP requests for supplier promotions.
type PromotionHandler struct {
	promotionService core.PromotionService
	logger           *zap.Logger
}

// NewPromotionHandler creates a new instance of PromotionHandler.
func NewPromotionHandler(promotionService core.PromotionService, logger *zap.Logger) *PromotionHandler {
	return &PromotionHandler{promotionService: promotionService, logger: logger}
}

func mapPromotionErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrPromotionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Promotion not found"})
	case errors.Is(err, core.ErrNotPromotionOwner), errors.Is(err, core.ErrWrongRole):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Access denied", Details: err.Error()})
	case errors.Is(err, core.ErrInvalidPromotion), errors.Is(err, core.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid promotion", Details: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected error occurred", Details: err.Error()})
	}
}

// Create adds a promotion for the authenticated supplier.
func (h *PromotionHandler) Create(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	var req models.CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	promo, err := h.promotionService.Create(c.Request.Context(), userID.(string), req)
	if err != nil {
		h.logger.Error("Failed to create promotion", zap.String("userID", userID.(string)), zap.Error(err))
		mapPromotionErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusCreated, promo)
}

// Update edits one of the supplier's own promotions.
func (h *PromotionHandler) Update(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}
	promotionID := c.Param("promotionId")

	var req models.UpdatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	promo, err := h.promotionService.Update(c.Request.Context(), userID.(string), promotionID, req)
	if err != nil {
		h.logger.Error("Failed to update promotion", zap.String("promotionID", promotionID), zap.Error(err))
		mapPromotionErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, promo)
}

// Delete removes one of the supplier's own promotions.
func (h *PromotionHandler) Delete(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}
	promotionID := c.Param("promotionId")

	if err := h.promotionService.Delete(c.Request.Context(), userID.(string), promotionID); err != nil {
		h.logger.Error("Failed to delete promotion", zap.String("promotionID", promotionID), zap.Error(err))
		mapPromotionErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Promotion deleted successfully"})
}

// ListMine returns the authenticated supplier's promotions.
func (h *PromotionHandler) ListMine(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	promos, err := h.promotionService.ListMine(c.Request.Context(), userID.(string))
	if err != nil {
		h.logger.Error("Failed to list promotions", zap.String("userID", userID.(string)), zap.Error(err))
		mapPromotionErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, promos)
}

// ListActive returns promotions currently in their active window, optionally
// filtered with ?supplierId=. Public.
func (h *PromotionHandler) ListActive(c *gin.Context) {
	promos, err := h.promotionService.ListActive(c.Request.Context(), time.Now().UTC(), c.Query("supplierId"))
	if err != nil {
		h.logger.Error("Failed to list active promotions", zap.Error(err))
		mapPromotionErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, promos)
}
