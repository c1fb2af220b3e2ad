package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solarify-backend-go/internal/core"
	"solarify-backend-go/internal/models"
)

// ReviewHandler handles HTTP requests for reviews and ratings.
type ReviewHandler struct {
	reviewService core.ReviewService
	logger        *zap.Logger
}

// NewReviewHandler creates a new instance of ReviewHandler.
func NewReviewHandler(reviewService core.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, logger: logger}
}

func mapReviewErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrUserNotFound), errors.Is(err, core.ErrProductNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Review target not found", Details: err.Error()})
	case errors.Is(err, core.ErrDuplicateReview):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "You have already reviewed this target"})
	case errors.Is(err, core.ErrSelfReview):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "You cannot review yourself"})
	case errors.Is(err, core.ErrInvalidReviewTarget):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid review target", Details: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected error occurred", Details: err.Error()})
	}
}

// Create posts a review from the authenticated user.
func (h *ReviewHandler) Create(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), userID.(string), req)
	if err != nil {
		h.logger.Error("Failed to create review", zap.String("userID", userID.(string)), zap.Error(err))
		mapReviewErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

type reviewListResponse struct {
	Reviews []*models.Review      `json:"reviews"`
	Summary *models.RatingSummary `json:"summary"`
}

// ListForTarget returns reviews and the rating summary for an installer,
// supplier, or product. Public.
func (h *ReviewHandler) ListForTarget(c *gin.Context) {
	targetType := models.ReviewTarget(c.Param("targetType"))
	targetID := c.Param("targetId")

	reviews, summary, err := h.reviewService.ListForTarget(c.Request.Context(), targetType, targetID)
	if err != nil {
		h.logger.Error("Failed to list reviews", zap.String("targetID", targetID), zap.Error(err))
		mapReviewErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, reviewListResponse{Reviews: reviews, Summary: summary})
}
