package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solarify-backend-go/internal/core"
	"solarify-backend-go/internal/models"
)

// ContactHandler handles the public contact form.
type ContactHandler struct {
	contactService core.ContactService
	logger         *zap.Logger
}

// NewContactHandler creates a new instance of ContactHandler.
func NewContactHandler(contactService core.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{contactService: contactService, logger: logger}
}

// Submit accepts a contact-form message. Unauthenticated, rate limited by
// client IP.
func (h *ContactHandler) Submit(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	id, err := h.contactService.Submit(c.Request.Context(), req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, core.ErrRateLimited) {
			c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "Too many messages, please try again later"})
			return
		}
		h.logger.Error("Failed to save contact message", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected error occurred", Details: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Message: "Message received", Data: gin.H{"id": id}})
}
