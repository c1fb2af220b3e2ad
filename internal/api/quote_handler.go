package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solarify-backend-go/internal/core"
	"solarify-backend-go/internal/models"
)

// QuoteHandler handles HTTP requests for installer quotes.
type QuoteHandler struct {
	quoteService core.QuoteService
	logger       *zap.Logger
}

// NewQuoteHandler creates a new instance of QuoteHandler.
func NewQuoteHandler(quoteService core.QuoteService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService, logger: logger}
}

func mapQuoteErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrQuoteNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Quote not found"})
	case errors.Is(err, core.ErrRFQNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "RFQ not found"})
	case errors.Is(err, core.ErrNotQuoteOwner), errors.Is(err, core.ErrNotRFQOwner),
		errors.Is(err, core.ErrNotInvitedInstaller), errors.Is(err, core.ErrWrongRole):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Access denied", Details: err.Error()})
	case errors.Is(err, core.ErrQuoteNotPending), errors.Is(err, core.ErrQuoteExpired),
		errors.Is(err, core.ErrRFQNotQuotable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Quote is not in a valid state for this action", Details: err.Error()})
	case errors.Is(err, core.ErrQuoteTotalMismatch), errors.Is(err, core.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid quote amounts", Details: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected error occurred", Details: err.Error()})
	}
}

// Submit creates a quote on an RFQ the authenticated installer was invited to.
func (h *QuoteHandler) Submit(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}
	rfqID := c.Param("rfqId")

	var req models.SubmitQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	quote, err := h.quoteService.Submit(c.Request.Context(), userID.(string), rfqID, req)
	if err != nil {
		h.logger.Error("Failed to submit quote", zap.String("rfqID", rfqID), zap.Error(err))
		mapQuoteErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusCreated, quote)
}

// Get returns a single quote visible to the caller.
func (h *QuoteHandler) Get(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}
	quoteID := c.Param("quoteId")

	quote, err := h.quoteService.Get(c.Request.Context(), userID.(string), quoteID)
	if err != nil {
		mapQuoteErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

// ListForRFQ returns all quotes on one of the homeowner's RFQs.
func (h *QuoteHandler) ListForRFQ(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}
	rfqID := c.Param("rfqId")

	quotes, err := h.quoteService.ListForRFQ(c.Request.Context(), userID.(string), rfqID)
	if err != nil {
		h.logger.Error("Failed to list quotes for RFQ", zap.String("rfqID", rfqID), zap.Error(err))
		mapQuoteErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, quotes)
}

// ListMine returns quotes submitted by the authenticated installer.
func (h *QuoteHandler) ListMine(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	quotes, err := h.quoteService.ListMine(c.Request.Context(), userID.(string))
	if err != nil {
		h.logger.Error("Failed to list quotes", zap.String("userID", userID.(string)), zap.Error(err))
		mapQuoteErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, quotes)
}

// Accept accepts a quote on behalf of the RFQ's homeowner.
func (h *QuoteHandler) Accept(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}
	quoteID := c.Param("quoteId")

	quote, err := h.quoteService.Accept(c.Request.Context(), userID.(string), quoteID)
	if err != nil {
		h.logger.Error("Failed to accept quote", zap.String("quoteID", quoteID), zap.Error(err))
		mapQuoteErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

// Reject declines a quote on behalf of the RFQ's homeowner.
func (h *QuoteHandler) Reject(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}
	quoteID := c.Param("quoteId")

	quote, err := h.quoteService.Reject(c.Request.Context(), userID.(string), quoteID)
	if err != nil {
		h.logger.Error("Failed to reject quote", zap.String("quoteID", quoteID), zap.Error(err))
		mapQuoteErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

// Withdraw withdraws the installer's own pending quote.
func (h *QuoteHandler) Withdraw(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}
	quoteID := c.Param("quoteId")

	quote, err := h.quoteService.Withdraw(c.Request.Context(), userID.(string), quoteID)
	if err != nil {
		h.logger.Error("Failed to withdraw quote", zap.String("quoteID", quoteID), zap.Error(err))
		mapQuoteErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}
