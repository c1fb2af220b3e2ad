package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solarify-backend-go/internal/core"
	"solarify-backend-go/internal/db"
	"solarify-backend-go/internal/models"
)

// OrderHandler handles HTTP requests for equipment orders.
type OrderHandler struct {
	orderService core.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new instance of OrderHandler.
func NewOrderHandler(orderService core.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orderService: orderService, logger: logger}
}

func mapOrderErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Order not found"})
	case errors.Is(err, core.ErrProductNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Product not found", Details: err.Error()})
	case errors.Is(err, core.ErrNotOrderParty), errors.Is(err, core.ErrWrongSupplier), errors.Is(err, core.ErrWrongRole):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Access denied", Details: err.Error()})
	case errors.Is(err, core.ErrIllegalOrderTransition):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Order cannot move to that status", Details: err.Error()})
	case errors.Is(err, db.ErrInsufficientStock):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Insufficient stock", Details: err.Error()})
	case errors.Is(err, core.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid order data", Details: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected error occurred", Details: err.Error()})
	}
}

// Create places an order against a single supplier's catalog.
func (h *OrderHandler) Create(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), userID.(string), req)
	if err != nil {
		h.logger.Error("Failed to create order", zap.String("userID", userID.(string)), zap.Error(err))
		mapOrderErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// Get returns a single order visible to its buyer or supplier.
func (h *OrderHandler) Get(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}
	orderID := c.Param("orderId")

	order, err := h.orderService.Get(c.Request.Context(), userID.(string), orderID)
	if err != nil {
		mapOrderErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListMine returns orders placed by the authenticated buyer.
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	orders, err := h.orderService.ListMine(c.Request.Context(), userID.(string))
	if err != nil {
		h.logger.Error("Failed to list orders", zap.String("userID", userID.(string)), zap.Error(err))
		mapOrderErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// ListReceived returns orders placed against the authenticated supplier.
func (h *OrderHandler) ListReceived(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	orders, err := h.orderService.ListForSupplier(c.Request.Context(), userID.(string))
	if err != nil {
		h.logger.Error("Failed to list received orders", zap.String("userID", userID.(string)), zap.Error(err))
		mapOrderErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// UpdateStatus advances an order through its lifecycle. Confirming an order
// also decrements stock, and cancelling a confirmed order restores it.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}
	orderID := c.Param("orderId")

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), userID.(string), orderID, req.Status)
	if err != nil {
		h.logger.Error("Failed to update order status",
			zap.String("orderID", orderID), zap.String("status", string(req.Status)), zap.Error(err))
		mapOrderErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}
