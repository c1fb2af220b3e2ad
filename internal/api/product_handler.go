package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solarify-backend-go/internal/core"
	"solarify-backend-go/internal/models"
)

// ProductHandler handles HTTP requests for the equipment catalog.
type ProductHandler struct {
	productService core.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new instance of ProductHandler.
func NewProductHandler(productService core.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{productService: productService, logger: logger}
}

func mapProductErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrProductNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Product not found"})
	case errors.Is(err, core.ErrNotProductOwner), errors.Is(err, core.ErrWrongRole):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Access denied", Details: err.Error()})
	case errors.Is(err, core.ErrInvalidCategory), errors.Is(err, core.ErrInvalidWattage), errors.Is(err, core.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid product data", Details: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected error occurred", Details: err.Error()})
	}
}

// Create adds a catalog listing for the authenticated supplier.
func (h *ProductHandler) Create(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	product, err := h.productService.Create(c.Request.Context(), userID.(string), req)
	if err != nil {
		h.logger.Error("Failed to create product", zap.String("userID", userID.(string)), zap.Error(err))
		mapProductErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// Get returns a single catalog listing. Public.
func (h *ProductHandler) Get(c *gin.Context) {
	productID := c.Param("productId")

	product, err := h.productService.Get(c.Request.Context(), productID)
	if err != nil {
		mapProductErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// Update edits one of the supplier's own listings.
func (h *ProductHandler) Update(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}
	productID := c.Param("productId")

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	product, err := h.productService.Update(c.Request.Context(), userID.(string), productID, req)
	if err != nil {
		h.logger.Error("Failed to update product", zap.String("productID", productID), zap.Error(err))
		mapProductErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// Delete removes one of the supplier's own listings.
func (h *ProductHandler) Delete(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}
	productID := c.Param("productId")

	if err := h.productService.Delete(c.Request.Context(), userID.(string), productID); err != nil {
		h.logger.Error("Failed to delete product", zap.String("productID", productID), zap.Error(err))
		mapProductErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Product deleted successfully"})
}

// List returns catalog listings, optionally filtered by supplier or
// category, paginated with ?startAfter=<lastProductId>. Public.
func (h *ProductHandler) List(c *gin.Context) {
	filter := core.ProductListFilter{
		SupplierID:  c.Query("supplierId"),
		Category:    c.Query("category"),
		MaxPriceUSD: c.Query("maxPrice"),
		StartAfter:  c.Query("startAfter"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit parameter"})
			return
		}
		filter.Limit = limit
	}

	products, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		mapProductErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}
