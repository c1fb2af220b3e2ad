package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"solarify-backend-go/internal/db"
	"solarify-backend-go/internal/models"
)

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

// ErrNotProductOwner is returned when a supplier acts on another supplier's
// product.
var ErrNotProductOwner = errors.New("product belongs to another supplier")

// ErrInvalidCategory is returned when a request names an unknown product
// category.
var ErrInvalidCategory = errors.New("invalid product category")

// ErrInvalidWattage is returned when a panel's rated wattage is outside the
// plausible range.
var ErrInvalidWattage = errors.New("panel wattage must be between 50 and 1000 W")

const (
	minPanelWattage = 50
	maxPanelWattage = 1000
)

// validateWattage bounds the rated wattage for categories where it is
// meaningful. Only panels carry a bound; other categories may omit it.
func validateWattage(category models.ProductCategory, wattageW int) error {
	if category != models.CategoryPanel {
		return nil
	}
	if wattageW < minPanelWattage || wattageW > maxPanelWattage {
		return fmt.Errorf("wattageW %d: %w", wattageW, ErrInvalidWattage)
	}
	return nil
}

// productService implements the ProductService interface.
type productService struct {
	productRepo db.ProductRepository
	userRepo    db.UserRepository
}

// NewProductService creates a new ProductService instance.
func NewProductService(productRepo db.ProductRepository, userRepo db.UserRepository) ProductService {
	return &productService{productRepo: productRepo, userRepo: userRepo}
}

func (s *productService) requireSupplier(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user '%s': %w", userID, err)
	}
	if user.Role != models.RoleSupplier {
		return fmt.Errorf("user '%s' has role '%s': %w", userID, user.Role, ErrWrongRole)
	}
	return nil
}

// Create adds a catalog entry for the supplier.
func (s *productService) Create(ctx context.Context, supplierID string, req models.CreateProductRequest) (*models.Product, error) {
	if err := s.requireSupplier(ctx, supplierID); err != nil {
		return nil, err
	}
	if !req.Category.Valid() {
		return nil, fmt.Errorf("category '%s': %w", req.Category, ErrInvalidCategory)
	}
	if err := validateWattage(req.Category, req.WattageW); err != nil {
		return nil, err
	}
	price, err := parseAmount("priceUSD", req.PriceUSD)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		SupplierID:    supplierID,
		SKU:           req.SKU,
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		Manufacturer:  req.Manufacturer,
		WattageW:      req.WattageW,
		PriceUSD:      price.StringFixed(2),
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	if _, err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// Get returns a catalog entry. The catalog is public.
func (s *productService) Get(ctx context.Context, productID string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product '%s': %w", productID, err)
	}
	return product, nil
}

// Update applies changes to the supplier's own catalog entry.
func (s *productService) Update(ctx context.Context, supplierID, productID string, req models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.SupplierID != supplierID {
		return nil, ErrNotProductOwner
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Manufacturer != nil {
		product.Manufacturer = *req.Manufacturer
	}
	if req.WattageW != nil {
		if err := validateWattage(product.Category, *req.WattageW); err != nil {
			return nil, err
		}
		product.WattageW = *req.WattageW
	}
	if req.PriceUSD != nil {
		price, err := parseAmount("priceUSD", *req.PriceUSD)
		if err != nil {
			return nil, err
		}
		product.PriceUSD = price.StringFixed(2)
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product '%s': %w", productID, err)
	}
	return product, nil
}

// Delete removes the supplier's own catalog entry.
func (s *productService) Delete(ctx context.Context, supplierID, productID string) error {
	product, err := s.Get(ctx, productID)
	if err != nil {
		return err
	}
	if product.SupplierID != supplierID {
		return ErrNotProductOwner
	}
	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return fmt.Errorf("failed to delete product '%s': %w", productID, err)
	}
	return nil
}

// List returns catalog entries matching the filter.
func (s *productService) List(ctx context.Context, filter ProductListFilter) ([]*models.Product, error) {
	if filter.Category != "" && !models.ProductCategory(filter.Category).Valid() {
		return nil, fmt.Errorf("category '%s': %w", filter.Category, ErrInvalidCategory)
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	products, err := s.productRepo.List(ctx, db.ProductFilter{
		SupplierID: filter.SupplierID,
		Category:   models.ProductCategory(filter.Category),
		Limit:      filter.Limit,
		StartAfter: filter.StartAfter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	// Prices are stored as decimal strings, so the price cap is applied here
	// rather than in the Firestore query.
	if filter.MaxPriceUSD != "" {
		maxPrice, err := parseAmount("maxPriceUSD", filter.MaxPriceUSD)
		if err != nil {
			return nil, err
		}
		kept := products[:0]
		for _, product := range products {
			price, err := decimal.NewFromString(product.PriceUSD)
			if err != nil {
				continue
			}
			if price.LessThanOrEqual(maxPrice) {
				kept = append(kept, product)
			}
		}
		products = kept
	}
	return products, nil
}
