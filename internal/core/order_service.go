package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"solarify-backend-go/internal/db"
	"solarify-backend-go/internal/models"
)

// ErrOrderNotFound is returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// ErrNotOrderParty is returned when a user acts on an order they are neither
// buyer nor supplier of.
var ErrNotOrderParty = errors.New("user is not a party to this order")

// ErrIllegalOrderTransition is returned for a status change the lifecycle
// does not allow.
var ErrIllegalOrderTransition = errors.New("illegal order status transition")

// ErrWrongSupplier is returned when an ordered product belongs to a
// different supplier than the order names.
var ErrWrongSupplier = errors.New("product belongs to a different supplier")

// OrderPricing holds the order-level charges applied at checkout.
type OrderPricing struct {
	TaxRate         decimal.Decimal // e.g. 0.0825
	FlatShippingUSD decimal.Decimal
}

// orderService implements the OrderService interface.
type orderService struct {
	orderRepo   db.OrderRepository
	productRepo db.ProductRepository
	promoRepo   db.PromotionRepository
	userRepo    db.UserRepository
	pricing     OrderPricing
	now         func() time.Time
}

// NewOrderService creates a new OrderService instance.
func NewOrderService(orderRepo db.OrderRepository, productRepo db.ProductRepository, promoRepo db.PromotionRepository, userRepo db.UserRepository, pricing OrderPricing) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		promoRepo:   promoRepo,
		userRepo:    userRepo,
		pricing:     pricing,
		now:         time.Now,
	}
}

// Create places an order against one supplier's catalog. Unit prices are
// snapshotted from the catalog, the best active promotion per product is
// applied, and order totals are computed server-side.
func (s *orderService) Create(ctx context.Context, buyerID string, req models.CreateOrderRequest) (*models.Order, error) {
	promos, err := s.promoRepo.ListActive(ctx, s.now(), req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active promotions for supplier '%s': %w", req.SupplierID, err)
	}

	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return nil, fmt.Errorf("product '%s': %w", line.ProductID, ErrProductNotFound)
			}
			return nil, fmt.Errorf("failed to load product '%s': %w", line.ProductID, err)
		}
		if product.SupplierID != req.SupplierID {
			return nil, fmt.Errorf("product '%s': %w", line.ProductID, ErrWrongSupplier)
		}
		if product.StockQuantity < line.Quantity {
			return nil, fmt.Errorf("product '%s' has %d in stock, %d requested: %w",
				line.ProductID, product.StockQuantity, line.Quantity, db.ErrInsufficientStock)
		}

		unitPrice, err := parseAmount("priceUSD", product.PriceUSD)
		if err != nil {
			return nil, fmt.Errorf("catalog price for product '%s' is corrupt: %w", product.ID, err)
		}
		unitPrice, promoID, err := applyBestPromotion(unitPrice, product.ID, promos)
		if err != nil {
			return nil, err
		}

		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		subtotal = subtotal.Add(lineTotal)
		items = append(items, models.OrderItem{
			ProductID:    product.ID,
			ProductName:  product.Name,
			SKU:          product.SKU,
			Quantity:     line.Quantity,
			UnitPriceUSD: unitPrice.StringFixed(2),
			LineTotalUSD: lineTotal.StringFixed(2),
			PromotionID:  promoID,
		})
	}

	shipping := s.pricing.FlatShippingUSD.Round(2)
	tax := subtotal.Mul(s.pricing.TaxRate).Round(2)
	total := subtotal.Add(shipping).Add(tax)

	order := &models.Order{
		OrderNumber:     "ORD-" + strings.ToUpper(uuid.NewString()[:8]),
		BuyerID:         buyerID,
		SupplierID:      req.SupplierID,
		Items:           items,
		SubtotalUSD:     subtotal.StringFixed(2),
		ShippingUSD:     shipping.StringFixed(2),
		TaxUSD:          tax.StringFixed(2),
		TotalUSD:        total.StringFixed(2),
		Status:          models.OrderStatusPending,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
		CreatedAt:       s.now().UTC(),
		UpdatedAt:       s.now().UTC(),
	}
	if _, err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return order, nil
}

// applyBestPromotion returns the lowest unit price any applicable promotion
// yields, with the winning promotion's ID. Prices never go below zero.
func applyBestPromotion(unitPrice decimal.Decimal, productID string, promos []*models.Promotion) (decimal.Decimal, string, error) {
	best := unitPrice
	bestID := ""
	for _, promo := range promos {
		if !promo.AppliesTo(productID) {
			continue
		}
		discounted := unitPrice
		switch {
		case promo.DiscountPercent != "":
			pct, err := decimal.NewFromString(promo.DiscountPercent)
			if err != nil {
				return decimal.Zero, "", fmt.Errorf("promotion '%s' has corrupt discountPercent: %w", promo.ID, ErrInvalidAmount)
			}
			discounted = unitPrice.Sub(unitPrice.Mul(pct).Div(decimal.NewFromInt(100))).Round(2)
		case promo.DiscountAmountUSD != "":
			amt, err := decimal.NewFromString(promo.DiscountAmountUSD)
			if err != nil {
				return decimal.Zero, "", fmt.Errorf("promotion '%s' has corrupt discountAmountUSD: %w", promo.ID, ErrInvalidAmount)
			}
			discounted = unitPrice.Sub(amt)
		}
		if discounted.IsNegative() {
			discounted = decimal.Zero
		}
		if discounted.LessThan(best) {
			best = discounted
			bestID = promo.ID
		}
	}
	return best, bestID, nil
}

func (s *orderService) load(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order '%s': %w", orderID, err)
	}
	return order, nil
}

// Get returns the order if the user is its buyer or supplier.
func (s *orderService) Get(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != userID && order.SupplierID != userID {
		return nil, ErrNotOrderParty
	}
	return order, nil
}

// ListMine lists the buyer's orders.
func (s *orderService) ListMine(ctx context.Context, buyerID string) ([]*models.Order, error) {
	orders, err := s.orderRepo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for buyer '%s': %w", buyerID, err)
	}
	return orders, nil
}

// ListForSupplier lists the supplier's incoming orders.
func (s *orderService) ListForSupplier(ctx context.Context, supplierID string) ([]*models.Order, error) {
	orders, err := s.orderRepo.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for supplier '%s': %w", supplierID, err)
	}
	return orders, nil
}

// UpdateStatus moves the order along its lifecycle. The supplier confirms
// and ships, the buyer marks delivery, and either party may cancel before
// shipment. Confirmation decrements stock atomically; cancelling a
// confirmed order restores it.
func (s *orderService) UpdateStatus(ctx context.Context, actorID, orderID string, next models.OrderStatus) (*models.Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != actorID && order.SupplierID != actorID {
		return nil, ErrNotOrderParty
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%s -> %s: %w", order.Status, next, ErrIllegalOrderTransition)
	}

	switch next {
	case models.OrderStatusConfirmed:
		if order.SupplierID != actorID {
			return nil, fmt.Errorf("only the supplier can confirm: %w", ErrWrongRole)
		}
		if err := s.orderRepo.ConfirmWithStock(ctx, order); err != nil {
			return nil, err
		}
	case models.OrderStatusShipped:
		if order.SupplierID != actorID {
			return nil, fmt.Errorf("only the supplier can mark shipped: %w", ErrWrongRole)
		}
		order.Status = next
		order.UpdatedAt = s.now().UTC()
		if err := s.orderRepo.Update(ctx, order); err != nil {
			return nil, fmt.Errorf("failed to mark order '%s' shipped: %w", orderID, err)
		}
	case models.OrderStatusDelivered:
		if order.BuyerID != actorID {
			return nil, fmt.Errorf("only the buyer can confirm delivery: %w", ErrWrongRole)
		}
		order.Status = next
		order.UpdatedAt = s.now().UTC()
		if err := s.orderRepo.Update(ctx, order); err != nil {
			return nil, fmt.Errorf("failed to mark order '%s' delivered: %w", orderID, err)
		}
	case models.OrderStatusCancelled:
		restock := order.Status == models.OrderStatusConfirmed
		if err := s.orderRepo.CancelWithStockRestore(ctx, order, restock); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("status '%s': %w", next, ErrIllegalOrderTransition)
	}

	return order, nil
}
