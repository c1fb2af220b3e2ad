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

// ErrPromotionNotFound is returned when a promotion is not found.
var ErrPromotionNotFound = errors.New("promotion not found")

// ErrNotPromotionOwner is returned when a supplier acts on another
// supplier's promotion.
var ErrNotPromotionOwner = errors.New("promotion belongs to another supplier")

// ErrInvalidPromotion is returned when a promotion's discount or window is
// malformed.
var ErrInvalidPromotion = errors.New("invalid promotion")

// promotionService implements the PromotionService interface.
type promotionService struct {
	promoRepo db.PromotionRepository
	userRepo  db.UserRepository
}

// NewPromotionService creates a new PromotionService instance.
func NewPromotionService(promoRepo db.PromotionRepository, userRepo db.UserRepository) PromotionService {
	return &promotionService{promoRepo: promoRepo, userRepo: userRepo}
}

// Create stores a new discount campaign. Exactly one discount form must be
// given and the window must be well ordered.
func (s *promotionService) Create(ctx context.Context, supplierID string, req models.CreatePromotionRequest) (*models.Promotion, error) {
	user, err := s.userRepo.GetByID(ctx, supplierID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user '%s': %w", supplierID, err)
	}
	if user.Role != models.RoleSupplier {
		return nil, fmt.Errorf("user '%s' has role '%s': %w", supplierID, user.Role, ErrWrongRole)
	}

	if err := validatePromotionTerms(req.DiscountPercent, req.DiscountAmountUSD, req.StartsAt, req.EndsAt); err != nil {
		return nil, err
	}

	promo := &models.Promotion{
		SupplierID:        supplierID,
		Name:              req.Name,
		Description:       req.Description,
		DiscountPercent:   req.DiscountPercent,
		DiscountAmountUSD: req.DiscountAmountUSD,
		ProductIDs:        req.ProductIDs,
		StartsAt:          req.StartsAt,
		EndsAt:            req.EndsAt,
		CreatedAt:         time.Now().UTC(),
		UpdatedAt:         time.Now().UTC(),
	}
	if _, err := s.promoRepo.Create(ctx, promo); err != nil {
		return nil, fmt.Errorf("failed to create promotion: %w", err)
	}
	return promo, nil
}

// validatePromotionTerms checks that exactly one discount form is set, the
// discount is in range and the window is well ordered.
func validatePromotionTerms(discountPercent, discountAmountUSD string, startsAt, endsAt time.Time) error {
	hasPercent := discountPercent != ""
	hasAmount := discountAmountUSD != ""
	if hasPercent == hasAmount {
		return fmt.Errorf("exactly one of discountPercent or discountAmountUSD must be set: %w", ErrInvalidPromotion)
	}
	if hasPercent {
		pct, err := decimal.NewFromString(discountPercent)
		if err != nil || pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("discountPercent '%s' is not in 0..100: %w", discountPercent, ErrInvalidPromotion)
		}
	}
	if hasAmount {
		if _, err := parseAmount("discountAmountUSD", discountAmountUSD); err != nil {
			return err
		}
	}
	if !endsAt.After(startsAt) {
		return fmt.Errorf("promotion window ends before it starts: %w", ErrInvalidPromotion)
	}
	return nil
}

// Update edits the supplier's own promotion. Omitted fields keep their
// stored values and the merged result must still be a valid promotion.
func (s *promotionService) Update(ctx context.Context, supplierID, promoID string, req models.UpdatePromotionRequest) (*models.Promotion, error) {
	promo, err := s.promoRepo.GetByID(ctx, promoID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrPromotionNotFound
		}
		return nil, fmt.Errorf("failed to load promotion '%s': %w", promoID, err)
	}
	if promo.SupplierID != supplierID {
		return nil, ErrNotPromotionOwner
	}

	if req.Name != nil {
		promo.Name = *req.Name
	}
	if req.Description != nil {
		promo.Description = *req.Description
	}
	if req.DiscountPercent != nil {
		promo.DiscountPercent = *req.DiscountPercent
	}
	if req.DiscountAmountUSD != nil {
		promo.DiscountAmountUSD = *req.DiscountAmountUSD
	}
	if req.ProductIDs != nil {
		promo.ProductIDs = req.ProductIDs
	}
	if req.StartsAt != nil {
		promo.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		promo.EndsAt = *req.EndsAt
	}

	if err := validatePromotionTerms(promo.DiscountPercent, promo.DiscountAmountUSD, promo.StartsAt, promo.EndsAt); err != nil {
		return nil, err
	}

	promo.UpdatedAt = time.Now().UTC()
	if err := s.promoRepo.Update(ctx, promo); err != nil {
		return nil, fmt.Errorf("failed to update promotion '%s': %w", promoID, err)
	}
	return promo, nil
}

// Delete removes the supplier's own promotion.
func (s *promotionService) Delete(ctx context.Context, supplierID, promoID string) error {
	promo, err := s.promoRepo.GetByID(ctx, promoID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrPromotionNotFound
		}
		return fmt.Errorf("failed to load promotion '%s': %w", promoID, err)
	}
	if promo.SupplierID != supplierID {
		return ErrNotPromotionOwner
	}
	if err := s.promoRepo.Delete(ctx, promoID); err != nil {
		return fmt.Errorf("failed to delete promotion '%s': %w", promoID, err)
	}
	return nil
}

// ListMine lists the supplier's promotions, active or not.
func (s *promotionService) ListMine(ctx context.Context, supplierID string) ([]*models.Promotion, error) {
	promos, err := s.promoRepo.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to list promotions for supplier '%s': %w", supplierID, err)
	}
	return promos, nil
}

// ListActive lists promotions whose window covers now.
func (s *promotionService) ListActive(ctx context.Context, now time.Time, supplierID string) ([]*models.Promotion, error) {
	promos, err := s.promoRepo.ListActive(ctx, now, supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active promotions: %w", err)
	}
	return promos, nil
}
