package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"solarify-backend-go/internal/db"
	"solarify-backend-go/internal/models"
)

// ErrDuplicateReview is returned when a user reviews the same target twice.
var ErrDuplicateReview = errors.New("user already reviewed this target")

// ErrInvalidReviewTarget is returned when the review target does not exist
// or is not reviewable.
var ErrInvalidReviewTarget = errors.New("invalid review target")

// ErrSelfReview is returned when a user tries to review themselves.
var ErrSelfReview = errors.New("users cannot review themselves")

// reviewService implements the ReviewService interface.
type reviewService struct {
	reviewRepo  db.ReviewRepository
	userRepo    db.UserRepository
	productRepo db.ProductRepository
}

// NewReviewService creates a new ReviewService instance.
func NewReviewService(reviewRepo db.ReviewRepository, userRepo db.UserRepository, productRepo db.ProductRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, userRepo: userRepo, productRepo: productRepo}
}

// validateTarget verifies the target exists and matches its declared type.
func (s *reviewService) validateTarget(ctx context.Context, targetType models.ReviewTarget, targetID string) error {
	switch targetType {
	case models.TargetInstaller, models.TargetSupplier:
		user, err := s.userRepo.GetByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return fmt.Errorf("%s '%s' not found: %w", targetType, targetID, ErrInvalidReviewTarget)
			}
			return fmt.Errorf("failed to load review target '%s': %w", targetID, err)
		}
		want := models.RoleInstaller
		if targetType == models.TargetSupplier {
			want = models.RoleSupplier
		}
		if user.Role != want {
			return fmt.Errorf("user '%s' is not a %s: %w", targetID, targetType, ErrInvalidReviewTarget)
		}
	case models.TargetProduct:
		if _, err := s.productRepo.GetByID(ctx, targetID); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return fmt.Errorf("product '%s' not found: %w", targetID, ErrInvalidReviewTarget)
			}
			return fmt.Errorf("failed to load review target '%s': %w", targetID, err)
		}
	default:
		return fmt.Errorf("target type '%s': %w", targetType, ErrInvalidReviewTarget)
	}
	return nil
}

// Create posts a review. One review per (reviewer, target).
func (s *reviewService) Create(ctx context.Context, reviewerID string, req models.CreateReviewRequest) (*models.Review, error) {
	if !req.TargetType.Valid() {
		return nil, fmt.Errorf("target type '%s': %w", req.TargetType, ErrInvalidReviewTarget)
	}
	if req.TargetID == reviewerID {
		return nil, ErrSelfReview
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("rating %d is outside 1..5: %w", req.Rating, ErrInvalidReviewTarget)
	}
	if err := s.validateTarget(ctx, req.TargetType, req.TargetID); err != nil {
		return nil, err
	}

	_, err := s.reviewRepo.GetByReviewerAndTarget(ctx, reviewerID, req.TargetType, req.TargetID)
	if err == nil {
		return nil, ErrDuplicateReview
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing review: %w", err)
	}

	review := &models.Review{
		ReviewerID: reviewerID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Rating:     req.Rating,
		Title:      req.Title,
		Comment:    req.Comment,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	if _, err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

// ListForTarget returns a target's reviews with their aggregate rating.
func (s *reviewService) ListForTarget(ctx context.Context, targetType models.ReviewTarget, targetID string) ([]*models.Review, *models.RatingSummary, error) {
	if !targetType.Valid() {
		return nil, nil, fmt.Errorf("target type '%s': %w", targetType, ErrInvalidReviewTarget)
	}
	reviews, err := s.reviewRepo.ListByTarget(ctx, targetType, targetID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list reviews for %s '%s': %w", targetType, targetID, err)
	}

	summary := &models.RatingSummary{TargetType: targetType, TargetID: targetID, ReviewCount: len(reviews)}
	if len(reviews) > 0 {
		sum := 0
		for _, review := range reviews {
			sum += review.Rating
		}
		summary.AverageRating = float64(sum) / float64(len(reviews))
	}
	return reviews, summary, nil
}
