package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"solarify-backend-go/internal/models"
)

const reviewsCollection = "reviews"

// firestoreReviewRepository implements the ReviewRepository interface using Firestore.
type firestoreReviewRepository struct {
	client *firestore.Client
}

// NewFirestoreReviewRepository creates a new instance of firestoreReviewRepository.
func NewFirestoreReviewRepository(client *firestore.Client) ReviewRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ReviewRepository.")
	}
	return &firestoreReviewRepository{client: client}
}

// Create adds a new review document with an auto-generated ID.
func (r *firestoreReviewRepository) Create(ctx context.Context, review *models.Review) (string, error) {
	docRef := r.client.Collection(reviewsCollection).NewDoc()
	review.ID = docRef.ID
	if _, err := docRef.Create(ctx, review); err != nil {
		return "", fmt.Errorf("failed to create review: %w", err)
	}
	return docRef.ID, nil
}

// GetByReviewerAndTarget returns the reviewer's existing review of the target,
// or ErrNotFound when they have not reviewed it yet.
func (r *firestoreReviewRepository) GetByReviewerAndTarget(ctx context.Context, reviewerID string, targetType models.ReviewTarget, targetID string) (*models.Review, error) {
	if reviewerID == "" || targetID == "" {
		return nil, errors.New("reviewerID and targetID cannot be empty for GetByReviewerAndTarget operation")
	}
	iter := r.client.Collection(reviewsCollection).
		Where("reviewerId", "==", reviewerID).
		Where("targetType", "==", string(targetType)).
		Where("targetId", "==", targetID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, fmt.Errorf("review by '%s' for %s '%s' not found: %w", reviewerID, targetType, targetID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query review by '%s': %w", reviewerID, err)
	}

	var review models.Review
	if err := doc.DataTo(&review); err != nil {
		return nil, fmt.Errorf("failed to decode review data for ID '%s': %w", doc.Ref.ID, err)
	}
	review.ID = doc.Ref.ID
	return &review, nil
}

// ListByTarget returns all reviews of a target, newest first.
func (r *firestoreReviewRepository) ListByTarget(ctx context.Context, targetType models.ReviewTarget, targetID string) ([]*models.Review, error) {
	if targetID == "" {
		return nil, errors.New("targetID cannot be empty for ListByTarget operation")
	}
	iter := r.client.Collection(reviewsCollection).
		Where("targetType", "==", string(targetType)).
		Where("targetId", "==", targetID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var reviews []*models.Review
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate reviews for %s '%s': %w", targetType, targetID, err)
		}
		var review models.Review
		if err := doc.DataTo(&review); err != nil {
			log.Printf("Error decoding review data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		review.ID = doc.Ref.ID
		reviews = append(reviews, &review)
	}
	return reviews, nil
}
