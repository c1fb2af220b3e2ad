package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"solarify-backend-go/internal/models"
)

const promotionsCollection = "promotions"

// firestorePromotionRepository implements the PromotionRepository interface using Firestore.
type firestorePromotionRepository struct {
	client *firestore.Client
}

// NewFirestorePromotionRepository creates a new instance of firestorePromotionRepository.
func NewFirestorePromotionRepository(client *firestore.Client) PromotionRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for PromotionRepository.")
	}
	return &firestorePromotionRepository{client: client}
}

// Create adds a new promotion document with an auto-generated ID.
func (r *firestorePromotionRepository) Create(ctx context.Context, promo *models.Promotion) (string, error) {
	docRef := r.client.Collection(promotionsCollection).NewDoc()
	promo.ID = docRef.ID
	if _, err := docRef.Create(ctx, promo); err != nil {
		return "", fmt.Errorf("failed to create promotion: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a promotion document by its ID.
func (r *firestorePromotionRepository) GetByID(ctx context.Context, promoID string) (*models.Promotion, error) {
	if promoID == "" {
		return nil, errors.New("promoID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(promotionsCollection).Doc(promoID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("promotion with ID '%s' not found: %w", promoID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get promotion with ID '%s': %w", promoID, err)
	}

	var promo models.Promotion
	if err := docSnap.DataTo(&promo); err != nil {
		return nil, fmt.Errorf("failed to decode promotion data for ID '%s': %w", promoID, err)
	}
	promo.ID = docSnap.Ref.ID
	return &promo, nil
}

// Update overwrites the promotion document with the given state.
func (r *firestorePromotionRepository) Update(ctx context.Context, promo *models.Promotion) error {
	if promo.ID == "" {
		return errors.New("promotion ID cannot be empty for Update operation")
	}
	if _, err := r.client.Collection(promotionsCollection).Doc(promo.ID).Set(ctx, promo); err != nil {
		return fmt.Errorf("failed to update promotion with ID '%s': %w", promo.ID, err)
	}
	return nil
}

// Delete removes the promotion document.
func (r *firestorePromotionRepository) Delete(ctx context.Context, promoID string) error {
	if promoID == "" {
		return errors.New("promoID cannot be empty for Delete operation")
	}
	if _, err := r.client.Collection(promotionsCollection).Doc(promoID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete promotion with ID '%s': %w", promoID, err)
	}
	return nil
}

// ListBySupplier returns the supplier's promotions, newest first.
func (r *firestorePromotionRepository) ListBySupplier(ctx context.Context, supplierID string) ([]*models.Promotion, error) {
	if supplierID == "" {
		return nil, errors.New("supplierID cannot be empty for ListBySupplier operation")
	}
	query := r.client.Collection(promotionsCollection).
		Where("supplierId", "==", supplierID).
		OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, query)
}

// ListActive returns promotions whose window covers now, optionally scoped to
// one supplier. The end-of-window bound is applied in memory because Firestore
// allows range filters on only one field per query.
func (r *firestorePromotionRepository) ListActive(ctx context.Context, now time.Time, supplierID string) ([]*models.Promotion, error) {
	query := r.client.Collection(promotionsCollection).
		Where("startsAt", "<=", now)
	if supplierID != "" {
		query = query.Where("supplierId", "==", supplierID)
	}

	promos, err := r.collect(ctx, query)
	if err != nil {
		return nil, err
	}
	active := promos[:0]
	for _, promo := range promos {
		if promo.ActiveAt(now) {
			active = append(active, promo)
		}
	}
	return active, nil
}

func (r *firestorePromotionRepository) collect(ctx context.Context, query firestore.Query) ([]*models.Promotion, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var promos []*models.Promotion
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate promotions: %w", err)
		}
		var promo models.Promotion
		if err := doc.DataTo(&promo); err != nil {
			log.Printf("Error decoding promotion data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		promo.ID = doc.Ref.ID
		promos = append(promos, &promo)
	}
	return promos, nil
}
