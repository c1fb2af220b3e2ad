package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"solarify-backend-go/internal/models"
)

const rfqsCollection = "rfqs"

// firestoreRFQRepository implements the RFQRepository interface using Firestore.
type firestoreRFQRepository struct {
	client *firestore.Client
}

// NewFirestoreRFQRepository creates a new instance of firestoreRFQRepository.
func NewFirestoreRFQRepository(client *firestore.Client) RFQRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for RFQRepository.")
	}
	return &firestoreRFQRepository{client: client}
}

// Create adds a new RFQ document with an auto-generated ID.
func (r *firestoreRFQRepository) Create(ctx context.Context, rfq *models.RFQ) (string, error) {
	docRef := r.client.Collection(rfqsCollection).NewDoc()
	rfq.ID = docRef.ID
	if _, err := docRef.Create(ctx, rfq); err != nil {
		return "", fmt.Errorf("failed to create rfq: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves an RFQ document by its ID.
func (r *firestoreRFQRepository) GetByID(ctx context.Context, rfqID string) (*models.RFQ, error) {
	if rfqID == "" {
		return nil, errors.New("rfqID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(rfqsCollection).Doc(rfqID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("rfq with ID '%s' not found: %w", rfqID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get rfq with ID '%s': %w", rfqID, err)
	}

	var rfq models.RFQ
	if err := docSnap.DataTo(&rfq); err != nil {
		return nil, fmt.Errorf("failed to decode rfq data for ID '%s': %w", rfqID, err)
	}
	rfq.ID = docSnap.Ref.ID
	return &rfq, nil
}

// Update overwrites the RFQ document with the given state.
func (r *firestoreRFQRepository) Update(ctx context.Context, rfq *models.RFQ) error {
	if rfq.ID == "" {
		return errors.New("rfq ID cannot be empty for Update operation")
	}
	if _, err := r.client.Collection(rfqsCollection).Doc(rfq.ID).Set(ctx, rfq); err != nil {
		return fmt.Errorf("failed to update rfq with ID '%s': %w", rfq.ID, err)
	}
	return nil
}

// Delete removes the RFQ document.
func (r *firestoreRFQRepository) Delete(ctx context.Context, rfqID string) error {
	if rfqID == "" {
		return errors.New("rfqID cannot be empty for Delete operation")
	}
	if _, err := r.client.Collection(rfqsCollection).Doc(rfqID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete rfq with ID '%s': %w", rfqID, err)
	}
	return nil
}

// ListByHomeowner returns the homeowner's RFQs, newest first.
func (r *firestoreRFQRepository) ListByHomeowner(ctx context.Context, homeownerID string) ([]*models.RFQ, error) {
	if homeownerID == "" {
		return nil, errors.New("homeownerID cannot be empty for ListByHomeowner operation")
	}
	query := r.client.Collection(rfqsCollection).
		Where("homeownerId", "==", homeownerID).
		OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, query, "homeowner "+homeownerID)
}

// ListPendingForInstaller returns pending RFQs fanned out to the installer.
// Declined RFQs are filtered in memory: Firestore cannot combine an
// array-contains on installerIds with a not-in on declinedBy.
func (r *firestoreRFQRepository) ListPendingForInstaller(ctx context.Context, installerID string, sortByBudget bool) ([]*models.RFQ, error) {
	if installerID == "" {
		return nil, errors.New("installerID cannot be empty for ListPendingForInstaller operation")
	}
	query := r.client.Collection(rfqsCollection).
		Where("status", "==", string(models.RFQStatusPending)).
		Where("installerIds", "array-contains", installerID)
	if sortByBudget {
		query = query.OrderBy("budgetMaxUSD", firestore.Desc)
	} else {
		query = query.OrderBy("createdAt", firestore.Desc)
	}

	rfqs, err := r.collect(ctx, query, "installer "+installerID)
	if err != nil {
		return nil, err
	}
	visible := rfqs[:0]
	for _, rfq := range rfqs {
		if !rfq.DeclinedByInstaller(installerID) {
			visible = append(visible, rfq)
		}
	}
	return visible, nil
}

// CountByHomeowner counts the homeowner's RFQs with a keys-only query.
func (r *firestoreRFQRepository) CountByHomeowner(ctx context.Context, homeownerID string) (int, error) {
	if homeownerID == "" {
		return 0, errors.New("homeownerID cannot be empty for CountByHomeowner operation")
	}
	iter := r.client.Collection(rfqsCollection).
		Where("homeownerId", "==", homeownerID).
		Select().
		Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to count rfqs for homeowner '%s': %w", homeownerID, err)
		}
		count++
	}
	return count, nil
}

func (r *firestoreRFQRepository) collect(ctx context.Context, query firestore.Query, scope string) ([]*models.RFQ, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var rfqs []*models.RFQ
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate rfqs for %s: %w", scope, err)
		}
		var rfq models.RFQ
		if err := doc.DataTo(&rfq); err != nil {
			log.Printf("Error decoding rfq data (ID: %s) for %s: %v. Skipping.", doc.Ref.ID, scope, err)
			continue
		}
		rfq.ID = doc.Ref.ID
		rfqs = append(rfqs, &rfq)
	}
	return rfqs, nil
}
