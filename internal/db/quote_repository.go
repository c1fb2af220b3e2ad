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

const quotesCollection = "quotes"

// firestoreQuoteRepository implements the QuoteRepository interface using Firestore.
type firestoreQuoteRepository struct {
	client *firestore.Client
}

// NewFirestoreQuoteRepository creates a new instance of firestoreQuoteRepository.
func NewFirestoreQuoteRepository(client *firestore.Client) QuoteRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for QuoteRepository.")
	}
	return &firestoreQuoteRepository{client: client}
}

// Create adds a new quote document with an auto-generated ID.
func (r *firestoreQuoteRepository) Create(ctx context.Context, quote *models.Quote) (string, error) {
	docRef := r.client.Collection(quotesCollection).NewDoc()
	quote.ID = docRef.ID
	if _, err := docRef.Create(ctx, quote); err != nil {
		return "", fmt.Errorf("failed to create quote: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a quote document by its ID.
func (r *firestoreQuoteRepository) GetByID(ctx context.Context, quoteID string) (*models.Quote, error) {
	if quoteID == "" {
		return nil, errors.New("quoteID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(quotesCollection).Doc(quoteID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("quote with ID '%s' not found: %w", quoteID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get quote with ID '%s': %w", quoteID, err)
	}

	var quote models.Quote
	if err := docSnap.DataTo(&quote); err != nil {
		return nil, fmt.Errorf("failed to decode quote data for ID '%s': %w", quoteID, err)
	}
	quote.ID = docSnap.Ref.ID
	return &quote, nil
}

// Update overwrites the quote document with the given state.
func (r *firestoreQuoteRepository) Update(ctx context.Context, quote *models.Quote) error {
	if quote.ID == "" {
		return errors.New("quote ID cannot be empty for Update operation")
	}
	if _, err := r.client.Collection(quotesCollection).Doc(quote.ID).Set(ctx, quote); err != nil {
		return fmt.Errorf("failed to update quote with ID '%s': %w", quote.ID, err)
	}
	return nil
}

// ListByRFQ returns all quotes submitted against an RFQ, newest first.
func (r *firestoreQuoteRepository) ListByRFQ(ctx context.Context, rfqID string) ([]*models.Quote, error) {
	if rfqID == "" {
		return nil, errors.New("rfqID cannot be empty for ListByRFQ operation")
	}
	query := r.client.Collection(quotesCollection).
		Where("rfqId", "==", rfqID).
		OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, query, "rfq "+rfqID)
}

// ListByInstaller returns all quotes submitted by an installer, newest first.
func (r *firestoreQuoteRepository) ListByInstaller(ctx context.Context, installerID string) ([]*models.Quote, error) {
	if installerID == "" {
		return nil, errors.New("installerID cannot be empty for ListByInstaller operation")
	}
	query := r.client.Collection(quotesCollection).
		Where("installerId", "==", installerID).
		OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, query, "installer "+installerID)
}

func (r *firestoreQuoteRepository) collect(ctx context.Context, query firestore.Query, scope string) ([]*models.Quote, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var quotes []*models.Quote
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate quotes for %s: %w", scope, err)
		}
		var quote models.Quote
		if err := doc.DataTo(&quote); err != nil {
			log.Printf("Error decoding quote data (ID: %s) for %s: %v. Skipping.", doc.Ref.ID, scope, err)
			continue
		}
		quote.ID = doc.Ref.ID
		quotes = append(quotes, &quote)
	}
	return quotes, nil
}
