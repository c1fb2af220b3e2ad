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

const productsCollection = "products"

// firestoreProductRepository implements the ProductRepository interface using Firestore.
type firestoreProductRepository struct {
	client *firestore.Client
}

// NewFirestoreProductRepository creates a new instance of firestoreProductRepository.
func NewFirestoreProductRepository(client *firestore.Client) ProductRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ProductRepository.")
	}
	return &firestoreProductRepository{client: client}
}

// Create adds a new product document with an auto-generated ID.
func (r *firestoreProductRepository) Create(ctx context.Context, product *models.Product) (string, error) {
	docRef := r.client.Collection(productsCollection).NewDoc()
	product.ID = docRef.ID
	if _, err := docRef.Create(ctx, product); err != nil {
		return "", fmt.Errorf("failed to create product: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a product document by its ID.
func (r *firestoreProductRepository) GetByID(ctx context.Context, productID string) (*models.Product, error) {
	if productID == "" {
		return nil, errors.New("productID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(productsCollection).Doc(productID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("product with ID '%s' not found: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product with ID '%s': %w", productID, err)
	}

	var product models.Product
	if err := docSnap.DataTo(&product); err != nil {
		return nil, fmt.Errorf("failed to decode product data for ID '%s': %w", productID, err)
	}
	product.ID = docSnap.Ref.ID
	return &product, nil
}

// Update overwrites the product document with the given state.
func (r *firestoreProductRepository) Update(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		return errors.New("product ID cannot be empty for Update operation")
	}
	if _, err := r.client.Collection(productsCollection).Doc(product.ID).Set(ctx, product); err != nil {
		return fmt.Errorf("failed to update product with ID '%s': %w", product.ID, err)
	}
	return nil
}

// Delete removes the product document.
func (r *firestoreProductRepository) Delete(ctx context.Context, productID string) error {
	if productID == "" {
		return errors.New("productID cannot be empty for Delete operation")
	}
	if _, err := r.client.Collection(productsCollection).Doc(productID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete product with ID '%s': %w", productID, err)
	}
	return nil
}

// List returns products matching the filter, newest first, with optional
// cursor pagination via the last document ID of the previous page.
func (r *firestoreProductRepository) List(ctx context.Context, filter ProductFilter) ([]*models.Product, error) {
	query := r.client.Collection(productsCollection).Query
	if filter.SupplierID != "" {
		query = query.Where("supplierId", "==", filter.SupplierID)
	}
	if filter.Category != "" {
		query = query.Where("category", "==", string(filter.Category))
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	if filter.StartAfter != "" {
		cursorSnap, err := r.client.Collection(productsCollection).Doc(filter.StartAfter).Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch pagination cursor '%s': %w", filter.StartAfter, err)
		}
		query = query.StartAfter(cursorSnap)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var products []*models.Product
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate products: %w", err)
		}
		var product models.Product
		if err := doc.DataTo(&product); err != nil {
			log.Printf("Error decoding product data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		product.ID = doc.Ref.ID
		products = append(products, &product)
	}
	return products, nil
}

// CountBySupplier counts the supplier's products with a keys-only query.
func (r *firestoreProductRepository) CountBySupplier(ctx context.Context, supplierID string) (int, error) {
	if supplierID == "" {
		return 0, errors.New("supplierID cannot be empty for CountBySupplier operation")
	}
	iter := r.client.Collection(productsCollection).
		Where("supplierId", "==", supplierID).
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
			return 0, fmt.Errorf("failed to count products for supplier '%s': %w", supplierID, err)
		}
		count++
	}
	return count, nil
}
