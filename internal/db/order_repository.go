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

const ordersCollection = "orders"

// ErrInsufficientStock is returned when an order cannot be confirmed because
// a product's stock is lower than the ordered quantity.
var ErrInsufficientStock = errors.New("insufficient stock for product")

// firestoreOrderRepository implements the OrderRepository interface using Firestore.
type firestoreOrderRepository struct {
	client *firestore.Client
}

// NewFirestoreOrderRepository creates a new instance of firestoreOrderRepository.
func NewFirestoreOrderRepository(client *firestore.Client) OrderRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for OrderRepository.")
	}
	return &firestoreOrderRepository{client: client}
}

// Create adds a new order document with an auto-generated ID.
func (r *firestoreOrderRepository) Create(ctx context.Context, order *models.Order) (string, error) {
	docRef := r.client.Collection(ordersCollection).NewDoc()
	order.ID = docRef.ID
	if _, err := docRef.Create(ctx, order); err != nil {
		return "", fmt.Errorf("failed to create order: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves an order document by its ID.
func (r *firestoreOrderRepository) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	if orderID == "" {
		return nil, errors.New("orderID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(ordersCollection).Doc(orderID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("order with ID '%s' not found: %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order with ID '%s': %w", orderID, err)
	}

	var order models.Order
	if err := docSnap.DataTo(&order); err != nil {
		return nil, fmt.Errorf("failed to decode order data for ID '%s': %w", orderID, err)
	}
	order.ID = docSnap.Ref.ID
	return &order, nil
}

// Update overwrites the order document with the given state.
func (r *firestoreOrderRepository) Update(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		return errors.New("order ID cannot be empty for Update operation")
	}
	if _, err := r.client.Collection(ordersCollection).Doc(order.ID).Set(ctx, order); err != nil {
		return fmt.Errorf("failed to update order with ID '%s': %w", order.ID, err)
	}
	return nil
}

// ListByBuyer returns the buyer's orders, newest first.
func (r *firestoreOrderRepository) ListByBuyer(ctx context.Context, buyerID string) ([]*models.Order, error) {
	if buyerID == "" {
		return nil, errors.New("buyerID cannot be empty for ListByBuyer operation")
	}
	query := r.client.Collection(ordersCollection).
		Where("buyerId", "==", buyerID).
		OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, query, "buyer "+buyerID)
}

// ListBySupplier returns the supplier's orders, newest first.
func (r *firestoreOrderRepository) ListBySupplier(ctx context.Context, supplierID string) ([]*models.Order, error) {
	if supplierID == "" {
		return nil, errors.New("supplierID cannot be empty for ListBySupplier operation")
	}
	query := r.client.Collection(ordersCollection).
		Where("supplierId", "==", supplierID).
		OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, query, "supplier "+supplierID)
}

// ConfirmWithStock atomically decrements stock for every line item and marks
// the order confirmed. If any product lacks stock the whole transaction is
// rolled back and ErrInsufficientStock is returned.
func (r *firestoreOrderRepository) ConfirmWithStock(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		return errors.New("order ID cannot be empty for ConfirmWithStock operation")
	}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// All reads must happen before any write inside a transaction.
		type stockUpdate struct {
			ref      *firestore.DocumentRef
			newStock int
		}
		updates := make([]stockUpdate, 0, len(order.Items))
		for _, item := range order.Items {
			productRef := r.client.Collection(productsCollection).Doc(item.ProductID)
			productSnap, err := tx.Get(productRef)
			if err != nil {
				if status.Code(err) == codes.NotFound {
					return fmt.Errorf("product '%s' not found: %w", item.ProductID, ErrNotFound)
				}
				return fmt.Errorf("failed to read product '%s': %w", item.ProductID, err)
			}
			var product models.Product
			if err := productSnap.DataTo(&product); err != nil {
				return fmt.Errorf("failed to decode product '%s': %w", item.ProductID, err)
			}
			if product.StockQuantity < item.Quantity {
				return fmt.Errorf("product '%s' has %d in stock, %d requested: %w",
					item.ProductID, product.StockQuantity, item.Quantity, ErrInsufficientStock)
			}
			updates = append(updates, stockUpdate{
				ref:      productRef,
				newStock: product.StockQuantity - item.Quantity,
			})
		}

		for _, u := range updates {
			if err := tx.Update(u.ref, []firestore.Update{
				{Path: "stockQuantity", Value: u.newStock},
			}); err != nil {
				return fmt.Errorf("failed to decrement stock: %w", err)
			}
		}

		orderRef := r.client.Collection(ordersCollection).Doc(order.ID)
		if err := tx.Update(orderRef, []firestore.Update{
			{Path: "status", Value: string(models.OrderStatusConfirmed)},
			{Path: "updatedAt", Value: firestore.ServerTimestamp},
		}); err != nil {
			return fmt.Errorf("failed to mark order confirmed: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	order.Status = models.OrderStatusConfirmed
	return nil
}

// CancelWithStockRestore marks the order cancelled and, when restock is true,
// returns each line item's quantity to the product's stock in the same
// transaction.
func (r *firestoreOrderRepository) CancelWithStockRestore(ctx context.Context, order *models.Order, restock bool) error {
	if order.ID == "" {
		return errors.New("order ID cannot be empty for CancelWithStockRestore operation")
	}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		type stockUpdate struct {
			ref      *firestore.DocumentRef
			newStock int
		}
		var updates []stockUpdate
		if restock {
			for _, item := range order.Items {
				productRef := r.client.Collection(productsCollection).Doc(item.ProductID)
				productSnap, err := tx.Get(productRef)
				if err != nil {
					if status.Code(err) == codes.NotFound {
						// Product was deleted after the order confirmed. Nothing
						// to restock for this line.
						continue
					}
					return fmt.Errorf("failed to read product '%s': %w", item.ProductID, err)
				}
				var product models.Product
				if err := productSnap.DataTo(&product); err != nil {
					return fmt.Errorf("failed to decode product '%s': %w", item.ProductID, err)
				}
				updates = append(updates, stockUpdate{
					ref:      productRef,
					newStock: product.StockQuantity + item.Quantity,
				})
			}
		}

		for _, u := range updates {
			if err := tx.Update(u.ref, []firestore.Update{
				{Path: "stockQuantity", Value: u.newStock},
			}); err != nil {
				return fmt.Errorf("failed to restore stock: %w", err)
			}
		}

		orderRef := r.client.Collection(ordersCollection).Doc(order.ID)
		if err := tx.Update(orderRef, []firestore.Update{
			{Path: "status", Value: string(models.OrderStatusCancelled)},
			{Path: "updatedAt", Value: firestore.ServerTimestamp},
		}); err != nil {
			return fmt.Errorf("failed to mark order cancelled: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	order.Status = models.OrderStatusCancelled
	return nil
}

func (r *firestoreOrderRepository) collect(ctx context.Context, query firestore.Query, scope string) ([]*models.Order, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var orders []*models.Order
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate orders for %s: %w", scope, err)
		}
		var order models.Order
		if err := doc.DataTo(&order); err != nil {
			log.Printf("Error decoding order data (ID: %s) for %s: %v. Skipping.", doc.Ref.ID, scope, err)
			continue
		}
		order.ID = doc.Ref.ID
		orders = append(orders, &order)
	}
	return orders, nil
}
