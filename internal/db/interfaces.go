package db

import (
	"context"
	"errors"
	"time"

	"solarify-backend-go/internal/models"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// UserRepository defines the interface for user data storage operations.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// RFQRepository defines the interface for RFQ storage operations.
type RFQRepository interface {
	Create(ctx context.Context, rfq *models.RFQ) (string, error)
	GetByID(ctx context.Context, rfqID string) (*models.RFQ, error)
	Update(ctx context.Context, rfq *models.RFQ) error
	Delete(ctx context.Context, rfqID string) error
	ListByHomeowner(ctx context.Context, homeownerID string) ([]*models.RFQ, error)
	// ListPendingForInstaller returns pending RFQs fanned out to the
	// installer. With sortByBudget the result is ordered by budget ceiling
	// descending, otherwise by creation time descending. RFQs the
	// installer already declined are filtered out.
	ListPendingForInstaller(ctx context.Context, installerID string, sortByBudget bool) ([]*models.RFQ, error)
	CountByHomeowner(ctx context.Context, homeownerID string) (int, error)
}

// QuoteRepository defines the interface for quote storage operations.
type QuoteRepository interface {
	Create(ctx context.Context, quote *models.Quote) (string, error)
	GetByID(ctx context.Context, quoteID string) (*models.Quote, error)
	Update(ctx context.Context, quote *models.Quote) error
	ListByRFQ(ctx context.Context, rfqID string) ([]*models.Quote, error)
	ListByInstaller(ctx context.Context, installerID string) ([]*models.Quote, error)
}

// ProductFilter narrows a catalog listing.
type ProductFilter struct {
	SupplierID string
	Category   models.ProductCategory
	Limit      int
	StartAfter string // document ID to resume after, for pagination
}

// ProductRepository defines the interface for catalog storage operations.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) (string, error)
	GetByID(ctx context.Context, productID string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, productID string) error
	List(ctx context.Context, filter ProductFilter) ([]*models.Product, error)
	CountBySupplier(ctx context.Context, supplierID string) (int, error)
}

// OrderRepository defines the interface for order storage operations.
// Stock-mutating transitions run inside a Firestore transaction so stock
// checks and decrements are atomic with the order status write.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) (string, error)
	GetByID(ctx context.Context, orderID string) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	ListByBuyer(ctx context.Context, buyerID string) ([]*models.Order, error)
	ListBySupplier(ctx context.Context, supplierID string) ([]*models.Order, error)
	// ConfirmWithStock transitions the order to confirmed, decrementing
	// stock for every line; fails with ErrInsufficientStock if any product
	// can't cover its line.
	ConfirmWithStock(ctx context.Context, order *models.Order) error
	// CancelWithStockRestore transitions the order to cancelled, restoring
	// stock when restock is true (the order had been confirmed).
	CancelWithStockRestore(ctx context.Context, order *models.Order, restock bool) error
}

// ReviewRepository defines the interface for review storage operations.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) (string, error)
	GetByReviewerAndTarget(ctx context.Context, reviewerID string, targetType models.ReviewTarget, targetID string) (*models.Review, error)
	ListByTarget(ctx context.Context, targetType models.ReviewTarget, targetID string) ([]*models.Review, error)
}

// PromotionRepository defines the interface for promotion storage operations.
type PromotionRepository interface {
	Create(ctx context.Context, promo *models.Promotion) (string, error)
	GetByID(ctx context.Context, promoID string) (*models.Promotion, error)
	Update(ctx context.Context, promo *models.Promotion) error
	Delete(ctx context.Context, promoID string) error
	ListBySupplier(ctx context.Context, supplierID string) ([]*models.Promotion, error)
	// ListActive returns promotions whose window covers now. With a
	// non-empty supplierID the result is limited to that supplier.
	ListActive(ctx context.Context, now time.Time, supplierID string) ([]*models.Promotion, error)
}

// ContactRepository stores contact-form messages. Backed by the Realtime
// Database rather than Firestore.
type ContactRepository interface {
	Save(ctx context.Context, msg *models.ContactMessage) (string, error)
}
