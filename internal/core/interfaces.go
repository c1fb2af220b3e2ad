package core

import (
	"context"
	"time"

	"solarify-backend-go/internal/models"
)

// UserService defines the interface for user profile operations.
type UserService interface {
	// GetOrCreate retrieves a user by ID. If the user doesn't exist yet it
	// creates a homeowner profile from the verified token identity.
	GetOrCreate(ctx context.Context, userID, email, displayName, photoURL string) (*models.User, bool, error)
	// Initialize creates the user's profile with an explicit role at signup.
	Initialize(ctx context.Context, userID, email, displayName, photoURL string, req models.InitializeUserRequest) (*models.User, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	Update(ctx context.Context, userID string, req models.UpdateUserRequest) (*models.User, error)
}

// RFQService defines the interface for the request-for-quotation lifecycle.
type RFQService interface {
	Create(ctx context.Context, homeownerID string, req models.CreateRFQRequest) (*models.RFQ, error)
	Get(ctx context.Context, userID, rfqID string) (*models.RFQ, error)
	Update(ctx context.Context, homeownerID, rfqID string, req models.UpdateRFQRequest) (*models.RFQ, error)
	// Submit fans a draft RFQ out to its selected installers.
	Submit(ctx context.Context, homeownerID, rfqID string) (*models.RFQ, error)
	Delete(ctx context.Context, homeownerID, rfqID string) error
	ListMine(ctx context.Context, homeownerID string) ([]*models.RFQ, error)
	// Inbox lists pending RFQs sent to the installer that they have not
	// declined yet.
	Inbox(ctx context.Context, installerID string, sortByBudget bool) ([]*models.RFQ, error)
	// Decline removes the RFQ from the installer's inbox. When every
	// installer has declined, the RFQ flips to declined.
	Decline(ctx context.Context, installerID, rfqID string) error
}

// QuoteService defines the interface for installer quotes.
type QuoteService interface {
	Submit(ctx context.Context, installerID, rfqID string, req models.SubmitQuoteRequest) (*models.Quote, error)
	Get(ctx context.Context, userID, quoteID string) (*models.Quote, error)
	// ListForRFQ lists quotes on the homeowner's RFQ.
	ListForRFQ(ctx context.Context, homeownerID, rfqID string) ([]*models.Quote, error)
	ListMine(ctx context.Context, installerID string) ([]*models.Quote, error)
	// Accept accepts one quote and rejects the RFQ's other pending quotes.
	Accept(ctx context.Context, homeownerID, quoteID string) (*models.Quote, error)
	// Reject declines one quote; the RFQ stays open for the rest.
	Reject(ctx context.Context, homeownerID, quoteID string) (*models.Quote, error)
	Withdraw(ctx context.Context, installerID, quoteID string) (*models.Quote, error)
}

// ProductService defines the interface for supplier catalog operations.
type ProductService interface {
	Create(ctx context.Context, supplierID string, req models.CreateProductRequest) (*models.Product, error)
	Get(ctx context.Context, productID string) (*models.Product, error)
	Update(ctx context.Context, supplierID, productID string, req models.UpdateProductRequest) (*models.Product, error)
	Delete(ctx context.Context, supplierID, productID string) error
	List(ctx context.Context, filter ProductListFilter) ([]*models.Product, error)
}

// ProductListFilter narrows a catalog listing at the service level.
type ProductListFilter struct {
	SupplierID  string
	Category    string
	MaxPriceUSD string
	Limit       int
	StartAfter  string
}

// OrderService defines the interface for equipment orders.
type OrderService interface {
	Create(ctx context.Context, buyerID string, req models.CreateOrderRequest) (*models.Order, error)
	Get(ctx context.Context, userID, orderID string) (*models.Order, error)
	ListMine(ctx context.Context, buyerID string) ([]*models.Order, error)
	ListForSupplier(ctx context.Context, supplierID string) ([]*models.Order, error)
	// UpdateStatus moves the order along its lifecycle. Confirmation
	// decrements stock; cancellation after confirmation restores it.
	UpdateStatus(ctx context.Context, actorID, orderID string, next models.OrderStatus) (*models.Order, error)
}

// ReviewService defines the interface for ratings and reviews.
type ReviewService interface {
	Create(ctx context.Context, reviewerID string, req models.CreateReviewRequest) (*models.Review, error)
	ListForTarget(ctx context.Context, targetType models.ReviewTarget, targetID string) ([]*models.Review, *models.RatingSummary, error)
}

// PromotionService defines the interface for supplier discount campaigns.
type PromotionService interface {
	Create(ctx context.Context, supplierID string, req models.CreatePromotionRequest) (*models.Promotion, error)
	Update(ctx context.Context, supplierID, promoID string, req models.UpdatePromotionRequest) (*models.Promotion, error)
	Delete(ctx context.Context, supplierID, promoID string) error
	ListMine(ctx context.Context, supplierID string) ([]*models.Promotion, error)
	ListActive(ctx context.Context, now time.Time, supplierID string) ([]*models.Promotion, error)
}

// ContactService defines the interface for public contact-form submissions.
type ContactService interface {
	// Submit stores the message and notifies the support inbox. Submissions
	// are rate limited per client IP.
	Submit(ctx context.Context, req models.ContactRequest, clientIP, userAgent string) (string, error)
}

// DashboardService aggregates per-role summary counts.
type DashboardService interface {
	ForUser(ctx context.Context, user *models.User) (*Dashboard, error)
}

// Dashboard is a role-dependent summary. Only the fields for the user's
// role are populated.
type Dashboard struct {
	Role models.Role `json:"role"`

	// Homeowner fields.
	RFQCount       int `json:"rfqCount,omitempty"`
	QuotesReceived int `json:"quotesReceived,omitempty"`

	// Installer fields.
	InboxCount      int     `json:"inboxCount,omitempty"`
	QuotesSubmitted int     `json:"quotesSubmitted,omitempty"`
	QuotesAccepted  int     `json:"quotesAccepted,omitempty"`
	QuoteWinRate    float64 `json:"quoteWinRate,omitempty"`

	// Supplier fields.
	ProductCount     int     `json:"productCount,omitempty"`
	OpenOrderCount   int     `json:"openOrderCount,omitempty"`
	ActivePromotions int     `json:"activePromotions,omitempty"`
	ReviewCount      int     `json:"reviewCount,omitempty"`
	AverageRating    float64 `json:"averageRating,omitempty"`

	// Shared fields.
	OrderCount int `json:"orderCount,omitempty"`
}

// BillingService dispatches utility-bill and net-metering calculator actions.
// Each action takes a JSON parameter object and returns a JSON-shaped result.
type BillingService interface {
	DispatchSolarBilling(ctx context.Context, action string, params []byte) (interface{}, error)
	DispatchNetMetering(ctx context.Context, action string, params []byte) (interface{}, error)
}
