package models

import "time"

// InitializeUserRequest is the body for POST /users/initialize. Identity
// comes from the verified token; the role is chosen by the client at signup.
type InitializeUserRequest struct {
	Role          Role     `json:"role" binding:"required,oneof=homeowner installer supplier"`
	CompanyName   string   `json:"companyName,omitempty"`
	LicenseNumber string   `json:"licenseNumber,omitempty"`
	ServiceArea   []string `json:"serviceArea,omitempty"`
	Phone         string   `json:"phone,omitempty"`
}

// UpdateUserRequest updates mutable profile fields. Pointers distinguish
// "not provided" from "clear this field".
type UpdateUserRequest struct {
	DisplayName   *string   `json:"displayName,omitempty"`
	PhotoURL      *string   `json:"photoURL,omitempty"`
	CompanyName   *string   `json:"companyName,omitempty"`
	LicenseNumber *string   `json:"licenseNumber,omitempty"`
	ServiceArea   *[]string `json:"serviceArea,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Address       *Address  `json:"address,omitempty"`
}

// CreateRFQRequest is the body for creating a draft RFQ.
type CreateRFQRequest struct {
	SystemSizeKW float64      `json:"systemSizeKW" binding:"required,gte=0.5,lte=50"`
	BudgetMinUSD float64      `json:"budgetMinUSD" binding:"gte=0"`
	BudgetMaxUSD float64      `json:"budgetMaxUSD" binding:"required,gtefield=BudgetMinUSD"`
	Property     PropertyInfo `json:"property" binding:"required"`
	Address      Address      `json:"address" binding:"required"`
	InstallerIDs []string     `json:"installerIds,omitempty"`
	Notes        string       `json:"notes,omitempty"`
}

// UpdateRFQRequest updates a draft or pending RFQ.
type UpdateRFQRequest struct {
	SystemSizeKW *float64      `json:"systemSizeKW,omitempty" binding:"omitempty,gte=0.5,lte=50"`
	BudgetMinUSD *float64      `json:"budgetMinUSD,omitempty" binding:"omitempty,gte=0"`
	BudgetMaxUSD *float64      `json:"budgetMaxUSD,omitempty" binding:"omitempty,gte=0"`
	Property     *PropertyInfo `json:"property,omitempty"`
	InstallerIDs *[]string     `json:"installerIds,omitempty"`
	Notes        *string       `json:"notes,omitempty"`
}

// SubmitQuoteRequest is the body for an installer quoting an RFQ. Costs are
// decimal strings; the service verifies total = equipment + installation +
// permits before accepting the quote.
type SubmitQuoteRequest struct {
	EquipmentCostUSD    string    `json:"equipmentCostUSD" binding:"required"`
	InstallationCostUSD string    `json:"installationCostUSD" binding:"required"`
	PermitCostUSD       string    `json:"permitCostUSD" binding:"required"`
	TotalCostUSD        string    `json:"totalCostUSD" binding:"required"`
	PanelModel          string    `json:"panelModel,omitempty"`
	PanelCount          int       `json:"panelCount,omitempty" binding:"omitempty,gte=1"`
	InverterModel       string    `json:"inverterModel,omitempty"`
	SystemSizeKW        float64   `json:"systemSizeKW" binding:"required,gte=0.5,lte=50"`
	EstimatedAnnualKWh  float64   `json:"estimatedAnnualKWh,omitempty" binding:"omitempty,gte=0"`
	WarrantyYears       int       `json:"warrantyYears,omitempty" binding:"omitempty,gte=0,lte=40"`
	ValidUntil          time.Time `json:"validUntil" binding:"required"`
	Notes               string    `json:"notes,omitempty"`
}

// CreateProductRequest is the body for a supplier adding a catalog entry.
// Wattage bounds for panels are enforced in the service since they depend
// on the category.
type CreateProductRequest struct {
	SKU           string          `json:"sku" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description,omitempty"`
	Category      ProductCategory `json:"category" binding:"required,oneof=panel inverter battery mounting other"`
	Manufacturer  string          `json:"manufacturer,omitempty"`
	WattageW      int             `json:"wattageW,omitempty" binding:"omitempty,gte=0"`
	PriceUSD      string          `json:"priceUSD" binding:"required"`
	StockQuantity int             `json:"stockQuantity" binding:"gte=0"`
	ImageURL      string          `json:"imageURL,omitempty" binding:"omitempty,url"`
}

// UpdateProductRequest updates mutable catalog fields.
type UpdateProductRequest struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	Manufacturer  *string `json:"manufacturer,omitempty"`
	WattageW      *int    `json:"wattageW,omitempty" binding:"omitempty,gte=0"`
	PriceUSD      *string `json:"priceUSD,omitempty"`
	StockQuantity *int    `json:"stockQuantity,omitempty" binding:"omitempty,gte=0"`
	ImageURL      *string `json:"imageURL,omitempty" binding:"omitempty,url"`
}

// OrderItemRequest is one requested line on a new order. Prices are never
// client-supplied; they are snapshotted from the catalog server-side.
type OrderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gte=1"`
}

// CreateOrderRequest is the body for placing an equipment order.
type CreateOrderRequest struct {
	SupplierID      string             `json:"supplierId" binding:"required"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingAddress Address            `json:"shippingAddress" binding:"required"`
	Notes           string             `json:"notes,omitempty"`
}

// UpdateOrderStatusRequest moves an order to a new status.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required,oneof=confirmed shipped delivered cancelled"`
}

// CreateReviewRequest is the body for posting a review.
type CreateReviewRequest struct {
	TargetType ReviewTarget `json:"targetType" binding:"required,oneof=installer supplier product"`
	TargetID   string       `json:"targetId" binding:"required"`
	Rating     int          `json:"rating" binding:"required,gte=1,lte=5"`
	Title      string       `json:"title,omitempty"`
	Comment    string       `json:"comment,omitempty"`
}

// CreatePromotionRequest is the body for a supplier creating a promotion.
// The service enforces that exactly one discount form is given and that the
// window is well ordered.
type CreatePromotionRequest struct {
	Name              string    `json:"name" binding:"required"`
	Description       string    `json:"description,omitempty"`
	DiscountPercent   string    `json:"discountPercent,omitempty"`
	DiscountAmountUSD string    `json:"discountAmountUSD,omitempty"`
	ProductIDs        []string  `json:"productIds,omitempty"`
	StartsAt          time.Time `json:"startsAt" binding:"required"`
	EndsAt            time.Time `json:"endsAt" binding:"required"`
}

// UpdatePromotionRequest is the body for a supplier editing a promotion.
// Fields are pointers so omitted fields are left unchanged; the merged
// result is validated the same way as a new promotion.
type UpdatePromotionRequest struct {
	Name              *string    `json:"name,omitempty"`
	Description       *string    `json:"description,omitempty"`
	DiscountPercent   *string    `json:"discountPercent,omitempty"`
	DiscountAmountUSD *string    `json:"discountAmountUSD,omitempty"`
	ProductIDs        []string   `json:"productIds,omitempty"`
	StartsAt          *time.Time `json:"startsAt,omitempty"`
	EndsAt            *time.Time `json:"endsAt,omitempty"`
}

// ContactRequest is the public contact-form body.
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}
