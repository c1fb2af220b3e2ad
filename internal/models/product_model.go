package models

import "time"

// ProductCategory classifies supplier catalog entries.
type ProductCategory string

const (
	CategoryPanel    ProductCategory = "panel"
	CategoryInverter ProductCategory = "inverter"
	CategoryBattery  ProductCategory = "battery"
	CategoryMounting ProductCategory = "mounting"
	CategoryOther    ProductCategory = "other"
)

// Valid reports whether the category is a known catalog category.
func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryPanel, CategoryInverter, CategoryBattery, CategoryMounting, CategoryOther:
		return true
	}
	return false
}

// Product is a supplier catalog entry. PriceUSD is a decimal string for the
// same reason quote costs are.
type Product struct {
	ID            string          `json:"id" firestore:"-"`
	SupplierID    string          `json:"supplierId" firestore:"supplierId"`
	SKU           string          `json:"sku" firestore:"sku"`
	Name          string          `json:"name" firestore:"name"`
	Description   string          `json:"description,omitempty" firestore:"description,omitempty"`
	Category      ProductCategory `json:"category" firestore:"category"`
	Manufacturer  string          `json:"manufacturer,omitempty" firestore:"manufacturer,omitempty"`
	WattageW      int             `json:"wattageW,omitempty" firestore:"wattageW,omitempty"` // panels and inverters
	PriceUSD      string          `json:"priceUSD" firestore:"priceUSD"`
	StockQuantity int             `json:"stockQuantity" firestore:"stockQuantity"`
	ImageURL      string          `json:"imageURL,omitempty" firestore:"imageURL,omitempty"`
	CreatedAt     time.Time       `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt     time.Time       `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}
