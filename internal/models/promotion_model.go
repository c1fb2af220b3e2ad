package models

import "time"

// Promotion is a supplier discount campaign. Exactly one of DiscountPercent
// or DiscountAmountUSD is set (decimal strings). An empty ProductIDs slice
// means the promotion applies to the supplier's whole catalog.
type Promotion struct {
	ID                string    `json:"id" firestore:"-"`
	SupplierID        string    `json:"supplierId" firestore:"supplierId"`
	Name              string    `json:"name" firestore:"name"`
	Description       string    `json:"description,omitempty" firestore:"description,omitempty"`
	DiscountPercent   string    `json:"discountPercent,omitempty" firestore:"discountPercent,omitempty"`
	DiscountAmountUSD string    `json:"discountAmountUSD,omitempty" firestore:"discountAmountUSD,omitempty"`
	ProductIDs        []string  `json:"productIds,omitempty" firestore:"productIds,omitempty"`
	StartsAt          time.Time `json:"startsAt" firestore:"startsAt"`
	EndsAt            time.Time `json:"endsAt" firestore:"endsAt"`
	CreatedAt         time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt         time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// ActiveAt reports whether the promotion window covers the given instant.
func (p *Promotion) ActiveAt(now time.Time) bool {
	return !now.Before(p.StartsAt) && now.Before(p.EndsAt)
}

// AppliesTo reports whether the promotion covers the given product.
func (p *Promotion) AppliesTo(productID string) bool {
	if len(p.ProductIDs) == 0 {
		return true
	}
	for _, id := range p.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}
