package models

import "time"

// OrderStatus is the lifecycle state of an equipment order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// orderTransitions holds the legal status transitions. Cancellation is only
// possible before the order ships.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
}

// CanTransitionTo reports whether moving from s to next is a legal
// order-status transition.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem is a line on an order. Unit price and line total are snapshotted
// from the catalog at order time so later price edits don't change history.
type OrderItem struct {
	ProductID    string `json:"productId" firestore:"productId"`
	ProductName  string `json:"productName" firestore:"productName"`
	SKU          string `json:"sku,omitempty" firestore:"sku,omitempty"`
	Quantity     int    `json:"quantity" firestore:"quantity"`
	UnitPriceUSD string `json:"unitPriceUSD" firestore:"unitPriceUSD"`
	LineTotalUSD string `json:"lineTotalUSD" firestore:"lineTotalUSD"`
	PromotionID  string `json:"promotionId,omitempty" firestore:"promotionId,omitempty"`
}

// Order is an equipment purchase from a single supplier.
// TotalUSD = SubtotalUSD + ShippingUSD + TaxUSD, maintained by the service.
type Order struct {
	ID          string      `json:"id" firestore:"-"`
	OrderNumber string      `json:"orderNumber" firestore:"orderNumber"`
	BuyerID     string      `json:"buyerId" firestore:"buyerId"`
	SupplierID  string      `json:"supplierId" firestore:"supplierId"`
	Items       []OrderItem `json:"items" firestore:"items"`

	SubtotalUSD string `json:"subtotalUSD" firestore:"subtotalUSD"`
	ShippingUSD string `json:"shippingUSD" firestore:"shippingUSD"`
	TaxUSD      string `json:"taxUSD" firestore:"taxUSD"`
	TotalUSD    string `json:"totalUSD" firestore:"totalUSD"`

	Status          OrderStatus `json:"status" firestore:"status"`
	ShippingAddress Address     `json:"shippingAddress" firestore:"shippingAddress"`
	Notes           string      `json:"notes,omitempty" firestore:"notes,omitempty"`
	CreatedAt       time.Time   `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt       time.Time   `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}
