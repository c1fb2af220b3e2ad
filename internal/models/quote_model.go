package models

import "time"

// QuoteStatus is the lifecycle state of an installer's quote.
type QuoteStatus string

const (
	QuoteStatusPending   QuoteStatus = "pending"
	QuoteStatusAccepted  QuoteStatus = "accepted"
	QuoteStatusRejected  QuoteStatus = "rejected"
	QuoteStatusWithdrawn QuoteStatus = "withdrawn"
	// QuoteStatusExpired is a terminal marker clients may persist when
	// archiving. Services never write it; expiry is evaluated against
	// validUntil at read and accept time.
	QuoteStatusExpired QuoteStatus = "expired"
)

// Quote is an installer's priced response to an RFQ.
//
// Monetary amounts are stored as decimal strings; Firestore has no decimal
// type and float64 drifts on money arithmetic. The service layer enforces
// TotalCostUSD = EquipmentCostUSD + InstallationCostUSD + PermitCostUSD.
type Quote struct {
	ID          string `json:"id" firestore:"-"`
	QuoteNumber string `json:"quoteNumber" firestore:"quoteNumber"`
	RFQID       string `json:"rfqId" firestore:"rfqId"`
	InstallerID string `json:"installerId" firestore:"installerId"`
	HomeownerID string `json:"homeownerId" firestore:"homeownerId"`

	EquipmentCostUSD    string `json:"equipmentCostUSD" firestore:"equipmentCostUSD"`
	InstallationCostUSD string `json:"installationCostUSD" firestore:"installationCostUSD"`
	PermitCostUSD       string `json:"permitCostUSD" firestore:"permitCostUSD"`
	TotalCostUSD        string `json:"totalCostUSD" firestore:"totalCostUSD"`

	PanelModel         string  `json:"panelModel,omitempty" firestore:"panelModel,omitempty"`
	PanelCount         int     `json:"panelCount,omitempty" firestore:"panelCount,omitempty"`
	InverterModel      string  `json:"inverterModel,omitempty" firestore:"inverterModel,omitempty"`
	SystemSizeKW       float64 `json:"systemSizeKW" firestore:"systemSizeKW"`
	EstimatedAnnualKWh float64 `json:"estimatedAnnualKWh,omitempty" firestore:"estimatedAnnualKWh,omitempty"`
	WarrantyYears      int     `json:"warrantyYears,omitempty" firestore:"warrantyYears,omitempty"`

	ValidUntil time.Time   `json:"validUntil" firestore:"validUntil"`
	Status     QuoteStatus `json:"status" firestore:"status"`
	Notes      string      `json:"notes,omitempty" firestore:"notes,omitempty"`
	CreatedAt  time.Time   `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt  time.Time   `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// Expired reports whether the quote's validity window has passed.
func (q *Quote) Expired(now time.Time) bool {
	return !q.ValidUntil.IsZero() && now.After(q.ValidUntil)
}
