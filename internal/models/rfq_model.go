package models

import "time"

// RFQStatus is the lifecycle state of a request for quotation.
type RFQStatus string

const (
	RFQStatusDraft    RFQStatus = "draft"
	RFQStatusPending  RFQStatus = "pending"
	RFQStatusQuoted   RFQStatus = "quoted"
	RFQStatusAccepted RFQStatus = "accepted"
	RFQStatusDeclined RFQStatus = "declined"
	// RFQStatusExpired is a terminal marker clients may persist when
	// archiving. Services never write it; an RFQ goes stale when every
	// quote against it has passed its validUntil.
	RFQStatusExpired RFQStatus = "expired"
)

// PropertyInfo describes the roof and consumption profile of the property
// the homeowner wants a system installed on.
type PropertyInfo struct {
	RoofType        string  `json:"roofType,omitempty" firestore:"roofType,omitempty"` // e.g. "asphalt_shingle", "tile", "metal", "flat"
	TiltDegrees     float64 `json:"tiltDegrees" firestore:"tiltDegrees"`
	AzimuthDegrees  float64 `json:"azimuthDegrees" firestore:"azimuthDegrees"`
	ShadingPercent  float64 `json:"shadingPercent,omitempty" firestore:"shadingPercent,omitempty"`
	MonthlyUsageKWh float64 `json:"monthlyUsageKWh" firestore:"monthlyUsageKWh"`
}

// RFQ is a homeowner's solar project inquiry, fanned out to one or more
// selected installers once submitted.
type RFQ struct {
	ID              string       `json:"id" firestore:"-"`
	ReferenceNumber string       `json:"referenceNumber" firestore:"referenceNumber"`
	HomeownerID     string       `json:"homeownerId" firestore:"homeownerId"`
	SystemSizeKW    float64      `json:"systemSizeKW" firestore:"systemSizeKW"`
	BudgetMinUSD    float64      `json:"budgetMinUSD" firestore:"budgetMinUSD"`
	BudgetMaxUSD    float64      `json:"budgetMaxUSD" firestore:"budgetMaxUSD"`
	Property        PropertyInfo `json:"property" firestore:"property"`
	Address         Address      `json:"address" firestore:"address"`
	InstallerIDs    []string     `json:"installerIds" firestore:"installerIds"` // installers the RFQ was sent to
	DeclinedBy      []string     `json:"declinedBy,omitempty" firestore:"declinedBy,omitempty"`
	Status          RFQStatus    `json:"status" firestore:"status"`
	Notes           string       `json:"notes,omitempty" firestore:"notes,omitempty"`
	CreatedAt       time.Time    `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt       time.Time    `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// DeclinedByInstaller reports whether the given installer has already
// declined this RFQ.
func (r *RFQ) DeclinedByInstaller(installerID string) bool {
	for _, id := range r.DeclinedBy {
		if id == installerID {
			return true
		}
	}
	return false
}

// SentToInstaller reports whether the RFQ was fanned out to the installer.
func (r *RFQ) SentToInstaller(installerID string) bool {
	for _, id := range r.InstallerIDs {
		if id == installerID {
			return true
		}
	}
	return false
}
