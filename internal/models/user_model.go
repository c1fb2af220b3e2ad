package models

import "time"

// Role identifies which side of the marketplace a user belongs to.
type Role string

const (
	RoleHomeowner Role = "homeowner"
	RoleInstaller Role = "installer"
	RoleSupplier  Role = "supplier"
)

// Valid reports whether the role is one of the known marketplace roles.
func (r Role) Valid() bool {
	switch r {
	case RoleHomeowner, RoleInstaller, RoleSupplier:
		return true
	}
	return false
}

// Address is a postal address with optional coordinates. Coordinates are
// required for RFQs since the production estimate needs a location.
type Address struct {
	Street    string  `json:"street,omitempty" firestore:"street,omitempty"`
	City      string  `json:"city,omitempty" firestore:"city,omitempty"`
	State     string  `json:"state,omitempty" firestore:"state,omitempty"`
	Zip       string  `json:"zip,omitempty" firestore:"zip,omitempty"`
	Latitude  float64 `json:"latitude,omitempty" firestore:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty" firestore:"longitude,omitempty"`
}

// User represents a marketplace participant.
type User struct {
	ID          string `json:"id" firestore:"-"` // Firebase Auth UID, used as the document ID
	Email       string `json:"email" firestore:"email"`
	DisplayName string `json:"displayName,omitempty" firestore:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	Role        Role   `json:"role" firestore:"role"`

	// Installer and supplier profile fields.
	CompanyName   string   `json:"companyName,omitempty" firestore:"companyName,omitempty"`
	LicenseNumber string   `json:"licenseNumber,omitempty" firestore:"licenseNumber,omitempty"`
	ServiceArea   []string `json:"serviceArea,omitempty" firestore:"serviceArea,omitempty"` // state/zip prefixes served

	// Homeowner profile fields.
	Address *Address `json:"address,omitempty" firestore:"address,omitempty"`

	Phone     string    `json:"phone,omitempty" firestore:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}
