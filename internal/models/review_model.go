package models

import "time"

// ReviewTarget is the kind of entity a review is attached to.
type ReviewTarget string

const (
	TargetInstaller ReviewTarget = "installer"
	TargetSupplier  ReviewTarget = "supplier"
	TargetProduct   ReviewTarget = "product"
)

// Valid reports whether the target type is reviewable.
func (t ReviewTarget) Valid() bool {
	switch t {
	case TargetInstaller, TargetSupplier, TargetProduct:
		return true
	}
	return false
}

// Review is a 1-5 star rating with optional text. One review per
// (reviewer, target) pair, enforced by the service.
type Review struct {
	ID         string       `json:"id" firestore:"-"`
	ReviewerID string       `json:"reviewerId" firestore:"reviewerId"`
	TargetType ReviewTarget `json:"targetType" firestore:"targetType"`
	TargetID   string       `json:"targetId" firestore:"targetId"`
	Rating     int          `json:"rating" firestore:"rating"`
	Title      string       `json:"title,omitempty" firestore:"title,omitempty"`
	Comment    string       `json:"comment,omitempty" firestore:"comment,omitempty"`
	CreatedAt  time.Time    `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt  time.Time    `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// RatingSummary is the aggregate rating for a target.
type RatingSummary struct {
	TargetType    ReviewTarget `json:"targetType"`
	TargetID      string       `json:"targetId"`
	AverageRating float64      `json:"averageRating"`
	ReviewCount   int          `json:"reviewCount"`
}
