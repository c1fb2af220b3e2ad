package models

import "time"

// ContactMessage is a public contact-form submission. These are written to
// the Firebase Realtime Database under "contactMessages" rather than
// Firestore, matching the store the web client reads them from.
type ContactMessage struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	IPAddress   string    `json:"ipAddress,omitempty"`
	UserAgent   string    `json:"userAgent,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}
