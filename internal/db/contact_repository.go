package db

import (
	"context"
	"fmt"
	"log"

	rtdb "firebase.google.com/go/v4/db"

	"solarify-backend-go/internal/models"
)

const contactMessagesRef = "contactMessages"

// rtdbContactRepository stores contact form submissions in the Realtime
// Database so the frontend can stream new messages to the admin console.
type rtdbContactRepository struct {
	client *rtdb.Client
}

// NewRTDBContactRepository creates a new instance of rtdbContactRepository.
func NewRTDBContactRepository(client *rtdb.Client) ContactRepository {
	if client == nil {
		log.Fatal("Realtime Database client is not initialized for ContactRepository.")
	}
	return &rtdbContactRepository{client: client}
}

// Save pushes the message under contactMessages and returns the generated key.
func (r *rtdbContactRepository) Save(ctx context.Context, msg *models.ContactMessage) (string, error) {
	ref, err := r.client.NewRef(contactMessagesRef).Push(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("failed to save contact message: %w", err)
	}
	return ref.Key, nil
}
