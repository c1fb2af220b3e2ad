package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarify-backend-go/internal/cache"
	"solarify-backend-go/internal/models"
)

func validContactRequest() models.ContactRequest {
	return models.ContactRequest{
		Name:    "Pat Doe",
		Email:   "pat@example.com",
		Subject: "Question about panels",
		Message: "Do you install in the 78701 area?",
	}
}

func TestContactService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the message with client metadata", func(t *testing.T) {
		repo := &fakeContactRepo{}
		svc := NewContactService(repo, cache.NewMemoryCache(), nil, ContactServiceConfig{
			RateLimit: 5, RateWindow: time.Hour,
		})

		key, err := svc.Submit(ctx, validContactRequest(), "203.0.113.9", "test-agent")
		require.NoError(t, err)
		assert.NotEmpty(t, key)
		require.Len(t, repo.messages, 1)
		assert.Equal(t, "203.0.113.9", repo.messages[0].IPAddress)
		assert.Equal(t, "test-agent", repo.messages[0].UserAgent)
		assert.False(t, repo.messages[0].SubmittedAt.IsZero())
	})

	t.Run("rate limits per client ip", func(t *testing.T) {
		repo := &fakeContactRepo{}
		svc := NewContactService(repo, cache.NewMemoryCache(), nil, ContactServiceConfig{
			RateLimit: 2, RateWindow: time.Hour,
		})

		for i := 0; i < 2; i++ {
			_, err := svc.Submit(ctx, validContactRequest(), "203.0.113.9", "")
			require.NoError(t, err)
		}
		_, err := svc.Submit(ctx, validContactRequest(), "203.0.113.9", "")
		assert.ErrorIs(t, err, ErrRateLimited)

		// A different IP is unaffected.
		_, err = svc.Submit(ctx, validContactRequest(), "198.51.100.7", "")
		assert.NoError(t, err)
	})

	t.Run("zero limit disables rate limiting", func(t *testing.T) {
		repo := &fakeContactRepo{}
		svc := NewContactService(repo, cache.NewMemoryCache(), nil, ContactServiceConfig{})

		for i := 0; i < 10; i++ {
			_, err := svc.Submit(ctx, validContactRequest(), "203.0.113.9", "")
			require.NoError(t, err)
		}
		assert.Len(t, repo.messages, 10)
	})
}
