package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarify-backend-go/internal/models"
)

func TestUserService_GetOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a homeowner profile on first sight", func(t *testing.T) {
		svc := NewUserService(newFakeUserRepo())
		user, created, err := svc.GetOrCreate(ctx, "u1", "u1@example.com", "U One", "")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, models.RoleHomeowner, user.Role)
	})

	t.Run("returns the existing profile afterwards", func(t *testing.T) {
		svc := NewUserService(newFakeUserRepo(installer("i1")))
		user, created, err := svc.GetOrCreate(ctx, "i1", "i1@example.com", "", "")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, models.RoleInstaller, user.Role)
	})
}

func TestUserService_Initialize(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the profile with the chosen role", func(t *testing.T) {
		svc := NewUserService(newFakeUserRepo())
		user, err := svc.Initialize(ctx, "u1", "u1@example.com", "U One", "", models.InitializeUserRequest{
			Role:        models.RoleInstaller,
			CompanyName: "Bright Roofs",
			ServiceArea: []string{"TX"},
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleInstaller, user.Role)
		assert.Equal(t, "Bright Roofs", user.CompanyName)
	})

	t.Run("refuses to initialize twice", func(t *testing.T) {
		svc := NewUserService(newFakeUserRepo(supplier("s1")))
		_, err := svc.Initialize(ctx, "s1", "s1@example.com", "", "", models.InitializeUserRequest{
			Role: models.RoleSupplier,
		})
		assert.ErrorIs(t, err, ErrUserAlreadyInitialized)
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		svc := NewUserService(newFakeUserRepo())
		_, err := svc.Initialize(ctx, "u1", "u1@example.com", "", "", models.InitializeUserRequest{
			Role: "admin",
		})
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newFakeUserRepo(installer("i1")))

	name := "Brighter Roofs"
	phone := "+1-512-555-0100"
	user, err := svc.Update(ctx, "i1", models.UpdateUserRequest{
		CompanyName: &name,
		Phone:       &phone,
	})
	require.NoError(t, err)
	assert.Equal(t, "Brighter Roofs", user.CompanyName)
	assert.Equal(t, "+1-512-555-0100", user.Phone)
	// Untouched fields survive.
	assert.Equal(t, models.RoleInstaller, user.Role)

	_, err = svc.Update(ctx, "missing", models.UpdateUserRequest{Phone: &phone})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
