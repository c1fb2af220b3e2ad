package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"solarify-backend-go/internal/core"
	"solarify-backend-go/internal/models"
)

type stubUserService struct {
	users map[string]*models.User
}

func (s *stubUserService) GetOrCreate(ctx context.Context, userID, email, displayName, photoURL string) (*models.User, bool, error) {
	if u, ok := s.users[userID]; ok {
		return u, false, nil
	}
	return nil, false, core.ErrUserNotFound
}

func (s *stubUserService) Initialize(ctx context.Context, userID, email, displayName, photoURL string, req models.InitializeUserRequest) (*models.User, error) {
	return nil, core.ErrUserAlreadyInitialized
}

func (s *stubUserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if u, ok := s.users[userID]; ok {
		return u, nil
	}
	return nil, core.ErrUserNotFound
}

func (s *stubUserService) Update(ctx context.Context, userID string, req models.UpdateUserRequest) (*models.User, error) {
	return s.GetByID(ctx, userID)
}

func TestUserHandler_GetPublicProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)

	installer := &models.User{
		ID:            "installer-1",
		Email:         "crew@sunward.example",
		DisplayName:   "Sunward Solar",
		Role:          models.RoleInstaller,
		CompanyName:   "Sunward Solar LLC",
		LicenseNumber: "TECL-40112",
		ServiceArea:   []string{"TX", "787"},
		Phone:         "+1-512-555-0140",
		Address: &models.Address{
			Street: "900 Congress Ave",
			City:   "Austin",
			State:  "TX",
			Zip:    "78701",
		},
		CreatedAt: time.Now().UTC(),
	}

	svc := &stubUserService{users: map[string]*models.User{installer.ID: installer}}
	handler := NewUserHandler(svc, nil, zap.NewNop())

	router := gin.New()
	router.GET("/users/:userId", handler.GetPublicProfile)

	t.Run("returns only the public marketplace fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/installer-1", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

		assert.Equal(t, "installer-1", body["id"])
		assert.Equal(t, "Sunward Solar", body["displayName"])
		assert.Equal(t, string(models.RoleInstaller), body["role"])
		assert.Equal(t, "Sunward Solar LLC", body["companyName"])
		assert.Equal(t, "TECL-40112", body["licenseNumber"])

		assert.NotContains(t, body, "email")
		assert.NotContains(t, body, "phone")
		assert.NotContains(t, body, "address")
		assert.NotContains(t, w.Body.String(), installer.Email)
		assert.NotContains(t, w.Body.String(), installer.Phone)
	})

	t.Run("unknown user maps to 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/nobody", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
