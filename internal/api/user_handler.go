package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solarify-backend-go/internal/core"
	"solarify-backend-go/internal/db"
	"solarify-backend-go/internal/models"
)

// UserHandler handles HTTP requests for user profiles and the dashboard.
type UserHandler struct {
	userService      core.UserService
	dashboardService core.DashboardService
	logger           *zap.Logger
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(userService core.UserService, dashboardService core.DashboardService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService:      userService,
		dashboardService: dashboardService,
		logger:           logger,
	}
}

func mapUserErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found"})
	case errors.Is(err, core.ErrUserAlreadyInitialized):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "User profile already initialized"})
	case errors.Is(err, core.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid role", Details: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected error occurred", Details: err.Error()})
	}
}

// identityFromContext pulls the authenticated identity set by the auth middleware.
func identityFromContext(c *gin.Context) (userID, email, displayName, photoURL string, ok bool) {
	id, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return "", "", "", "", false
	}
	userID = id.(string)
	if v, exists := c.Get("userEmail"); exists {
		email, _ = v.(string)
	}
	if v, exists := c.Get("userDisplayName"); exists {
		displayName, _ = v.(string)
	}
	if v, exists := c.Get("userPhotoURL"); exists {
		photoURL, _ = v.(string)
	}
	return userID, email, displayName, photoURL, true
}

// EnsureSession returns the caller's profile, creating a default one on the
// first request after signup.
func (h *UserHandler) EnsureSession(c *gin.Context) {
	userID, email, displayName, photoURL, ok := identityFromContext(c)
	if !ok {
		return
	}

	user, created, err := h.userService.GetOrCreate(c.Request.Context(), userID, email, displayName, photoURL)
	if err != nil {
		h.logger.Error("Failed to ensure user session", zap.String("userID", userID), zap.Error(err))
		mapUserErrorToStatus(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, user)
}

// InitializeProfile completes signup by assigning a role and profile details.
func (h *UserHandler) InitializeProfile(c *gin.Context) {
	userID, email, displayName, photoURL, ok := identityFromContext(c)
	if !ok {
		return
	}

	var req models.InitializeUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	user, err := h.userService.Initialize(c.Request.Context(), userID, email, displayName, photoURL, req)
	if err != nil {
		h.logger.Error("Failed to initialize user profile", zap.String("userID", userID), zap.Error(err))
		mapUserErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetCurrentProfile returns the authenticated caller's profile.
func (h *UserHandler) GetCurrentProfile(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID.(string))
	if err != nil {
		mapUserErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateCurrentProfile applies partial updates to the caller's profile.
func (h *UserHandler) UpdateCurrentProfile(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	user, err := h.userService.Update(c.Request.Context(), userID.(string), req)
	if err != nil {
		h.logger.Error("Failed to update user profile", zap.String("userID", userID.(string)), zap.Error(err))
		mapUserErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// PublicProfile is the subset of a profile safe to expose without auth.
// Contact details and the homeowner address never leave the private profile.
type PublicProfile struct {
	ID            string      `json:"id"`
	DisplayName   string      `json:"displayName,omitempty"`
	PhotoURL      string      `json:"photoURL,omitempty"`
	Role          models.Role `json:"role"`
	CompanyName   string      `json:"companyName,omitempty"`
	LicenseNumber string      `json:"licenseNumber,omitempty"`
	ServiceArea   []string    `json:"serviceArea,omitempty"`
}

// GetPublicProfile returns another user's marketplace profile, trimmed to
// its public fields.
func (h *UserHandler) GetPublicProfile(c *gin.Context) {
	targetID := c.Param("userId")

	user, err := h.userService.GetByID(c.Request.Context(), targetID)
	if err != nil {
		mapUserErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, PublicProfile{
		ID:            user.ID,
		DisplayName:   user.DisplayName,
		PhotoURL:      user.PhotoURL,
		Role:          user.Role,
		CompanyName:   user.CompanyName,
		LicenseNumber: user.LicenseNumber,
		ServiceArea:   user.ServiceArea,
	})
}

// GetDashboard returns role-specific counters for the caller.
func (h *UserHandler) GetDashboard(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in token"})
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID.(string))
	if err != nil {
		mapUserErrorToStatus(c, err)
		return
	}

	dashboard, err := h.dashboardService.ForUser(c.Request.Context(), user)
	if err != nil {
		h.logger.Error("Failed to build dashboard", zap.String("userID", user.ID), zap.Error(err))
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found"})
			return
		}
		mapUserErrorToStatus(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
