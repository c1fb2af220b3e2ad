package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"solarify-backend-go/internal/db"
	"solarify-backend-go/internal/models"
)

// ErrUserNotFound is returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrUserAlreadyInitialized is returned when a profile already exists for
// the user trying to initialize one.
var ErrUserAlreadyInitialized = errors.New("user profile already initialized")

// ErrInvalidRole is returned when a request names an unknown role.
var ErrInvalidRole = errors.New("invalid role")

// userService implements the UserService interface.
type userService struct {
	userRepo db.UserRepository
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo db.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// GetOrCreate retrieves a user by ID, creating a homeowner profile from the
// token identity when none exists yet. Returns the user and whether it was
// created.
func (s *userService) GetOrCreate(ctx context.Context, userID, email, displayName, photoURL string) (*models.User, bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to get user by ID '%s': %w", userID, err)
	}

	newUser := &models.User{
		ID:          userID,
		Email:       email,
		DisplayName: displayName,
		PhotoURL:    photoURL,
		Role:        models.RoleHomeowner,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if createErr := s.userRepo.Create(ctx, newUser); createErr != nil {
		return nil, false, fmt.Errorf("failed to create user (id: %s) after not found: %w", userID, createErr)
	}
	return newUser, true, nil
}

// Initialize creates the user's profile with the role chosen at signup.
func (s *userService) Initialize(ctx context.Context, userID, email, displayName, photoURL string, req models.InitializeUserRequest) (*models.User, error) {
	if !req.Role.Valid() {
		return nil, fmt.Errorf("role '%s': %w", req.Role, ErrInvalidRole)
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err == nil {
		return nil, ErrUserAlreadyInitialized
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing profile for '%s': %w", userID, err)
	}

	user := &models.User{
		ID:            userID,
		Email:         email,
		DisplayName:   displayName,
		PhotoURL:      photoURL,
		Role:          req.Role,
		CompanyName:   req.CompanyName,
		LicenseNumber: req.LicenseNumber,
		ServiceArea:   req.ServiceArea,
		Phone:         req.Phone,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create profile for '%s': %w", userID, err)
	}
	return user, nil
}

// GetByID retrieves a user by their ID.
func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID '%s': %w", userID, err)
	}
	return user, nil
}

// Update applies the provided profile changes. The role is immutable after
// initialization.
func (s *userService) Update(ctx context.Context, userID string, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.PhotoURL != nil {
		user.PhotoURL = *req.PhotoURL
	}
	if req.CompanyName != nil {
		user.CompanyName = *req.CompanyName
	}
	if req.LicenseNumber != nil {
		user.LicenseNumber = *req.LicenseNumber
	}
	if req.ServiceArea != nil {
		user.ServiceArea = *req.ServiceArea
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = req.Address
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user '%s': %w", userID, err)
	}
	return user, nil
}
