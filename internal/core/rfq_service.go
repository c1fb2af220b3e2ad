package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"solarify-backend-go/internal/db"
	"solarify-backend-go/internal/models"
)

// ErrRFQNotFound is returned when an RFQ is not found.
var ErrRFQNotFound = errors.New("rfq not found")

// ErrNotRFQOwner is returned when a user acts on an RFQ they don't own.
var ErrNotRFQOwner = errors.New("user does not own this rfq")

// ErrRFQNotEditable is returned when an RFQ is past the state where it can
// be changed or deleted.
var ErrRFQNotEditable = errors.New("rfq can no longer be modified")

// ErrNoInstallersSelected is returned when a draft is submitted without any
// installers to fan out to.
var ErrNoInstallersSelected = errors.New("rfq has no installers selected")

// ErrNotInvitedInstaller is returned when an installer acts on an RFQ that
// was not sent to them.
var ErrNotInvitedInstaller = errors.New("rfq was not sent to this installer")

// ErrWrongRole is returned when a user's role does not permit the operation.
var ErrWrongRole = errors.New("operation not permitted for this role")

// rfqService implements the RFQService interface.
type rfqService struct {
	rfqRepo  db.RFQRepository
	userRepo db.UserRepository
}

// NewRFQService creates a new RFQService instance.
func NewRFQService(rfqRepo db.RFQRepository, userRepo db.UserRepository) RFQService {
	return &rfqService{rfqRepo: rfqRepo, userRepo: userRepo}
}

func (s *rfqService) requireRole(ctx context.Context, userID string, role models.Role) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user '%s': %w", userID, err)
	}
	if user.Role != role {
		return nil, fmt.Errorf("user '%s' has role '%s', need '%s': %w", userID, user.Role, role, ErrWrongRole)
	}
	return user, nil
}

// newReferenceNumber generates a short human-readable RFQ reference.
func newReferenceNumber() string {
	return "RFQ-" + strings.ToUpper(uuid.NewString()[:8])
}

// Create stores a new draft RFQ for the homeowner.
func (s *rfqService) Create(ctx context.Context, homeownerID string, req models.CreateRFQRequest) (*models.RFQ, error) {
	if _, err := s.requireRole(ctx, homeownerID, models.RoleHomeowner); err != nil {
		return nil, err
	}
	if req.BudgetMaxUSD < req.BudgetMinUSD {
		return nil, errors.New("budget ceiling is below budget floor")
	}

	rfq := &models.RFQ{
		ReferenceNumber: newReferenceNumber(),
		HomeownerID:     homeownerID,
		SystemSizeKW:    req.SystemSizeKW,
		BudgetMinUSD:    req.BudgetMinUSD,
		BudgetMaxUSD:    req.BudgetMaxUSD,
		Property:        req.Property,
		Address:         req.Address,
		InstallerIDs:    req.InstallerIDs,
		Status:          models.RFQStatusDraft,
		Notes:           req.Notes,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	if _, err := s.rfqRepo.Create(ctx, rfq); err != nil {
		return nil, fmt.Errorf("failed to create rfq: %w", err)
	}
	return rfq, nil
}

func (s *rfqService) load(ctx context.Context, rfqID string) (*models.RFQ, error) {
	rfq, err := s.rfqRepo.GetByID(ctx, rfqID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrRFQNotFound
		}
		return nil, fmt.Errorf("failed to load rfq '%s': %w", rfqID, err)
	}
	return rfq, nil
}

// Get returns the RFQ if the user is its homeowner or an invited installer.
func (s *rfqService) Get(ctx context.Context, userID, rfqID string) (*models.RFQ, error) {
	rfq, err := s.load(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	if rfq.HomeownerID != userID && !rfq.SentToInstaller(userID) {
		return nil, ErrNotRFQOwner
	}
	return rfq, nil
}

// Update applies changes to an RFQ still in draft or pending state.
func (s *rfqService) Update(ctx context.Context, homeownerID, rfqID string, req models.UpdateRFQRequest) (*models.RFQ, error) {
	rfq, err := s.load(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	if rfq.HomeownerID != homeownerID {
		return nil, ErrNotRFQOwner
	}
	if rfq.Status != models.RFQStatusDraft && rfq.Status != models.RFQStatusPending {
		return nil, fmt.Errorf("rfq is %s: %w", rfq.Status, ErrRFQNotEditable)
	}

	if req.SystemSizeKW != nil {
		rfq.SystemSizeKW = *req.SystemSizeKW
	}
	if req.BudgetMinUSD != nil {
		rfq.BudgetMinUSD = *req.BudgetMinUSD
	}
	if req.BudgetMaxUSD != nil {
		rfq.BudgetMaxUSD = *req.BudgetMaxUSD
	}
	if rfq.BudgetMaxUSD < rfq.BudgetMinUSD {
		return nil, errors.New("budget ceiling is below budget floor")
	}
	if req.Property != nil {
		rfq.Property = *req.Property
	}
	if req.InstallerIDs != nil {
		if rfq.Status != models.RFQStatusDraft {
			return nil, fmt.Errorf("installer selection is fixed once submitted: %w", ErrRFQNotEditable)
		}
		rfq.InstallerIDs = *req.InstallerIDs
	}
	if req.Notes != nil {
		rfq.Notes = *req.Notes
	}
	rfq.UpdatedAt = time.Now().UTC()

	if err := s.rfqRepo.Update(ctx, rfq); err != nil {
		return nil, fmt.Errorf("failed to update rfq '%s': %w", rfqID, err)
	}
	return rfq, nil
}

// Submit fans a draft out to its selected installers, moving it to pending.
func (s *rfqService) Submit(ctx context.Context, homeownerID, rfqID string) (*models.RFQ, error) {
	rfq, err := s.load(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	if rfq.HomeownerID != homeownerID {
		return nil, ErrNotRFQOwner
	}
	if rfq.Status != models.RFQStatusDraft {
		return nil, fmt.Errorf("rfq is %s: %w", rfq.Status, ErrRFQNotEditable)
	}
	if len(rfq.InstallerIDs) == 0 {
		return nil, ErrNoInstallersSelected
	}

	rfq.Status = models.RFQStatusPending
	rfq.UpdatedAt = time.Now().UTC()
	if err := s.rfqRepo.Update(ctx, rfq); err != nil {
		return nil, fmt.Errorf("failed to submit rfq '%s': %w", rfqID, err)
	}
	return rfq, nil
}

// Delete removes an RFQ that has not been quoted or accepted yet.
func (s *rfqService) Delete(ctx context.Context, homeownerID, rfqID string) error {
	rfq, err := s.load(ctx, rfqID)
	if err != nil {
		return err
	}
	if rfq.HomeownerID != homeownerID {
		return ErrNotRFQOwner
	}
	if rfq.Status != models.RFQStatusDraft && rfq.Status != models.RFQStatusPending {
		return fmt.Errorf("rfq is %s: %w", rfq.Status, ErrRFQNotEditable)
	}
	if err := s.rfqRepo.Delete(ctx, rfqID); err != nil {
		return fmt.Errorf("failed to delete rfq '%s': %w", rfqID, err)
	}
	return nil
}

// ListMine lists the homeowner's RFQs.
func (s *rfqService) ListMine(ctx context.Context, homeownerID string) ([]*models.RFQ, error) {
	rfqs, err := s.rfqRepo.ListByHomeowner(ctx, homeownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rfqs for homeowner '%s': %w", homeownerID, err)
	}
	return rfqs, nil
}

// Inbox lists pending RFQs sent to the installer.
func (s *rfqService) Inbox(ctx context.Context, installerID string, sortByBudget bool) ([]*models.RFQ, error) {
	if _, err := s.requireRole(ctx, installerID, models.RoleInstaller); err != nil {
		return nil, err
	}
	rfqs, err := s.rfqRepo.ListPendingForInstaller(ctx, installerID, sortByBudget)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox for installer '%s': %w", installerID, err)
	}
	return rfqs, nil
}

// Decline records the installer's pass on an RFQ. When every fanned-out
// installer has declined, the RFQ flips to declined.
func (s *rfqService) Decline(ctx context.Context, installerID, rfqID string) error {
	rfq, err := s.load(ctx, rfqID)
	if err != nil {
		return err
	}
	if !rfq.SentToInstaller(installerID) {
		return ErrNotInvitedInstaller
	}
	if rfq.Status != models.RFQStatusPending && rfq.Status != models.RFQStatusQuoted {
		return fmt.Errorf("rfq is %s: %w", rfq.Status, ErrRFQNotEditable)
	}
	if rfq.DeclinedByInstaller(installerID) {
		return nil
	}

	rfq.DeclinedBy = append(rfq.DeclinedBy, installerID)
	if rfq.Status == models.RFQStatusPending && len(rfq.DeclinedBy) == len(rfq.InstallerIDs) {
		rfq.Status = models.RFQStatusDeclined
	}
	rfq.UpdatedAt = time.Now().UTC()

	if err := s.rfqRepo.Update(ctx, rfq); err != nil {
		return fmt.Errorf("failed to record decline on rfq '%s': %w", rfqID, err)
	}
	return nil
}
