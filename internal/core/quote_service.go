package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"solarify-backend-go/internal/db"
	"solarify-backend-go/internal/models"
)

// ErrQuoteNotFound is returned when a quote is not found.
var ErrQuoteNotFound = errors.New("quote not found")

// ErrNotQuoteOwner is returned when a user acts on a quote that isn't theirs.
var ErrNotQuoteOwner = errors.New("user does not own this quote")

// ErrQuoteTotalMismatch is returned when the stated total does not equal the
// sum of the cost components.
var ErrQuoteTotalMismatch = errors.New("quote total does not equal equipment + installation + permits")

// ErrQuoteNotPending is returned when acting on a quote that already left
// the pending state.
var ErrQuoteNotPending = errors.New("quote is no longer pending")

// ErrQuoteExpired is returned when accepting a quote past its validity date.
var ErrQuoteExpired = errors.New("quote validity window has passed")

// ErrRFQNotQuotable is returned when quoting an RFQ that is not open for
// quotes.
var ErrRFQNotQuotable = errors.New("rfq is not open for quotes")

// ErrInvalidAmount is returned when a monetary field is not a valid
// non-negative decimal string.
var ErrInvalidAmount = errors.New("invalid monetary amount")

// quoteService implements the QuoteService interface.
type quoteService struct {
	quoteRepo db.QuoteRepository
	rfqRepo   db.RFQRepository
	userRepo  db.UserRepository
	now       func() time.Time
}

// NewQuoteService creates a new QuoteService instance.
func NewQuoteService(quoteRepo db.QuoteRepository, rfqRepo db.RFQRepository, userRepo db.UserRepository) QuoteService {
	return &quoteService{
		quoteRepo: quoteRepo,
		rfqRepo:   rfqRepo,
		userRepo:  userRepo,
		now:       time.Now,
	}
}

// parseAmount parses a non-negative decimal money string.
func parseAmount(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s '%s': %w", field, value, ErrInvalidAmount)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative: %w", field, ErrInvalidAmount)
	}
	return d, nil
}

// Submit records an installer's quote on an open RFQ and moves the RFQ to
// quoted.
func (s *quoteService) Submit(ctx context.Context, installerID, rfqID string, req models.SubmitQuoteRequest) (*models.Quote, error) {
	rfq, err := s.rfqRepo.GetByID(ctx, rfqID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrRFQNotFound
		}
		return nil, fmt.Errorf("failed to load rfq '%s': %w", rfqID, err)
	}
	if !rfq.SentToInstaller(installerID) {
		return nil, ErrNotInvitedInstaller
	}
	if rfq.Status != models.RFQStatusPending && rfq.Status != models.RFQStatusQuoted {
		return nil, fmt.Errorf("rfq is %s: %w", rfq.Status, ErrRFQNotQuotable)
	}
	if rfq.DeclinedByInstaller(installerID) {
		return nil, fmt.Errorf("installer already declined this rfq: %w", ErrRFQNotQuotable)
	}
	if !req.ValidUntil.After(s.now()) {
		return nil, fmt.Errorf("validUntil is in the past: %w", ErrQuoteExpired)
	}

	equipment, err := parseAmount("equipmentCostUSD", req.EquipmentCostUSD)
	if err != nil {
		return nil, err
	}
	installation, err := parseAmount("installationCostUSD", req.InstallationCostUSD)
	if err != nil {
		return nil, err
	}
	permits, err := parseAmount("permitCostUSD", req.PermitCostUSD)
	if err != nil {
		return nil, err
	}
	total, err := parseAmount("totalCostUSD", req.TotalCostUSD)
	if err != nil {
		return nil, err
	}
	if !equipment.Add(installation).Add(permits).Equal(total) {
		return nil, ErrQuoteTotalMismatch
	}

	quote := &models.Quote{
		QuoteNumber:         "QT-" + strings.ToUpper(uuid.NewString()[:8]),
		RFQID:               rfq.ID,
		InstallerID:         installerID,
		HomeownerID:         rfq.HomeownerID,
		EquipmentCostUSD:    equipment.StringFixed(2),
		InstallationCostUSD: installation.StringFixed(2),
		PermitCostUSD:       permits.StringFixed(2),
		TotalCostUSD:        total.StringFixed(2),
		PanelModel:          req.PanelModel,
		PanelCount:          req.PanelCount,
		InverterModel:       req.InverterModel,
		SystemSizeKW:        req.SystemSizeKW,
		EstimatedAnnualKWh:  req.EstimatedAnnualKWh,
		WarrantyYears:       req.WarrantyYears,
		ValidUntil:          req.ValidUntil,
		Status:              models.QuoteStatusPending,
		Notes:               req.Notes,
		CreatedAt:           s.now().UTC(),
		UpdatedAt:           s.now().UTC(),
	}
	if _, err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	if rfq.Status == models.RFQStatusPending {
		rfq.Status = models.RFQStatusQuoted
		rfq.UpdatedAt = s.now().UTC()
		if err := s.rfqRepo.Update(ctx, rfq); err != nil {
			return nil, fmt.Errorf("failed to mark rfq '%s' quoted: %w", rfq.ID, err)
		}
	}
	return quote, nil
}

func (s *quoteService) load(ctx context.Context, quoteID string) (*models.Quote, error) {
	quote, err := s.quoteRepo.GetByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to load quote '%s': %w", quoteID, err)
	}
	return quote, nil
}

// Get returns the quote if the user is its installer or the RFQ's homeowner.
func (s *quoteService) Get(ctx context.Context, userID, quoteID string) (*models.Quote, error) {
	quote, err := s.load(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.InstallerID != userID && quote.HomeownerID != userID {
		return nil, ErrNotQuoteOwner
	}
	return quote, nil
}

// ListForRFQ lists quotes on the homeowner's RFQ.
func (s *quoteService) ListForRFQ(ctx context.Context, homeownerID, rfqID string) ([]*models.Quote, error) {
	rfq, err := s.rfqRepo.GetByID(ctx, rfqID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrRFQNotFound
		}
		return nil, fmt.Errorf("failed to load rfq '%s': %w", rfqID, err)
	}
	if rfq.HomeownerID != homeownerID {
		return nil, ErrNotRFQOwner
	}
	quotes, err := s.quoteRepo.ListByRFQ(ctx, rfqID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes for rfq '%s': %w", rfqID, err)
	}
	return quotes, nil
}

// ListMine lists the installer's quotes.
func (s *quoteService) ListMine(ctx context.Context, installerID string) ([]*models.Quote, error) {
	quotes, err := s.quoteRepo.ListByInstaller(ctx, installerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes for installer '%s': %w", installerID, err)
	}
	return quotes, nil
}

// Accept accepts the quote, rejects the RFQ's other pending quotes, and
// moves the RFQ to accepted.
func (s *quoteService) Accept(ctx context.Context, homeownerID, quoteID string) (*models.Quote, error) {
	quote, err := s.load(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.HomeownerID != homeownerID {
		return nil, ErrNotQuoteOwner
	}
	if quote.Status != models.QuoteStatusPending {
		return nil, fmt.Errorf("quote is %s: %w", quote.Status, ErrQuoteNotPending)
	}
	if quote.Expired(s.now()) {
		return nil, ErrQuoteExpired
	}

	quote.Status = models.QuoteStatusAccepted
	quote.UpdatedAt = s.now().UTC()
	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to accept quote '%s': %w", quoteID, err)
	}

	siblings, err := s.quoteRepo.ListByRFQ(ctx, quote.RFQID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sibling quotes for rfq '%s': %w", quote.RFQID, err)
	}
	for _, sibling := range siblings {
		if sibling.ID == quote.ID || sibling.Status != models.QuoteStatusPending {
			continue
		}
		sibling.Status = models.QuoteStatusRejected
		sibling.UpdatedAt = s.now().UTC()
		if err := s.quoteRepo.Update(ctx, sibling); err != nil {
			return nil, fmt.Errorf("failed to reject sibling quote '%s': %w", sibling.ID, err)
		}
	}

	rfq, err := s.rfqRepo.GetByID(ctx, quote.RFQID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rfq '%s': %w", quote.RFQID, err)
	}
	rfq.Status = models.RFQStatusAccepted
	rfq.UpdatedAt = s.now().UTC()
	if err := s.rfqRepo.Update(ctx, rfq); err != nil {
		return nil, fmt.Errorf("failed to mark rfq '%s' accepted: %w", rfq.ID, err)
	}

	return quote, nil
}

// Reject declines a single quote on behalf of the RFQ's homeowner. The RFQ
// itself stays open for the remaining quotes.
func (s *quoteService) Reject(ctx context.Context, homeownerID, quoteID string) (*models.Quote, error) {
	quote, err := s.load(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.HomeownerID != homeownerID {
		return nil, ErrNotQuoteOwner
	}
	if quote.Status != models.QuoteStatusPending {
		return nil, fmt.Errorf("quote is %s: %w", quote.Status, ErrQuoteNotPending)
	}

	quote.Status = models.QuoteStatusRejected
	quote.UpdatedAt = s.now().UTC()
	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to reject quote '%s': %w", quoteID, err)
	}
	return quote, nil
}

// Withdraw withdraws the installer's own pending quote.
func (s *quoteService) Withdraw(ctx context.Context, installerID, quoteID string) (*models.Quote, error) {
	quote, err := s.load(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.InstallerID != installerID {
		return nil, ErrNotQuoteOwner
	}
	if quote.Status != models.QuoteStatusPending {
		return nil, fmt.Errorf("quote is %s: %w", quote.Status, ErrQuoteNotPending)
	}

	quote.Status = models.QuoteStatusWithdrawn
	quote.UpdatedAt = s.now().UTC()
	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to withdraw quote '%s': %w", quoteID, err)
	}
	return quote, nil
}
