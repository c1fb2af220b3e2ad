package core

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"solarify-backend-go/internal/db"
	"solarify-backend-go/internal/models"
)

// dashboardService implements the DashboardService interface. The counts for
// a role are fetched concurrently.
type dashboardService struct {
	rfqRepo     db.RFQRepository
	quoteRepo   db.QuoteRepository
	productRepo db.ProductRepository
	orderRepo   db.OrderRepository
	promoRepo   db.PromotionRepository
	reviewRepo  db.ReviewRepository
	now         func() time.Time
}

// NewDashboardService creates a new DashboardService instance.
func NewDashboardService(rfqRepo db.RFQRepository, quoteRepo db.QuoteRepository, productRepo db.ProductRepository, orderRepo db.OrderRepository, promoRepo db.PromotionRepository, reviewRepo db.ReviewRepository) DashboardService {
	return &dashboardService{
		rfqRepo:     rfqRepo,
		quoteRepo:   quoteRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		promoRepo:   promoRepo,
		reviewRepo:  reviewRepo,
		now:         time.Now,
	}
}

// ForUser builds the summary for the user's role.
func (s *dashboardService) ForUser(ctx context.Context, user *models.User) (*Dashboard, error) {
	dash := &Dashboard{Role: user.Role}
	g, gctx := errgroup.WithContext(ctx)

	switch user.Role {
	case models.RoleHomeowner:
		g.Go(func() error {
			count, err := s.rfqRepo.CountByHomeowner(gctx, user.ID)
			if err != nil {
				return fmt.Errorf("rfq count: %w", err)
			}
			dash.RFQCount = count
			return nil
		})
		g.Go(func() error {
			rfqs, err := s.rfqRepo.ListByHomeowner(gctx, user.ID)
			if err != nil {
				return fmt.Errorf("rfq list: %w", err)
			}
			received := 0
			for _, rfq := range rfqs {
				quotes, err := s.quoteRepo.ListByRFQ(gctx, rfq.ID)
				if err != nil {
					return fmt.Errorf("quotes for rfq %s: %w", rfq.ID, err)
				}
				received += len(quotes)
			}
			dash.QuotesReceived = received
			return nil
		})
		g.Go(func() error {
			orders, err := s.orderRepo.ListByBuyer(gctx, user.ID)
			if err != nil {
				return fmt.Errorf("order list: %w", err)
			}
			dash.OrderCount = len(orders)
			return nil
		})

	case models.RoleInstaller:
		g.Go(func() error {
			rfqs, err := s.rfqRepo.ListPendingForInstaller(gctx, user.ID, false)
			if err != nil {
				return fmt.Errorf("inbox: %w", err)
			}
			dash.InboxCount = len(rfqs)
			return nil
		})
		g.Go(func() error {
			quotes, err := s.quoteRepo.ListByInstaller(gctx, user.ID)
			if err != nil {
				return fmt.Errorf("quote list: %w", err)
			}
			accepted := 0
			for _, quote := range quotes {
				if quote.Status == models.QuoteStatusAccepted {
					accepted++
				}
			}
			dash.QuotesSubmitted = len(quotes)
			dash.QuotesAccepted = accepted
			if len(quotes) > 0 {
				dash.QuoteWinRate = float64(accepted) / float64(len(quotes))
			}
			return nil
		})
		g.Go(func() error {
			orders, err := s.orderRepo.ListByBuyer(gctx, user.ID)
			if err != nil {
				return fmt.Errorf("order list: %w", err)
			}
			dash.OrderCount = len(orders)
			return nil
		})

	case models.RoleSupplier:
		g.Go(func() error {
			count, err := s.productRepo.CountBySupplier(gctx, user.ID)
			if err != nil {
				return fmt.Errorf("product count: %w", err)
			}
			dash.ProductCount = count
			return nil
		})
		g.Go(func() error {
			orders, err := s.orderRepo.ListBySupplier(gctx, user.ID)
			if err != nil {
				return fmt.Errorf("order list: %w", err)
			}
			open := 0
			for _, order := range orders {
				if order.Status == models.OrderStatusPending || order.Status == models.OrderStatusConfirmed {
					open++
				}
			}
			dash.OrderCount = len(orders)
			dash.OpenOrderCount = open
			return nil
		})
		g.Go(func() error {
			promos, err := s.promoRepo.ListActive(gctx, s.now(), user.ID)
			if err != nil {
				return fmt.Errorf("promotions: %w", err)
			}
			dash.ActivePromotions = len(promos)
			return nil
		})
		g.Go(func() error {
			reviews, err := s.reviewRepo.ListByTarget(gctx, models.TargetSupplier, user.ID)
			if err != nil {
				return fmt.Errorf("reviews: %w", err)
			}
			dash.ReviewCount = len(reviews)
			if len(reviews) > 0 {
				total := 0
				for _, review := range reviews {
					total += review.Rating
				}
				dash.AverageRating = float64(total) / float64(len(reviews))
			}
			return nil
		})

	default:
		return nil, fmt.Errorf("role '%s': %w", user.Role, ErrInvalidRole)
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build dashboard for '%s': %w", user.ID, err)
	}
	return dash, nil
}
