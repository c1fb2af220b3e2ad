package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarify-backend-go/internal/models"
)

func TestDashboardService_ForUser(t *testing.T) {
	ctx := context.Background()

	users := newFakeUserRepo(homeowner("h1"), installer("i1"), supplier("s1"))
	rfqRepo := newFakeRFQRepo()
	quoteRepo := newFakeQuoteRepo()
	productRepo := newFakeProductRepo()
	orderRepo := newFakeOrderRepo(productRepo)
	promoRepo := newFakePromotionRepo()

	rfqSvc := NewRFQService(rfqRepo, users)
	quoteSvc := NewQuoteService(quoteRepo, rfqRepo, users)

	rfq, err := rfqSvc.Create(ctx, "h1", validCreateRFQRequest("i1"))
	require.NoError(t, err)
	_, err = rfqSvc.Submit(ctx, "h1", rfq.ID)
	require.NoError(t, err)
	_, err = quoteSvc.Submit(ctx, "i1", rfq.ID, validQuoteRequest())
	require.NoError(t, err)

	_, err = productRepo.Create(ctx, &models.Product{
		SupplierID: "s1", SKU: "PNL-1", Name: "Panel",
		Category: models.CategoryPanel, PriceUSD: "250.00", StockQuantity: 10,
	})
	require.NoError(t, err)
	_, err = orderRepo.Create(ctx, &models.Order{
		BuyerID: "i1", SupplierID: "s1", Status: models.OrderStatusPending,
	})
	require.NoError(t, err)
	_, err = promoRepo.Create(ctx, &models.Promotion{
		SupplierID: "s1", Name: "Now",
		StartsAt: time.Now().Add(-time.Hour), EndsAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	reviewRepo := newFakeReviewRepo()
	_, err = reviewRepo.Create(ctx, &models.Review{
		ReviewerID: "h1", TargetType: models.TargetSupplier, TargetID: "s1", Rating: 4,
	})
	require.NoError(t, err)
	_, err = reviewRepo.Create(ctx, &models.Review{
		ReviewerID: "i1", TargetType: models.TargetSupplier, TargetID: "s1", Rating: 5,
	})
	require.NoError(t, err)

	svc := NewDashboardService(rfqRepo, quoteRepo, productRepo, orderRepo, promoRepo, reviewRepo)

	t.Run("homeowner", func(t *testing.T) {
		dash, err := svc.ForUser(ctx, homeowner("h1"))
		require.NoError(t, err)
		assert.Equal(t, models.RoleHomeowner, dash.Role)
		assert.Equal(t, 1, dash.RFQCount)
		assert.Equal(t, 1, dash.QuotesReceived)
	})

	t.Run("installer", func(t *testing.T) {
		dash, err := svc.ForUser(ctx, installer("i1"))
		require.NoError(t, err)
		// The only RFQ moved to quoted, so the pending inbox is empty.
		assert.Equal(t, 0, dash.InboxCount)
		assert.Equal(t, 1, dash.QuotesSubmitted)
		assert.Equal(t, 0, dash.QuotesAccepted)
		assert.Equal(t, 0.0, dash.QuoteWinRate)
		assert.Equal(t, 1, dash.OrderCount)
	})

	t.Run("supplier", func(t *testing.T) {
		dash, err := svc.ForUser(ctx, supplier("s1"))
		require.NoError(t, err)
		assert.Equal(t, 1, dash.ProductCount)
		assert.Equal(t, 1, dash.OpenOrderCount)
		assert.Equal(t, 1, dash.ActivePromotions)
		assert.Equal(t, 2, dash.ReviewCount)
		assert.Equal(t, 4.5, dash.AverageRating)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := svc.ForUser(ctx, &models.User{ID: "x", Role: "admin"})
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}
