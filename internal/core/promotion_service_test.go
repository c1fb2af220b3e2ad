package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarify-backend-go/internal/models"
)

func newPromotionFixture(t *testing.T) PromotionService {
	t.Helper()
	users := newFakeUserRepo(homeowner("h1"), supplier("s1"), supplier("s2"))
	return NewPromotionService(newFakePromotionRepo(), users)
}

func validPromotionRequest() models.CreatePromotionRequest {
	now := time.Now()
	return models.CreatePromotionRequest{
		Name:            "Summer sale",
		DiscountPercent: "15",
		StartsAt:        now.Add(-time.Hour),
		EndsAt:          now.Add(7 * 24 * time.Hour),
	}
}

func TestPromotionService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a percentage promotion", func(t *testing.T) {
		svc := newPromotionFixture(t)
		promo, err := svc.Create(ctx, "s1", validPromotionRequest())
		require.NoError(t, err)
		assert.Equal(t, "s1", promo.SupplierID)
		assert.True(t, promo.ActiveAt(time.Now()))
	})

	t.Run("requires exactly one discount form", func(t *testing.T) {
		svc := newPromotionFixture(t)

		both := validPromotionRequest()
		both.DiscountAmountUSD = "50.00"
		_, err := svc.Create(ctx, "s1", both)
		assert.ErrorIs(t, err, ErrInvalidPromotion)

		neither := validPromotionRequest()
		neither.DiscountPercent = ""
		_, err = svc.Create(ctx, "s1", neither)
		assert.ErrorIs(t, err, ErrInvalidPromotion)
	})

	t.Run("rejects a percentage over 100", func(t *testing.T) {
		svc := newPromotionFixture(t)
		req := validPromotionRequest()
		req.DiscountPercent = "120"
		_, err := svc.Create(ctx, "s1", req)
		assert.ErrorIs(t, err, ErrInvalidPromotion)
	})

	t.Run("rejects an inverted window", func(t *testing.T) {
		svc := newPromotionFixture(t)
		req := validPromotionRequest()
		req.StartsAt, req.EndsAt = req.EndsAt, req.StartsAt
		_, err := svc.Create(ctx, "s1", req)
		assert.ErrorIs(t, err, ErrInvalidPromotion)
	})

	t.Run("rejects non-suppliers", func(t *testing.T) {
		svc := newPromotionFixture(t)
		_, err := svc.Create(ctx, "h1", validPromotionRequest())
		assert.ErrorIs(t, err, ErrWrongRole)
	})
}

func TestPromotionService_ListActive(t *testing.T) {
	ctx := context.Background()
	svc := newPromotionFixture(t)

	_, err := svc.Create(ctx, "s1", validPromotionRequest())
	require.NoError(t, err)

	future := validPromotionRequest()
	future.Name = "Next month"
	future.StartsAt = time.Now().Add(30 * 24 * time.Hour)
	future.EndsAt = future.StartsAt.Add(7 * 24 * time.Hour)
	_, err = svc.Create(ctx, "s1", future)
	require.NoError(t, err)

	active, err := svc.ListActive(ctx, time.Now(), "s1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Summer sale", active[0].Name)

	all, err := svc.ListMine(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPromotionService_Update(t *testing.T) {
	ctx := context.Background()
	strPtr := func(s string) *string { return &s }

	t.Run("owner edits name and discount", func(t *testing.T) {
		svc := newPromotionFixture(t)
		promo, err := svc.Create(ctx, "s1", validPromotionRequest())
		require.NoError(t, err)

		updated, err := svc.Update(ctx, "s1", promo.ID, models.UpdatePromotionRequest{
			Name:            strPtr("Fall sale"),
			DiscountPercent: strPtr("20"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Fall sale", updated.Name)
		assert.Equal(t, "20", updated.DiscountPercent)
		assert.Equal(t, promo.EndsAt.Unix(), updated.EndsAt.Unix())

		stored, err := svc.ListMine(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, "Fall sale", stored[0].Name)
	})

	t.Run("merged result must keep one discount form", func(t *testing.T) {
		svc := newPromotionFixture(t)
		promo, err := svc.Create(ctx, "s1", validPromotionRequest())
		require.NoError(t, err)

		_, err = svc.Update(ctx, "s1", promo.ID, models.UpdatePromotionRequest{
			DiscountAmountUSD: strPtr("25.00"),
		})
		assert.ErrorIs(t, err, ErrInvalidPromotion)

		updated, err := svc.Update(ctx, "s1", promo.ID, models.UpdatePromotionRequest{
			DiscountPercent:   strPtr(""),
			DiscountAmountUSD: strPtr("25.00"),
		})
		require.NoError(t, err)
		assert.Equal(t, "25.00", updated.DiscountAmountUSD)
	})

	t.Run("merged window must stay well ordered", func(t *testing.T) {
		svc := newPromotionFixture(t)
		promo, err := svc.Create(ctx, "s1", validPromotionRequest())
		require.NoError(t, err)

		past := promo.StartsAt.Add(-time.Hour)
		_, err = svc.Update(ctx, "s1", promo.ID, models.UpdatePromotionRequest{EndsAt: &past})
		assert.ErrorIs(t, err, ErrInvalidPromotion)
	})

	t.Run("other suppliers cannot edit it", func(t *testing.T) {
		svc := newPromotionFixture(t)
		promo, err := svc.Create(ctx, "s1", validPromotionRequest())
		require.NoError(t, err)

		_, err = svc.Update(ctx, "s2", promo.ID, models.UpdatePromotionRequest{Name: strPtr("Hijacked")})
		assert.ErrorIs(t, err, ErrNotPromotionOwner)
	})

	t.Run("unknown promotion maps to not found", func(t *testing.T) {
		svc := newPromotionFixture(t)
		_, err := svc.Update(ctx, "s1", "promo-missing", models.UpdatePromotionRequest{Name: strPtr("x")})
		assert.ErrorIs(t, err, ErrPromotionNotFound)
	})
}

func TestPromotionService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := newPromotionFixture(t)

	promo, err := svc.Create(ctx, "s1", validPromotionRequest())
	require.NoError(t, err)

	t.Run("other suppliers cannot delete it", func(t *testing.T) {
		err := svc.Delete(ctx, "s2", promo.ID)
		assert.ErrorIs(t, err, ErrNotPromotionOwner)
	})

	t.Run("owner deletes it", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, "s1", promo.ID))
		err := svc.Delete(ctx, "s1", promo.ID)
		assert.ErrorIs(t, err, ErrPromotionNotFound)
	})
}
