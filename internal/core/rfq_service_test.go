package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarify-backend-go/internal/models"
)

func validCreateRFQRequest(installers ...string) models.CreateRFQRequest {
	return models.CreateRFQRequest{
		SystemSizeKW: 8.5,
		BudgetMinUSD: 15000,
		BudgetMaxUSD: 25000,
		Property: models.PropertyInfo{
			RoofType:        "asphalt_shingle",
			TiltDegrees:     25,
			AzimuthDegrees:  180,
			MonthlyUsageKWh: 900,
		},
		Address: models.Address{
			Street: "12 Sunrise Ct", City: "Austin", State: "TX", Zip: "78701",
			Latitude: 30.2672, Longitude: -97.7431,
		},
		InstallerIDs: installers,
	}
}

func newRFQFixture(t *testing.T, users ...*models.User) (RFQService, *fakeRFQRepo) {
	t.Helper()
	rfqRepo := newFakeRFQRepo()
	svc := NewRFQService(rfqRepo, newFakeUserRepo(users...))
	return svc, rfqRepo
}

func TestRFQService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a draft with a reference number", func(t *testing.T) {
		svc, _ := newRFQFixture(t, homeowner("h1"))
		rfq, err := svc.Create(ctx, "h1", validCreateRFQRequest("i1"))
		require.NoError(t, err)
		assert.Equal(t, models.RFQStatusDraft, rfq.Status)
		assert.Regexp(t, `^RFQ-[0-9A-F]{8}$`, rfq.ReferenceNumber)
		assert.Equal(t, "h1", rfq.HomeownerID)
	})

	t.Run("rejects non-homeowners", func(t *testing.T) {
		svc, _ := newRFQFixture(t, installer("i1"))
		_, err := svc.Create(ctx, "i1", validCreateRFQRequest())
		assert.ErrorIs(t, err, ErrWrongRole)
	})
}

func TestRFQService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("moves a draft to pending", func(t *testing.T) {
		svc, _ := newRFQFixture(t, homeowner("h1"))
		rfq, err := svc.Create(ctx, "h1", validCreateRFQRequest("i1", "i2"))
		require.NoError(t, err)

		submitted, err := svc.Submit(ctx, "h1", rfq.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RFQStatusPending, submitted.Status)
	})

	t.Run("requires at least one installer", func(t *testing.T) {
		svc, _ := newRFQFixture(t, homeowner("h1"))
		rfq, err := svc.Create(ctx, "h1", validCreateRFQRequest())
		require.NoError(t, err)

		_, err = svc.Submit(ctx, "h1", rfq.ID)
		assert.ErrorIs(t, err, ErrNoInstallersSelected)
	})

	t.Run("only the owner can submit", func(t *testing.T) {
		svc, _ := newRFQFixture(t, homeowner("h1"), homeowner("h2"))
		rfq, err := svc.Create(ctx, "h1", validCreateRFQRequest("i1"))
		require.NoError(t, err)

		_, err = svc.Submit(ctx, "h2", rfq.ID)
		assert.ErrorIs(t, err, ErrNotRFQOwner)
	})

	t.Run("cannot submit twice", func(t *testing.T) {
		svc, _ := newRFQFixture(t, homeowner("h1"))
		rfq, err := svc.Create(ctx, "h1", validCreateRFQRequest("i1"))
		require.NoError(t, err)
		_, err = svc.Submit(ctx, "h1", rfq.ID)
		require.NoError(t, err)

		_, err = svc.Submit(ctx, "h1", rfq.ID)
		assert.ErrorIs(t, err, ErrRFQNotEditable)
	})
}

func TestRFQService_Inbox(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRFQFixture(t, homeowner("h1"), installer("i1"))

	low := validCreateRFQRequest("i1")
	low.BudgetMaxUSD = 18000
	high := validCreateRFQRequest("i1")
	high.BudgetMaxUSD = 40000

	for _, req := range []models.CreateRFQRequest{low, high} {
		rfq, err := svc.Create(ctx, "h1", req)
		require.NoError(t, err)
		_, err = svc.Submit(ctx, "h1", rfq.ID)
		require.NoError(t, err)
	}

	t.Run("sorted by budget ceiling descending", func(t *testing.T) {
		inbox, err := svc.Inbox(ctx, "i1", true)
		require.NoError(t, err)
		require.Len(t, inbox, 2)
		assert.Equal(t, 40000.0, inbox[0].BudgetMaxUSD)
		assert.Equal(t, 18000.0, inbox[1].BudgetMaxUSD)
	})

	t.Run("rejects non-installers", func(t *testing.T) {
		_, err := svc.Inbox(ctx, "h1", false)
		assert.ErrorIs(t, err, ErrWrongRole)
	})
}

func TestRFQService_Decline(t *testing.T) {
	ctx := context.Background()

	submitRFQ := func(t *testing.T, svc RFQService, installers ...string) *models.RFQ {
		t.Helper()
		rfq, err := svc.Create(ctx, "h1", validCreateRFQRequest(installers...))
		require.NoError(t, err)
		submitted, err := svc.Submit(ctx, "h1", rfq.ID)
		require.NoError(t, err)
		return submitted
	}

	t.Run("removes the rfq from the installer's inbox", func(t *testing.T) {
		svc, _ := newRFQFixture(t, homeowner("h1"), installer("i1"), installer("i2"))
		rfq := submitRFQ(t, svc, "i1", "i2")

		require.NoError(t, svc.Decline(ctx, "i1", rfq.ID))

		inbox, err := svc.Inbox(ctx, "i1", false)
		require.NoError(t, err)
		assert.Empty(t, inbox)

		// Still visible to the other installer, and still pending.
		other, err := svc.Inbox(ctx, "i2", false)
		require.NoError(t, err)
		assert.Len(t, other, 1)
		assert.Equal(t, models.RFQStatusPending, other[0].Status)
	})

	t.Run("flips to declined when every installer declines", func(t *testing.T) {
		svc, repo := newRFQFixture(t, homeowner("h1"), installer("i1"), installer("i2"))
		rfq := submitRFQ(t, svc, "i1", "i2")

		require.NoError(t, svc.Decline(ctx, "i1", rfq.ID))
		require.NoError(t, svc.Decline(ctx, "i2", rfq.ID))

		stored, err := repo.GetByID(ctx, rfq.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RFQStatusDeclined, stored.Status)
	})

	t.Run("declining twice is a no-op", func(t *testing.T) {
		svc, repo := newRFQFixture(t, homeowner("h1"), installer("i1"), installer("i2"))
		rfq := submitRFQ(t, svc, "i1", "i2")

		require.NoError(t, svc.Decline(ctx, "i1", rfq.ID))
		require.NoError(t, svc.Decline(ctx, "i1", rfq.ID))

		stored, err := repo.GetByID(ctx, rfq.ID)
		require.NoError(t, err)
		assert.Len(t, stored.DeclinedBy, 1)
		assert.Equal(t, models.RFQStatusPending, stored.Status)
	})

	t.Run("uninvited installers cannot decline", func(t *testing.T) {
		svc, _ := newRFQFixture(t, homeowner("h1"), installer("i1"), installer("i3"))
		rfq := submitRFQ(t, svc, "i1")

		err := svc.Decline(ctx, "i3", rfq.ID)
		assert.ErrorIs(t, err, ErrNotInvitedInstaller)
	})
}

func TestRFQService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRFQFixture(t, homeowner("h1"))

	rfq, err := svc.Create(ctx, "h1", validCreateRFQRequest("i1"))
	require.NoError(t, err)

	t.Run("updates draft fields", func(t *testing.T) {
		size := 10.0
		updated, err := svc.Update(ctx, "h1", rfq.ID, models.UpdateRFQRequest{SystemSizeKW: &size})
		require.NoError(t, err)
		assert.Equal(t, 10.0, updated.SystemSizeKW)
	})

	t.Run("rejects an inverted budget", func(t *testing.T) {
		ceiling := 10.0
		_, err := svc.Update(ctx, "h1", rfq.ID, models.UpdateRFQRequest{BudgetMaxUSD: &ceiling})
		assert.Error(t, err)
	})

	t.Run("installer selection locked after submit", func(t *testing.T) {
		_, err := svc.Submit(ctx, "h1", rfq.ID)
		require.NoError(t, err)

		ids := []string{"i9"}
		_, err = svc.Update(ctx, "h1", rfq.ID, models.UpdateRFQRequest{InstallerIDs: &ids})
		assert.ErrorIs(t, err, ErrRFQNotEditable)
	})

	t.Run("pending rfqs can still be deleted", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, "h1", rfq.ID))
		_, err := svc.Get(ctx, "h1", rfq.ID)
		assert.ErrorIs(t, err, ErrRFQNotFound)
	})
}
