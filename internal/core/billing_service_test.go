package core

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarify-backend-go/internal/billing"
)

func TestBillingService_DispatchSolarBilling(t *testing.T) {
	ctx := context.Background()
	svc := NewBillingService()

	t.Run("list-schedules", func(t *testing.T) {
		result, err := svc.DispatchSolarBilling(ctx, "list-schedules", nil)
		require.NoError(t, err)
		names := result.(map[string]interface{})["schedules"].([]string)
		assert.Contains(t, names, "residential-tiered")
		assert.Contains(t, names, "residential-tou")
	})

	t.Run("calculate-bill with a catalog schedule", func(t *testing.T) {
		params := []byte(`{"schedule":"residential-tiered","usage":{"totalKWh":"750"}}`)
		result, err := svc.DispatchSolarBilling(ctx, "calculate-bill", params)
		require.NoError(t, err)

		bill := result.(billing.Bill)
		assert.Equal(t, "117", bill.TotalUSD.String())
	})

	t.Run("calculate-bill with a custom schedule", func(t *testing.T) {
		params := []byte(`{
			"customSchedule": {
				"name": "flat-test",
				"kind": "tiered",
				"fixedMonthlyCharge": "5",
				"tiers": [{"ratePerKWh": "0.20"}]
			},
			"usage": {"totalKWh": "100"}
		}`)
		result, err := svc.DispatchSolarBilling(ctx, "calculate-bill", params)
		require.NoError(t, err)
		bill := result.(billing.Bill)
		assert.Equal(t, "25", bill.TotalUSD.String())
	})

	t.Run("estimate-payback", func(t *testing.T) {
		params := []byte(`{
			"system": {"sizeKW": "8", "annualProductionKWh": "12000", "installedCostUSD": "15000"},
			"annualSavingsUSD": "1200"
		}`)
		result, err := svc.DispatchSolarBilling(ctx, "estimate-payback", params)
		require.NoError(t, err)
		estimate := result.(billing.PaybackEstimate)
		assert.Equal(t, "12.5", estimate.PaybackYears.String())
	})

	t.Run("unknown action", func(t *testing.T) {
		_, err := svc.DispatchSolarBilling(ctx, "mine-bitcoin", nil)
		assert.ErrorIs(t, err, ErrUnknownAction)
	})

	t.Run("malformed params", func(t *testing.T) {
		_, err := svc.DispatchSolarBilling(ctx, "calculate-bill", []byte(`{"usage":`))
		assert.ErrorIs(t, err, ErrInvalidParams)
	})

	t.Run("unknown schedule name", func(t *testing.T) {
		_, err := svc.DispatchSolarBilling(ctx, "calculate-bill", []byte(`{"schedule":"industrial-x","usage":{"totalKWh":"10"}}`))
		assert.ErrorIs(t, err, ErrInvalidParams)
	})
}

func TestBillingService_DispatchNetMetering(t *testing.T) {
	ctx := context.Background()
	svc := NewBillingService()

	t.Run("monthly-netting returns the rollover bank", func(t *testing.T) {
		params := []byte(`{
			"schedule": "residential-tiered",
			"policy": {"avoidedCostRatePerKWh": "0.05"},
			"reading": {"month": 6, "importKWh": "100", "exportKWh": "400"},
			"opening": {}
		}`)
		result, err := svc.DispatchNetMetering(ctx, "monthly-netting", params)
		require.NoError(t, err)

		netting := result.(monthlyNettingResult)
		assert.Equal(t, "300", netting.Bank.KWh.String())
		// Surplus month still owes the fixed charge.
		assert.Equal(t, "12", netting.Result.AmountDueUSD.String())
	})

	t.Run("annual-true-up requires a full year", func(t *testing.T) {
		params := []byte(`{
			"schedule": "residential-tiered",
			"policy": {"avoidedCostRatePerKWh": "0.05"},
			"readings": [{"month": 1, "importKWh": "500", "exportKWh": "0"}]
		}`)
		_, err := svc.DispatchNetMetering(ctx, "annual-true-up", params)
		assert.ErrorIs(t, err, ErrInvalidParams)
	})

	t.Run("annual-true-up settles the bank", func(t *testing.T) {
		readings := make([]billing.MonthlyReading, 0, 12)
		for m := 1; m <= 12; m++ {
			readings = append(readings, billing.MonthlyReading{Month: m})
		}
		raw, err := json.Marshal(map[string]interface{}{
			"schedule": "residential-tiered",
			"policy":   map[string]string{"avoidedCostRatePerKWh": "0.05"},
			"readings": readings,
		})
		require.NoError(t, err)

		result, err := svc.DispatchNetMetering(ctx, "annual-true-up", raw)
		require.NoError(t, err)
		year := result.(billing.YearResult)
		assert.Len(t, year.Months, 12)
	})

	t.Run("unknown action", func(t *testing.T) {
		_, err := svc.DispatchNetMetering(ctx, "teleport-energy", nil)
		assert.ErrorIs(t, err, ErrUnknownAction)
	})
}
