package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyProduction(t *testing.T) {
	annual := dec("6000")
	months := MonthlyProduction(annual)

	var sum decimal.Decimal
	for _, m := range months {
		assert.False(t, m.IsNegative())
		sum = sum.Add(m)
	}
	assert.True(t, sum.Equal(annual), "monthly production should sum to annual, got %s", sum)

	// Summer months outproduce winter months.
	assert.True(t, months[6].GreaterThan(months[0]), "July should beat January")
	assert.True(t, months[5].GreaterThan(months[11]), "June should beat December")
}

func TestCompareWithSolar(t *testing.T) {
	flat := RateSchedule{
		Name:               "flat",
		Kind:               KindTiered,
		FixedMonthlyCharge: dec("10"),
		Tiers:              []Tier{{UpToKWh: nil, RatePerKWh: dec("0.10")}},
	}
	policy := NetMeteringPolicy{AvoidedCostRate: dec("0.04")}

	var usage [12]decimal.Decimal
	for i := range usage {
		usage[i] = dec("1000")
	}

	t.Run("system production reduces the annual bill", func(t *testing.T) {
		system := SystemSpec{
			SizeKW:              dec("5"),
			AnnualProductionKWh: dec("6000"),
			InstalledCostUSD:    dec("15000"),
		}
		report, err := CompareWithSolar(flat, policy, usage, system)
		require.NoError(t, err)
		require.Len(t, report.Months, 12)

		// Pre-solar: 12 * (10 + 1000*0.10) = 1320.
		assert.True(t, report.PreSolarAnnualUSD.Equal(dec("1320")), "pre %s", report.PreSolarAnnualUSD)
		// All production self-consumed (monthly production < 1000 kWh),
		// so post-solar = 12*10 fixed + (12000-6000)*0.10 = 720.
		assert.True(t, report.PostSolarAnnualUSD.Equal(dec("720")), "post %s", report.PostSolarAnnualUSD)
		assert.True(t, report.AnnualSavingsUSD.Equal(dec("600")), "savings %s", report.AnnualSavingsUSD)

		for _, m := range report.Months {
			assert.True(t, m.PostSolarUSD.LessThanOrEqual(m.PreSolarUSD), "month %d", m.Month)
		}
	})

	t.Run("oversized system exports and gets trued up", func(t *testing.T) {
		system := SystemSpec{
			SizeKW:              dec("15"),
			AnnualProductionKWh: dec("20000"),
			InstalledCostUSD:    dec("40000"),
		}
		report, err := CompareWithSolar(flat, policy, usage, system)
		require.NoError(t, err)
		assert.True(t, report.AnnualSavingsUSD.GreaterThan(decimal.Zero))
		// Bill can't go below the fixed charges minus the true-up payout,
		// but savings can't exceed pre-solar plus the payout either.
		assert.True(t, report.PostSolarAnnualUSD.LessThan(report.PreSolarAnnualUSD))
	})

	t.Run("negative usage rejected", func(t *testing.T) {
		bad := usage
		bad[3] = dec("-5")
		_, err := CompareWithSolar(flat, policy, bad, SystemSpec{AnnualProductionKWh: dec("100")})
		assert.ErrorIs(t, err, ErrInvalidUsage)
	})
}

func TestEstimatePayback(t *testing.T) {
	t.Run("cost over savings, rounded to a decimal year", func(t *testing.T) {
		est, err := EstimatePayback(SystemSpec{InstalledCostUSD: dec("15000")}, dec("1200"))
		require.NoError(t, err)
		assert.True(t, est.PaybackYears.Equal(dec("12.5")), "years %s", est.PaybackYears)
	})

	t.Run("zero savings never pays back", func(t *testing.T) {
		_, err := EstimatePayback(SystemSpec{InstalledCostUSD: dec("15000")}, decimal.Zero)
		assert.ErrorIs(t, err, ErrInvalidUsage)
	})

	t.Run("zero cost rejected", func(t *testing.T) {
		_, err := EstimatePayback(SystemSpec{}, dec("1000"))
		assert.ErrorIs(t, err, ErrInvalidUsage)
	})
}
