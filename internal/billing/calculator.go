package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SystemSpec describes an installed (or proposed) PV system.
type SystemSpec struct {
	SizeKW              decimal.Decimal `json:"sizeKW"`
	AnnualProductionKWh decimal.Decimal `json:"annualProductionKWh"`
	InstalledCostUSD    decimal.Decimal `json:"installedCostUSD"`
}

// monthlyShape distributes annual production across months for a fixed-tilt
// northern-hemisphere array. Thousandths, summing to 1000.
var monthlyShape = [12]int64{55, 65, 85, 95, 105, 110, 115, 105, 90, 75, 55, 45}

// MonthlyProduction splits annual production into twelve monthly figures
// using the default seasonal shape.
func MonthlyProduction(annualKWh decimal.Decimal) [12]decimal.Decimal {
	var out [12]decimal.Decimal
	thousand := decimal.NewFromInt(1000)
	for i, share := range monthlyShape {
		out[i] = annualKWh.Mul(decimal.NewFromInt(share)).Div(thousand)
	}
	return out
}

// MonthlyComparison is one month's bill with and without the system.
type MonthlyComparison struct {
	Month         int             `json:"month"`
	UsageKWh      decimal.Decimal `json:"usageKWh"`
	ProductionKWh decimal.Decimal `json:"productionKWh"`
	PreSolarUSD   decimal.Decimal `json:"preSolarUSD"`
	PostSolarUSD  decimal.Decimal `json:"postSolarUSD"`
}

// SavingsReport compares a year of bills with and without a system.
type SavingsReport struct {
	Months             []MonthlyComparison `json:"months"`
	PreSolarAnnualUSD  decimal.Decimal     `json:"preSolarAnnualUSD"`
	PostSolarAnnualUSD decimal.Decimal     `json:"postSolarAnnualUSD"`
	AnnualSavingsUSD   decimal.Decimal     `json:"annualSavingsUSD"`
}

// CompareWithSolar computes pre- and post-solar annual bills for a usage
// profile under the given schedule and net-metering policy.
//
// Production first offsets same-month usage behind the meter; the remainder
// is exported. Imports and exports then run through the net-metering engine
// for the post-solar year.
func CompareWithSolar(s RateSchedule, p NetMeteringPolicy, monthlyUsageKWh [12]decimal.Decimal, system SystemSpec) (SavingsReport, error) {
	if err := s.Validate(); err != nil {
		return SavingsReport{}, err
	}
	if system.AnnualProductionKWh.IsNegative() {
		return SavingsReport{}, fmt.Errorf("%w: negative annual production", ErrInvalidUsage)
	}

	production := MonthlyProduction(system.AnnualProductionKWh)
	readings := make([]MonthlyReading, 0, 12)
	report := SavingsReport{}

	for i := 0; i < 12; i++ {
		usage := monthlyUsageKWh[i]
		if usage.IsNegative() {
			return SavingsReport{}, fmt.Errorf("%w: negative usage for month %d", ErrInvalidUsage, i+1)
		}
		pre, err := CalculateBill(s, usageFor(s, usage))
		if err != nil {
			return SavingsReport{}, err
		}

		selfConsumed := decimal.Min(usage, production[i])
		readings = append(readings, MonthlyReading{
			Month:     i + 1,
			ImportKWh: usage.Sub(selfConsumed),
			ExportKWh: production[i].Sub(selfConsumed),
		})
		report.Months = append(report.Months, MonthlyComparison{
			Month:         i + 1,
			UsageKWh:      usage,
			ProductionKWh: production[i],
			PreSolarUSD:   pre.TotalUSD,
		})
		report.PreSolarAnnualUSD = report.PreSolarAnnualUSD.Add(pre.TotalUSD)
	}

	year, err := RunYear(s, p, readings)
	if err != nil {
		return SavingsReport{}, err
	}
	for i, m := range year.Months {
		report.Months[i].PostSolarUSD = m.AmountDueUSD
	}
	report.PostSolarAnnualUSD = year.TotalDueUSD
	report.AnnualSavingsUSD = roundCents(report.PreSolarAnnualUSD.Sub(report.PostSolarAnnualUSD))
	report.PreSolarAnnualUSD = roundCents(report.PreSolarAnnualUSD)
	report.PostSolarAnnualUSD = roundCents(report.PostSolarAnnualUSD)
	return report, nil
}

// usageFor shapes total monthly kWh into the Usage a schedule needs. For
// TOU schedules, without an hourly profile the usage is split across
// periods in proportion to period length.
func usageFor(s RateSchedule, totalKWh decimal.Decimal) Usage {
	u := Usage{TotalKWh: totalKWh}
	if s.Kind != KindTOU {
		return u
	}
	u.ByPeriod = make(map[string]decimal.Decimal, len(s.Periods))
	var hours int64
	for _, p := range s.Periods {
		hours += int64(p.EndHour - p.StartHour)
	}
	if hours == 0 {
		return u
	}
	day := decimal.NewFromInt(hours)
	for _, p := range s.Periods {
		span := decimal.NewFromInt(int64(p.EndHour - p.StartHour))
		u.ByPeriod[p.Name] = totalKWh.Mul(span).Div(day)
	}
	return u
}

// PaybackEstimate is a simple payback calculation for a system purchase.
type PaybackEstimate struct {
	InstalledCostUSD decimal.Decimal `json:"installedCostUSD"`
	AnnualSavingsUSD decimal.Decimal `json:"annualSavingsUSD"`
	PaybackYears     decimal.Decimal `json:"paybackYears"`
}

// EstimatePayback divides installed cost by annual savings. Savings must be
// positive; a system that saves nothing never pays back.
func EstimatePayback(system SystemSpec, annualSavingsUSD decimal.Decimal) (PaybackEstimate, error) {
	if system.InstalledCostUSD.Sign() <= 0 {
		return PaybackEstimate{}, fmt.Errorf("%w: installed cost must be positive", ErrInvalidUsage)
	}
	if annualSavingsUSD.Sign() <= 0 {
		return PaybackEstimate{}, fmt.Errorf("%w: annual savings must be positive for payback", ErrInvalidUsage)
	}
	return PaybackEstimate{
		InstalledCostUSD: system.InstalledCostUSD,
		AnnualSavingsUSD: annualSavingsUSD,
		PaybackYears:     system.InstalledCostUSD.Div(annualSavingsUSD).Round(1),
	}, nil
}
