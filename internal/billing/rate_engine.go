package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Usage is one month of consumption. For TOU schedules ByPeriod must carry
// an entry per schedule period (kWh); TotalKWh is used for tiered schedules
// and as a cross-check for TOU.
type Usage struct {
	TotalKWh decimal.Decimal            `json:"totalKWh"`
	ByPeriod map[string]decimal.Decimal `json:"byPeriod,omitempty"`
}

// BillLine is one charge component on a computed bill.
type BillLine struct {
	Label      string          `json:"label"`
	KWh        decimal.Decimal `json:"kWh"`
	RatePerKWh decimal.Decimal `json:"ratePerKWh"`
	AmountUSD  decimal.Decimal `json:"amountUSD"`
}

// Bill is one month's computed utility bill.
type Bill struct {
	Schedule        string          `json:"schedule"`
	FixedChargeUSD  decimal.Decimal `json:"fixedChargeUSD"`
	EnergyChargeUSD decimal.Decimal `json:"energyChargeUSD"`
	TotalUSD        decimal.Decimal `json:"totalUSD"`
	Lines           []BillLine      `json:"lines"`
}

// CalculateBill computes a monthly bill for the given usage under the given
// schedule. The schedule is validated first so callers can pass
// client-supplied custom schedules.
func CalculateBill(s RateSchedule, u Usage) (Bill, error) {
	if err := s.Validate(); err != nil {
		return Bill{}, err
	}
	if u.TotalKWh.IsNegative() {
		return Bill{}, fmt.Errorf("%w: negative total kWh", ErrInvalidUsage)
	}

	bill := Bill{
		Schedule:       s.Name,
		FixedChargeUSD: roundCents(s.FixedMonthlyCharge),
	}

	switch s.Kind {
	case KindTiered:
		remaining := u.TotalKWh
		var floor decimal.Decimal
		for i, t := range s.Tiers {
			if remaining.IsZero() {
				break
			}
			block := remaining
			// The last tier absorbs all remaining usage even when it
			// carries a bound, so no kWh ever goes unbilled.
			if t.UpToKWh != nil && i < len(s.Tiers)-1 {
				width := t.UpToKWh.Sub(floor)
				if block.GreaterThan(width) {
					block = width
				}
				floor = *t.UpToKWh
			}
			amount := block.Mul(t.RatePerKWh)
			bill.Lines = append(bill.Lines, BillLine{
				Label:      tierLabel(t),
				KWh:        block,
				RatePerKWh: t.RatePerKWh,
				AmountUSD:  roundCents(amount),
			})
			bill.EnergyChargeUSD = bill.EnergyChargeUSD.Add(amount)
			remaining = remaining.Sub(block)
		}
	case KindTOU:
		for _, p := range s.Periods {
			kwh, ok := u.ByPeriod[p.Name]
			if !ok {
				return Bill{}, fmt.Errorf("%w: %q", ErrMissingPeriodUse, p.Name)
			}
			if kwh.IsNegative() {
				return Bill{}, fmt.Errorf("%w: negative kWh for period %q", ErrInvalidUsage, p.Name)
			}
			amount := kwh.Mul(p.RatePerKWh)
			bill.Lines = append(bill.Lines, BillLine{
				Label:      p.Name,
				KWh:        kwh,
				RatePerKWh: p.RatePerKWh,
				AmountUSD:  roundCents(amount),
			})
			bill.EnergyChargeUSD = bill.EnergyChargeUSD.Add(amount)
		}
	}

	bill.EnergyChargeUSD = roundCents(bill.EnergyChargeUSD)
	bill.TotalUSD = bill.FixedChargeUSD.Add(bill.EnergyChargeUSD)
	return bill, nil
}

func tierLabel(t Tier) string {
	if t.UpToKWh == nil {
		return "tier (open-ended)"
	}
	return fmt.Sprintf("tier up to %s kWh", t.UpToKWh.String())
}

// defaultSchedules is the built-in tariff catalog. Real deployments would
// load utility-specific tariffs; these cover the common residential shapes.
var defaultSchedules = map[string]RateSchedule{
	"residential-tiered": {
		Name:               "residential-tiered",
		Kind:               KindTiered,
		FixedMonthlyCharge: decimal.NewFromFloat(12.00),
		Tiers: []Tier{
			{UpToKWh: decPtr(decimal.NewFromInt(500)), RatePerKWh: decimal.NewFromFloat(0.12)},
			{UpToKWh: decPtr(decimal.NewFromInt(1000)), RatePerKWh: decimal.NewFromFloat(0.18)},
			{UpToKWh: nil, RatePerKWh: decimal.NewFromFloat(0.26)},
		},
	},
	"residential-tou": {
		Name:               "residential-tou",
		Kind:               KindTOU,
		FixedMonthlyCharge: decimal.NewFromFloat(10.00),
		Periods: []TOUPeriod{
			{Name: "off-peak", StartHour: 0, EndHour: 16, RatePerKWh: decimal.NewFromFloat(0.10)},
			{Name: "peak", StartHour: 16, EndHour: 21, RatePerKWh: decimal.NewFromFloat(0.32)},
			{Name: "shoulder", StartHour: 21, EndHour: 24, RatePerKWh: decimal.NewFromFloat(0.15)},
		},
	},
}

// LookupSchedule returns a built-in schedule by name.
func LookupSchedule(name string) (RateSchedule, error) {
	s, ok := defaultSchedules[name]
	if !ok {
		return RateSchedule{}, fmt.Errorf("%w: %q", ErrUnknownSchedule, name)
	}
	return s, nil
}

// ScheduleNames lists the built-in schedules.
func ScheduleNames() []string {
	names := make([]string, 0, len(defaultSchedules))
	for name := range defaultSchedules {
		names = append(names, name)
	}
	return names
}

func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }
