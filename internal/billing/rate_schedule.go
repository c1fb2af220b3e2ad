// Package billing implements the utility rate, net-metering, and solar
// savings calculators behind the /api/solar-billing and /api/net-metering
// endpoints. All energy and money arithmetic uses decimals; results are
// rounded to cents only when a bill is assembled.
package billing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ScheduleKind distinguishes the two supported rate structures.
type ScheduleKind string

const (
	KindTiered ScheduleKind = "tiered"
	KindTOU    ScheduleKind = "tou"
)

var (
	ErrUnknownSchedule  = errors.New("billing: unknown rate schedule")
	ErrInvalidSchedule  = errors.New("billing: invalid rate schedule")
	ErrInvalidUsage     = errors.New("billing: invalid usage")
	ErrMissingPeriodUse = errors.New("billing: usage missing for TOU period")
)

// Tier is one block of a tiered schedule. UpToKWh is the cumulative upper
// bound of the block; nil marks the open-ended last tier. The billing engine
// treats the last tier as open-ended either way, so a bound on it never
// leaves usage unbilled.
type Tier struct {
	UpToKWh    *decimal.Decimal `json:"upToKWh,omitempty"`
	RatePerKWh decimal.Decimal  `json:"ratePerKWh"`
}

// TOUPeriod is a named time-of-use window, e.g. peak 16:00-21:00.
// Hours are half-open [StartHour, EndHour) in local time.
type TOUPeriod struct {
	Name       string          `json:"name"`
	StartHour  int             `json:"startHour"`
	EndHour    int             `json:"endHour"`
	RatePerKWh decimal.Decimal `json:"ratePerKWh"`
}

// RateSchedule is a utility tariff: a fixed monthly charge plus either
// ascending tiered blocks or named TOU periods.
type RateSchedule struct {
	Name               string          `json:"name"`
	Utility            string          `json:"utility,omitempty"`
	Kind               ScheduleKind    `json:"kind"`
	FixedMonthlyCharge decimal.Decimal `json:"fixedMonthlyCharge"`
	Tiers              []Tier          `json:"tiers,omitempty"`
	Periods            []TOUPeriod     `json:"periods,omitempty"`
}

// Validate checks structural invariants: tier bounds strictly ascending,
// all rates non-negative, TOU hours within a day, and the tier/period list
// matching the declared kind.
func (s RateSchedule) Validate() error {
	if s.FixedMonthlyCharge.IsNegative() {
		return fmt.Errorf("%w: negative fixed monthly charge", ErrInvalidSchedule)
	}
	switch s.Kind {
	case KindTiered:
		if len(s.Tiers) == 0 {
			return fmt.Errorf("%w: tiered schedule %q has no tiers", ErrInvalidSchedule, s.Name)
		}
		var prev *decimal.Decimal
		for i, t := range s.Tiers {
			if t.RatePerKWh.IsNegative() {
				return fmt.Errorf("%w: tier %d has negative rate", ErrInvalidSchedule, i)
			}
			if t.UpToKWh == nil {
				if i != len(s.Tiers)-1 {
					return fmt.Errorf("%w: only the last tier may be open-ended", ErrInvalidSchedule)
				}
				continue
			}
			if !t.UpToKWh.IsPositive() {
				return fmt.Errorf("%w: tier %d upper bound must be positive", ErrInvalidSchedule, i)
			}
			if prev != nil && t.UpToKWh.LessThanOrEqual(*prev) {
				return fmt.Errorf("%w: tier bounds must be strictly ascending", ErrInvalidSchedule)
			}
			prev = t.UpToKWh
		}
	case KindTOU:
		if len(s.Periods) == 0 {
			return fmt.Errorf("%w: TOU schedule %q has no periods", ErrInvalidSchedule, s.Name)
		}
		seen := make(map[string]bool, len(s.Periods))
		for i, p := range s.Periods {
			if p.Name == "" {
				return fmt.Errorf("%w: period %d has no name", ErrInvalidSchedule, i)
			}
			if seen[p.Name] {
				return fmt.Errorf("%w: duplicate period name %q", ErrInvalidSchedule, p.Name)
			}
			seen[p.Name] = true
			if p.RatePerKWh.IsNegative() {
				return fmt.Errorf("%w: period %q has negative rate", ErrInvalidSchedule, p.Name)
			}
			if p.StartHour < 0 || p.StartHour > 23 || p.EndHour < 1 || p.EndHour > 24 {
				return fmt.Errorf("%w: period %q hours out of range", ErrInvalidSchedule, p.Name)
			}
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidSchedule, s.Kind)
	}
	return nil
}

// roundCents rounds a dollar amount to cents, half away from zero.
func roundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
