package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NetMeteringPolicy controls how exported energy is credited.
//
// With ExportRatePerKWh nil the policy is classic retail-rate net metering:
// surplus kWh are banked and drawn against later imports, and whatever
// remains in the bank at true-up is paid out at the avoided-cost rate.
//
// With ExportRatePerKWh set the policy is net billing: exports earn dollar
// credits at that rate, credits roll forward and offset energy charges, and
// the remaining balance is paid out at true-up.
type NetMeteringPolicy struct {
	ExportRatePerKWh *decimal.Decimal `json:"exportRatePerKWh,omitempty"`
	AvoidedCostRate  decimal.Decimal  `json:"avoidedCostRatePerKWh"`
}

// MonthlyReading is one billing month's metered energy.
type MonthlyReading struct {
	Month     int             `json:"month"` // 1-12
	ImportKWh decimal.Decimal `json:"importKWh"`
	ExportKWh decimal.Decimal `json:"exportKWh"`
}

// MonthlyResult is the outcome of netting one month.
type MonthlyResult struct {
	Month            int             `json:"month"`
	NetKWh           decimal.Decimal `json:"netKWh"` // import - export; negative means surplus
	BillableKWh      decimal.Decimal `json:"billableKWh"`
	EnergyChargeUSD  decimal.Decimal `json:"energyChargeUSD"`
	CreditEarnedUSD  decimal.Decimal `json:"creditEarnedUSD"`
	CreditAppliedUSD decimal.Decimal `json:"creditAppliedUSD"`
	BankedKWh        decimal.Decimal `json:"bankedKWh"`        // kWh bank balance after this month
	CreditBalanceUSD decimal.Decimal `json:"creditBalanceUSD"` // dollar credit balance after this month
	AmountDueUSD     decimal.Decimal `json:"amountDueUSD"`
}

// TrueUpResult settles whatever is banked at the end of a 12-month cycle.
type TrueUpResult struct {
	BankedKWh        decimal.Decimal `json:"bankedKWh"`
	CreditBalanceUSD decimal.Decimal `json:"creditBalanceUSD"`
	PayoutUSD        decimal.Decimal `json:"payoutUSD"`
}

// YearResult is a full true-up cycle: twelve netted months plus settlement.
type YearResult struct {
	Months        []MonthlyResult `json:"months"`
	TrueUp        TrueUpResult    `json:"trueUp"`
	TotalDueUSD   decimal.Decimal `json:"totalDueUSD"`
	TotalBillable decimal.Decimal `json:"totalBillableKWh"`
}

// BankState carries rollover state between months.
type BankState struct {
	KWh     decimal.Decimal `json:"kWh"`     // retail NEM kWh bank
	Dollars decimal.Decimal `json:"dollars"` // net-billing dollar credits
}

// NetMonth nets a single month against the schedule and policy, taking the
// opening bank state and returning the result plus the closing state.
//
// The amount due never drops below the fixed monthly charge: credits offset
// energy charges only, which is how NEM tariffs treat non-bypassable fixed
// charges.
func NetMonth(s RateSchedule, p NetMeteringPolicy, r MonthlyReading, opening BankState) (MonthlyResult, BankState, error) {
	if r.ImportKWh.IsNegative() || r.ExportKWh.IsNegative() {
		return MonthlyResult{}, opening, fmt.Errorf("%w: negative meter reading", ErrInvalidUsage)
	}
	if r.Month < 1 || r.Month > 12 {
		return MonthlyResult{}, opening, fmt.Errorf("%w: month %d out of range", ErrInvalidUsage, r.Month)
	}

	res := MonthlyResult{Month: r.Month, NetKWh: r.ImportKWh.Sub(r.ExportKWh)}
	closing := opening

	if p.ExportRatePerKWh == nil {
		// Retail-rate NEM: kWh banking.
		net := res.NetKWh
		if net.Sign() <= 0 {
			closing.KWh = closing.KWh.Add(net.Neg())
			res.BillableKWh = decimal.Zero
		} else {
			drawn := decimal.Min(net, closing.KWh)
			closing.KWh = closing.KWh.Sub(drawn)
			res.BillableKWh = net.Sub(drawn)
		}
		charge, err := s.energyChargeFor(res.BillableKWh)
		if err != nil {
			return MonthlyResult{}, opening, err
		}
		res.EnergyChargeUSD = charge
		res.AmountDueUSD = roundCents(s.FixedMonthlyCharge.Add(charge))
	} else {
		// Net billing: dollar credits at the export rate.
		res.BillableKWh = r.ImportKWh
		charge, err := s.energyChargeFor(r.ImportKWh)
		if err != nil {
			return MonthlyResult{}, opening, err
		}
		res.EnergyChargeUSD = charge
		res.CreditEarnedUSD = roundCents(r.ExportKWh.Mul(*p.ExportRatePerKWh))

		available := closing.Dollars.Add(res.CreditEarnedUSD)
		res.CreditAppliedUSD = decimal.Min(charge, available)
		closing.Dollars = available.Sub(res.CreditAppliedUSD)
		res.AmountDueUSD = roundCents(s.FixedMonthlyCharge.Add(charge).Sub(res.CreditAppliedUSD))
	}

	res.BankedKWh = closing.KWh
	res.CreditBalanceUSD = roundCents(closing.Dollars)
	return res, closing, nil
}

// energyChargeFor computes the energy charge for billable kWh, without the
// fixed charge. TOU schedules are approximated by billing net kWh at the
// consumption-weighted flat equivalent of the period rates; callers wanting
// exact TOU netting should pre-net per period and use CalculateBill.
func (s RateSchedule) energyChargeFor(kWh decimal.Decimal) (decimal.Decimal, error) {
	if err := s.Validate(); err != nil {
		return decimal.Decimal{}, err
	}
	switch s.Kind {
	case KindTiered:
		bill, err := CalculateBill(s, Usage{TotalKWh: kWh})
		if err != nil {
			return decimal.Decimal{}, err
		}
		return bill.EnergyChargeUSD, nil
	case KindTOU:
		// Flat equivalent: simple average of period rates weighted by
		// period length in hours.
		var weighted, hours decimal.Decimal
		for _, p := range s.Periods {
			span := decimal.NewFromInt(int64(p.EndHour - p.StartHour))
			weighted = weighted.Add(p.RatePerKWh.Mul(span))
			hours = hours.Add(span)
		}
		if hours.IsZero() {
			return decimal.Decimal{}, fmt.Errorf("%w: zero-length TOU periods", ErrInvalidSchedule)
		}
		return roundCents(kWh.Mul(weighted.Div(hours))), nil
	}
	return decimal.Decimal{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidSchedule, s.Kind)
}

// RunYear nets a full true-up cycle in month order and settles the bank.
// Readings must be non-empty and at most twelve months.
func RunYear(s RateSchedule, p NetMeteringPolicy, readings []MonthlyReading) (YearResult, error) {
	if len(readings) == 0 || len(readings) > 12 {
		return YearResult{}, fmt.Errorf("%w: need 1-12 monthly readings, got %d", ErrInvalidUsage, len(readings))
	}
	if p.AvoidedCostRate.IsNegative() {
		return YearResult{}, fmt.Errorf("%w: negative avoided-cost rate", ErrInvalidSchedule)
	}

	var (
		year YearResult
		b    BankState
	)
	for _, r := range readings {
		res, next, err := NetMonth(s, p, r, b)
		if err != nil {
			return YearResult{}, err
		}
		b = next
		year.Months = append(year.Months, res)
		year.TotalDueUSD = year.TotalDueUSD.Add(res.AmountDueUSD)
		year.TotalBillable = year.TotalBillable.Add(res.BillableKWh)
	}

	year.TrueUp = TrueUpResult{
		BankedKWh:        b.KWh,
		CreditBalanceUSD: roundCents(b.Dollars),
	}
	// Banked kWh pay out at avoided cost; leftover dollar credits pay out
	// at face value. The bank resets either way.
	year.TrueUp.PayoutUSD = roundCents(b.KWh.Mul(p.AvoidedCostRate).Add(b.Dollars))
	year.TotalDueUSD = roundCents(year.TotalDueUSD.Sub(year.TrueUp.PayoutUSD))
	return year, nil
}
