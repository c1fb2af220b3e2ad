package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"solarify-backend-go/internal/billing"
)

// ErrUnknownAction is returned when a dispatch request names an action the
// calculator does not implement.
var ErrUnknownAction = errors.New("unknown action")

// ErrInvalidParams is returned when an action's parameter object cannot be
// decoded or fails validation.
var ErrInvalidParams = errors.New("invalid action parameters")

// billingService implements the BillingService interface. It is stateless;
// every call carries its full inputs.
type billingService struct{}

// NewBillingService creates a new BillingService instance.
func NewBillingService() BillingService {
	return &billingService{}
}

// scheduleRef selects a rate schedule: either one of the built-in catalog
// schedules by name, or a full client-supplied schedule.
type scheduleRef struct {
	Schedule       string                `json:"schedule,omitempty"`
	CustomSchedule *billing.RateSchedule `json:"customSchedule,omitempty"`
}

func (r scheduleRef) resolve() (billing.RateSchedule, error) {
	if r.CustomSchedule != nil {
		if err := r.CustomSchedule.Validate(); err != nil {
			return billing.RateSchedule{}, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		return *r.CustomSchedule, nil
	}
	s, err := billing.LookupSchedule(r.Schedule)
	if err != nil {
		return billing.RateSchedule{}, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return s, nil
}

func decodeParams(params []byte, out interface{}) error {
	if len(params) == 0 {
		params = []byte("{}")
	}
	if err := json.Unmarshal(params, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

type calculateBillParams struct {
	scheduleRef
	Usage billing.Usage `json:"usage"`
}

type compareWithSolarParams struct {
	scheduleRef
	Policy          billing.NetMeteringPolicy `json:"policy"`
	MonthlyUsageKWh [12]decimal.Decimal       `json:"monthlyUsageKWh"`
	System          billing.SystemSpec        `json:"system"`
}

type estimatePaybackParams struct {
	System           billing.SystemSpec `json:"system"`
	AnnualSavingsUSD decimal.Decimal    `json:"annualSavingsUSD"`
}

type monthlyNettingParams struct {
	scheduleRef
	Policy  billing.NetMeteringPolicy `json:"policy"`
	Reading billing.MonthlyReading    `json:"reading"`
	Opening billing.BankState         `json:"opening"`
}

type annualTrueUpParams struct {
	scheduleRef
	Policy   billing.NetMeteringPolicy `json:"policy"`
	Readings []billing.MonthlyReading  `json:"readings"`
}

// monthlyNettingResult pairs one month's outcome with the rollover state to
// feed into the next month's call.
type monthlyNettingResult struct {
	Result billing.MonthlyResult `json:"result"`
	Bank   billing.BankState     `json:"bank"`
}

// DispatchSolarBilling routes a utility-bill calculator action.
func (s *billingService) DispatchSolarBilling(ctx context.Context, action string, params []byte) (interface{}, error) {
	switch action {
	case "list-schedules":
		return map[string]interface{}{"schedules": billing.ScheduleNames()}, nil

	case "calculate-bill":
		var p calculateBillParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		schedule, err := p.resolve()
		if err != nil {
			return nil, err
		}
		bill, err := billing.CalculateBill(schedule, p.Usage)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		return bill, nil

	case "compare-with-solar":
		var p compareWithSolarParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		schedule, err := p.resolve()
		if err != nil {
			return nil, err
		}
		report, err := billing.CompareWithSolar(schedule, p.Policy, p.MonthlyUsageKWh, p.System)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		return report, nil

	case "estimate-payback":
		var p estimatePaybackParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		estimate, err := billing.EstimatePayback(p.System, p.AnnualSavingsUSD)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		return estimate, nil
	}
	return nil, fmt.Errorf("solar-billing action '%s': %w", action, ErrUnknownAction)
}

// DispatchNetMetering routes a net-metering calculator action.
func (s *billingService) DispatchNetMetering(ctx context.Context, action string, params []byte) (interface{}, error) {
	switch action {
	case "monthly-netting":
		var p monthlyNettingParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		schedule, err := p.resolve()
		if err != nil {
			return nil, err
		}
		result, bank, err := billing.NetMonth(schedule, p.Policy, p.Reading, p.Opening)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		return monthlyNettingResult{Result: result, Bank: bank}, nil

	case "annual-true-up":
		var p annualTrueUpParams
		if err := decodeParams(params, &p); err != nil {
			return nil, err
		}
		schedule, err := p.resolve()
		if err != nil {
			return nil, err
		}
		year, err := billing.RunYear(schedule, p.Policy, p.Readings)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
		return year, nil
	}
	return nil, fmt.Errorf("net-metering action '%s': %w", action, ErrUnknownAction)
}
