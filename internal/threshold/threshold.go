package threshold

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidArgument is returned for inputs outside the domain of the formula
var ErrInvalidArgument = errors.New("invalid argument")

// Factor identifies a burn rate severity tier
type Factor int

const (
	FactorCriticalFast Factor = 14
	FactorCriticalSlow Factor = 7
	FactorWarningFast  Factor = 2
	FactorWarningSlow  Factor = 1
)

// budgetConsumption is the share of the error budget a tier may burn within its long window
var budgetConsumption = map[Factor]float64{
	FactorCriticalFast: 1.0 / 48,
	FactorCriticalSlow: 1.0 / 16,
	FactorWarningFast:  1.0 / 14,
	FactorWarningSlow:  1.0 / 7,
}

// defaultTrafficRatios are N_SLO / N_alert at steady traffic for a 30d SLO window
// (720h divided by the tier long window in hours)
var defaultTrafficRatios = map[Factor]float64{
	FactorCriticalFast: 720 / 1.067,
	FactorCriticalSlow: 720 / 6.433,
	FactorWarningFast:  720 / 25.717,
	FactorWarningSlow:  720 / 102.85,
}

// Factors returns the recognized factors in report order
func Factors() []Factor {
	return []Factor{FactorCriticalFast, FactorCriticalSlow, FactorWarningFast, FactorWarningSlow}
}

// Valid reports whether f is one of the recognized factors
func (f Factor) Valid() bool {
	_, ok := budgetConsumption[f]
	return ok
}

func (f Factor) String() string {
	switch f {
	case FactorCriticalFast:
		return "critical-fast"
	case FactorCriticalSlow:
		return "critical-slow"
	case FactorWarningFast:
		return "warning-fast"
	case FactorWarningSlow:
		return "warning-slow"
	default:
		return fmt.Sprintf("factor(%d)", int(f))
	}
}

// BudgetConsumption returns the error budget consumption constant for f
func BudgetConsumption(f Factor) (float64, bool) {
	v, ok := budgetConsumption[f]
	return v, ok
}

// DefaultTrafficRatio returns the steady-state traffic ratio for f
func DefaultTrafficRatio(f Factor) (float64, bool) {
	v, ok := defaultTrafficRatios[f]
	return v, ok
}

// Compute returns the dynamic burn rate threshold:
// trafficRatio × budget consumption(f) × (1 - target).
// A nil trafficRatio selects the steady-state default for f.
func Compute(target float64, f Factor, trafficRatio *float64) (float64, error) {
	consumption, ok := budgetConsumption[f]
	if !ok {
		return 0, fmt.Errorf("%w: unknown window factor %d", ErrInvalidArgument, int(f))
	}
	if err := ValidateTarget(target); err != nil {
		return 0, err
	}

	var ratio float64
	if trafficRatio == nil {
		ratio = defaultTrafficRatios[f]
	} else {
		ratio = *trafficRatio
		if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio <= 0 {
			return 0, fmt.Errorf("%w: traffic ratio must be positive, got %v", ErrInvalidArgument, ratio)
		}
	}

	return ratio * consumption * (1 - target), nil
}

// ComputeDefault is Compute with the steady-state traffic ratio
func ComputeDefault(target float64, f Factor) (float64, error) {
	return Compute(target, f, nil)
}

// StaticThreshold returns the fixed multi-window threshold f × (1 - target)
func StaticThreshold(target float64, f Factor) (float64, error) {
	if !f.Valid() {
		return 0, fmt.Errorf("%w: unknown window factor %d", ErrInvalidArgument, int(f))
	}
	if err := ValidateTarget(target); err != nil {
		return 0, err
	}
	return float64(f) * (1 - target), nil
}

// TrafficRatio returns N_SLO / N_alert from observed event counts
func TrafficRatio(nSLO, nAlert float64) (float64, error) {
	if !(nSLO > 0) || !(nAlert > 0) {
		return 0, fmt.Errorf("%w: event counts must be positive (slo=%v, alert=%v)", ErrInvalidArgument, nSLO, nAlert)
	}
	return nSLO / nAlert, nil
}

// WindowTrafficRatio is the traffic ratio expected at steady traffic,
// i.e. the SLO window divided by the alert window.
func WindowTrafficRatio(sloWindow, alertWindow time.Duration) (float64, error) {
	if sloWindow <= 0 || alertWindow <= 0 {
		return 0, fmt.Errorf("%w: windows must be positive (slo=%s, alert=%s)", ErrInvalidArgument, sloWindow, alertWindow)
	}
	return sloWindow.Hours() / alertWindow.Hours(), nil
}

// ValidateTarget returns ErrInvalidArgument unless target is in (0,1)
func ValidateTarget(target float64) error {
	// NaN fails both comparisons
	if !(target > 0 && target < 1) {
		return fmt.Errorf("%w: SLO target must be in (0,1), got %v", ErrInvalidArgument, target)
	}
	return nil
}
