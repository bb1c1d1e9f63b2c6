package policy

import (
	"fmt"
	"math"

	"github.com/samijaber1/burncheck/internal/threshold"
)

// Engine compares observed error rates with dynamic and static thresholds
type Engine struct{}

// NewEngine creates a new policy engine
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate decides whether currentErrorRate would alert against the dynamic
// threshold. The alert fires only when the rate strictly exceeds it.
func (e *Engine) Evaluate(currentErrorRate, dynamic, target float64) *Status {
	status := &Status{
		Decision:         DecisionOK,
		CurrentBurnRate:  currentErrorRate,
		DynamicThreshold: dynamic,
	}

	if math.IsNaN(currentErrorRate) {
		status.Decision = DecisionUnknown
		status.Reason = "current rate is NaN, no events in the window"
		return status
	}

	status.BudgetMultiple = ComputeBurnRate(currentErrorRate, target)

	if currentErrorRate > dynamic {
		status.Decision = DecisionAlert
		status.Reason = fmt.Sprintf("current rate %s exceeds threshold %s",
			threshold.Format(currentErrorRate), threshold.Format(dynamic))
		return status
	}

	if dynamic > 0 {
		status.MarginPercent = (dynamic - currentErrorRate) / dynamic * 100
	}
	status.Reason = fmt.Sprintf("current rate is %.1f%% below threshold", status.MarginPercent)

	return status
}

// ComputeBurnRate calculates the burn rate from error rate and objective
// burn_rate = error_rate / error_budget
// where error_budget = 1 - objective
func ComputeBurnRate(errorRate, objective float64) float64 {
	errorBudget := 1 - objective
	if errorBudget <= 0 {
		return 0
	}
	return errorRate / errorBudget
}
