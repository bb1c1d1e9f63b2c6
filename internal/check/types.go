package check

import (
	"context"
	"time"

	"github.com/samijaber1/burncheck/internal/policy"
	"github.com/samijaber1/burncheck/internal/slo"
	"github.com/samijaber1/burncheck/internal/threshold"
)

// MetricsAdapter defines the interface for fetching metrics.
// QueryWindow runs an instant query with {{window}} replaced by window.
// An empty result is not an error; it is reported with Sample.Found=false.
type MetricsAdapter interface {
	QueryWindow(ctx context.Context, query string, window string) (Sample, error)
}

// Sample is the value of an instant query
type Sample struct {
	Query     string
	Value     float64
	Timestamp *time.Time
	Found     bool
	// Series is the number of series returned; Value is taken from the first
	Series int
}

// Measurement is a queried value as used by a check.
// A NaN sample is not Found.
type Measurement struct {
	Query     string
	Value     float64
	Found     bool
	NaN       bool
	Timestamp *time.Time
	Series    int
	Err       error
}

// Thresholds holds the recomputed alerting thresholds of a check
type Thresholds struct {
	TrafficRatio      float64
	SteadyRatio       float64
	BudgetConsumption float64
	Dynamic           float64
	SteadyDynamic     float64
	Static            float64
	DynamicToStatic   float64
}

// RuleStatus reports whether a burn rate recording rule has data
type RuleStatus struct {
	Tier   string
	Kind   string // Short or Long
	Window time.Duration
	Rule   string
	Found  bool
}

// Result is the outcome of validating one check
type Result struct {
	Name        string
	Indicator   string
	Target      float64
	ErrorBudget float64
	Window      string
	SLOWindow   time.Duration
	Factor      threshold.Factor
	Tier        slo.Window

	LatencyThreshold string

	BurnRate   Measurement
	SLOTotal   Measurement
	AlertTotal Measurement

	// Thresholds is nil when the traffic counts were unavailable
	Thresholds *Thresholds
	// Status is nil when either the thresholds or the burn rate are unavailable
	Status *policy.Status

	Rules []RuleStatus

	Warnings []string
	Errors   []string
}

// Passed reports whether every required external value was retrieved
func (r *Result) Passed() bool {
	return len(r.Errors) == 0
}

// MissingRules returns the rules without data
func (r *Result) MissingRules() []RuleStatus {
	var missing []RuleStatus
	for _, rule := range r.Rules {
		if !rule.Found {
			missing = append(missing, rule)
		}
	}
	return missing
}

// Summary collects the results of a validation run
type Summary struct {
	Results []*Result
}

// Passed reports whether all checks passed
func (s Summary) Passed() bool {
	for _, r := range s.Results {
		if !r.Passed() {
			return false
		}
	}
	return true
}

// Failed returns the number of failed checks
func (s Summary) Failed() int {
	n := 0
	for _, r := range s.Results {
		if !r.Passed() {
			n++
		}
	}
	return n
}
