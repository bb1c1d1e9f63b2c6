package check

import (
	"context"
	"fmt"
	"math"
	"time"

	"k8s.io/klog/v2"

	"github.com/samijaber1/burncheck/internal/policy"
	"github.com/samijaber1/burncheck/internal/slo"
	"github.com/samijaber1/burncheck/internal/threshold"
)

// Runner validates checks against deployed recording rules
type Runner struct {
	adapter      MetricsAdapter
	policyEngine *policy.Engine
}

// NewRunner creates a new runner with the given metrics adapter
func NewRunner(adapter MetricsAdapter) *Runner {
	return &Runner{
		adapter:      adapter,
		policyEngine: policy.NewEngine(),
	}
}

// RunAll validates checks one after the other, in order
func (r *Runner) RunAll(ctx context.Context, checks []slo.CheckWithFile) Summary {
	var summary Summary
	for _, c := range checks {
		summary.Results = append(summary.Results, r.Run(ctx, c.Check))
	}
	return summary
}

// Run validates a single check. Missing external values are recorded on the
// result as warnings or errors; only errors fail the check.
func (r *Runner) Run(ctx context.Context, c *slo.Check) *Result {
	result := &Result{
		Name:             c.Metadata.Name,
		Indicator:        c.Spec.Indicator,
		Target:           c.Spec.Target,
		ErrorBudget:      c.ErrorBudget(),
		Window:           c.Spec.Window,
		Factor:           c.TierFactor(),
		LatencyThreshold: c.Spec.LatencyThreshold,
	}

	if errs := slo.ValidateCheck(c.Metadata.Name, c); len(errs) > 0 {
		for _, e := range errs {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", e.Path, e.Message))
		}
		return result
	}

	// ValidateCheck guarantees a parseable window and a known factor
	sloWindow, _ := c.SLOWindow()
	tier, _ := slo.WindowFor(sloWindow, result.Factor)
	result.SLOWindow = sloWindow
	result.Tier = tier

	result.BurnRate = r.measure(ctx, result, c.CurrentBurnRateQuery(tier.Short), slo.FormatDuration(tier.Short))
	if !result.BurnRate.Found {
		result.Warnings = append(result.Warnings, "could not retrieve burn rate value")
	}

	result.SLOTotal = r.measure(ctx, result, c.Spec.SLOTotalQuery, "")
	if !result.SLOTotal.Found {
		result.Errors = append(result.Errors, "could not retrieve N_SLO value")
		return result
	}

	result.AlertTotal = r.measure(ctx, result, c.Spec.AlertTotalQuery, slo.FormatDuration(tier.Long))
	if !result.AlertTotal.Found {
		result.Warnings = append(result.Warnings, fmt.Sprintf("could not retrieve N_%s value", slo.FormatDuration(tier.Long)))
	}

	if result.AlertTotal.Found {
		r.computeThresholds(c, result)
	}

	r.checkRecordingRules(ctx, c, result)

	return result
}

func (r *Runner) computeThresholds(c *slo.Check, result *Result) {
	ratio, err := threshold.TrafficRatio(result.SLOTotal.Value, result.AlertTotal.Value)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("dynamic threshold skipped: %v", err))
		return
	}

	dynamic, err := threshold.Compute(c.Spec.Target, result.Factor, &ratio)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("compute threshold: %v", err))
		return
	}

	static, err := threshold.StaticThreshold(c.Spec.Target, result.Factor)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("compute static threshold: %v", err))
		return
	}

	consumption, _ := threshold.BudgetConsumption(result.Factor)
	thresholds := &Thresholds{
		TrafficRatio:      ratio,
		BudgetConsumption: consumption,
		Dynamic:           dynamic,
		Static:            static,
		DynamicToStatic:   dynamic / static,
	}

	if steady, err := threshold.WindowTrafficRatio(result.SLOWindow, result.Tier.Long); err == nil {
		thresholds.SteadyRatio = steady
		thresholds.SteadyDynamic, _ = threshold.Compute(c.Spec.Target, result.Factor, &steady)
	}

	result.Thresholds = thresholds

	if result.BurnRate.Found {
		result.Status = r.policyEngine.Evaluate(result.BurnRate.Value, dynamic, c.Spec.Target)
	}
}

func (r *Runner) checkRecordingRules(ctx context.Context, c *slo.Check, result *Result) {
	tiers := slo.Windows(result.SLOWindow)

	// tiers share windows (6h26m on 30d), each rule is queried once
	found := make(map[time.Duration]bool)
	for _, w := range slo.BurnRateWindows(tiers) {
		// a NaN sample still shows the rule is deployed
		m := r.measure(ctx, result, c.RecordingRule(w), "")
		found[w] = m.Found || m.NaN
	}

	for _, w := range tiers {
		result.Rules = append(result.Rules,
			ruleStatus(c, w.Name(), "Short", w.Short, found[w.Short]),
			ruleStatus(c, w.Name(), "Long", w.Long, found[w.Long]),
		)
	}

	if missing := result.MissingRules(); len(missing) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("%d of %d recording rules missing", len(missing), len(result.Rules)))
	}
}

func ruleStatus(c *slo.Check, tier, kind string, window time.Duration, found bool) RuleStatus {
	return RuleStatus{
		Tier:   tier,
		Kind:   kind,
		Window: window,
		Rule:   c.RuleName(window),
		Found:  found,
	}
}

// measure runs a query; query errors count as a missing value.
// Extra series and NaN samples are recorded as warnings on result.
func (r *Runner) measure(ctx context.Context, result *Result, query, window string) Measurement {
	sample, err := r.adapter.QueryWindow(ctx, query, window)
	if err != nil {
		klog.Warningf("query failed: %v", err)
		return Measurement{Query: query, Err: err}
	}

	m := Measurement{
		Query:     sample.Query,
		Value:     sample.Value,
		Found:     sample.Found,
		Timestamp: sample.Timestamp,
		Series:    sample.Series,
	}

	if m.Series > 1 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s returned %d series, using the first", m.Query, m.Series))
	}

	// 0/0 ratios come back as NaN when a window saw no events
	if m.Found && math.IsNaN(m.Value) {
		m.Found = false
		m.NaN = true
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s returned NaN, treating it as missing", m.Query))
	}

	return m
}
