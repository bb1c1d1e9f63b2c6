package report

import (
	"fmt"
	"io"
	"time"

	"github.com/samijaber1/burncheck/internal/check"
	"github.com/samijaber1/burncheck/internal/policy"
	"github.com/samijaber1/burncheck/internal/slo"
	"github.com/samijaber1/burncheck/internal/threshold"
)

// RenderCheck prints the validation steps of one check
func RenderCheck(w io.Writer, r *check.Result) {
	pr := newPrinter(w)

	pr.banner(fmt.Sprintf("VALIDATING %s SLO: %s", indicatorLabel(r.Indicator), r.Name))
	pr.blank()
	pr.println("SLO Configuration:")
	pr.printf("  Target: %s\n", percent(r.Target))
	pr.printf("  Window: %s\n", r.Window)
	pr.printf("  Error Budget: %.6g (%s)\n", r.ErrorBudget, percent(r.ErrorBudget))
	if r.LatencyThreshold != "" {
		pr.printf("  Latency Threshold: %s\n", r.LatencyThreshold)
	}

	if r.SLOWindow == 0 {
		// never queried, the definition itself is invalid
		renderMessages(pr, r)
		return
	}

	short := slo.FormatDuration(r.Tier.Short)
	long := slo.FormatDuration(r.Tier.Long)
	rate := rateLabel(r.Indicator)

	pr.blank()
	pr.printf("--- Burn Rate (%s window) ---\n", short)
	pr.printf("Query: %s\n", r.BurnRate.Query)
	if r.BurnRate.Found {
		pr.printf("Current %s (%s): %.6f (%.4f%%)\n", rate, short, r.BurnRate.Value, r.BurnRate.Value*100)
		if r.BurnRate.Timestamp != nil {
			pr.printf("Sampled At: %s\n", r.BurnRate.Timestamp.UTC().Format(time.RFC3339))
		}
	} else if r.BurnRate.NaN {
		pr.println("WARNING: Burn rate is NaN (no events in the window)")
	} else {
		pr.println("WARNING: Could not retrieve burn rate value")
	}

	pr.blank()
	pr.printf("--- Traffic (%s SLO window) ---\n", r.Window)
	pr.printf("Query: %s\n", r.SLOTotal.Query)
	if !r.SLOTotal.Found {
		pr.println("ERROR: Could not retrieve N_SLO value")
		renderMessages(pr, r)
		return
	}
	pr.printf("N_SLO (%s total traffic): %.2f requests\n", r.Window, r.SLOTotal.Value)
	if r.AlertTotal.Found {
		pr.printf("N_%s (current %s traffic): %.2f requests\n", long, long, r.AlertTotal.Value)
	} else {
		pr.printf("WARNING: Could not retrieve N_%s value\n", long)
	}

	if t := r.Thresholds; t != nil {
		pr.blank()
		pr.printf("--- Dynamic Threshold Calculation (%s: %s/%s) ---\n", r.Tier.Name(), short, long)
		pr.printf("Formula: (N_SLO / N_%s) × E_budget_percent × (1 - SLO_target)\n", long)
		pr.printf("Calculation: (%.2f / %.2f) × %.6f × %.6g\n", r.SLOTotal.Value, r.AlertTotal.Value, t.BudgetConsumption, r.ErrorBudget)
		pr.printf("  Traffic Ratio: %.6f\n", t.TrafficRatio)
		if t.SteadyRatio > 0 {
			pr.printf("  Steady Traffic Ratio: %.6f (threshold %s)\n", t.SteadyRatio, threshold.Format(t.SteadyDynamic))
		}
		pr.printf("  E_budget_percent (1/%.0f): %.6f\n", 1/t.BudgetConsumption, t.BudgetConsumption)
		pr.printf("  Expected Dynamic Threshold: %s\n", threshold.Format(t.Dynamic))

		pr.blank()
		pr.println("Comparison:")
		pr.printf("  Static Threshold (%d × %.6g): %.6f\n", int(r.Factor), r.ErrorBudget, t.Static)
		pr.printf("  Dynamic Threshold: %s\n", threshold.Format(t.Dynamic))
		pr.printf("  Ratio (Dynamic/Static): %.6fx\n", t.DynamicToStatic)
	}

	if s := r.Status; s != nil {
		pr.blank()
		pr.println("Current Status:")
		pr.printf("  Current %s (%s): %.8f\n", rate, short, s.CurrentBurnRate)
		pr.printf("  Dynamic Threshold: %s\n", threshold.Format(s.DynamicThreshold))
		pr.printf("  Error Budget Burn: %.2fx\n", s.BudgetMultiple)
		switch s.Decision {
		case policy.DecisionAlert:
			pr.printf("  Status: WOULD ALERT (%s)\n", s.Reason)
		case policy.DecisionOK:
			pr.printf("  Status: %s OK (%s)\n", mark(true), s.Reason)
		default:
			pr.printf("  Status: %s (%s)\n", s.Decision, s.Reason)
		}
	}

	pr.blank()
	pr.println("--- Window Scaling Validation ---")
	pr.printf("Base SLO Window: 28d\n")
	pr.printf("Actual SLO Window: %s\n", r.Window)
	pr.printf("Scaling Factor: %s/28d = %.4f\n", r.Window, r.SLOWindow.Hours()/(28*24))
	pr.blank()
	pr.println("Validating Recording Rules Exist:")
	for _, rule := range r.Rules {
		name := rule.Tier + " " + rule.Kind
		if rule.Found {
			pr.printf("  %s %-20s (%-8s): %s\n", mark(true), name, slo.FormatDuration(rule.Window), rule.Rule)
		} else {
			pr.printf("  %s %-20s (%-8s): %s - NOT FOUND\n", mark(false), name, slo.FormatDuration(rule.Window), rule.Rule)
		}
	}
	if len(r.Rules) > 0 {
		pr.blank()
		if missing := r.MissingRules(); len(missing) == 0 {
			pr.printf("Analysis: %s All %d windows correctly scaled and recording rules exist\n", mark(true), len(r.Rules))
		} else {
			pr.printf("Analysis: %s Some recording rules are missing\n", mark(false))
		}
	}

	renderMessages(pr, r)
}

// RenderSummary prints one line per check and the overall outcome
func RenderSummary(w io.Writer, s check.Summary) {
	pr := newPrinter(w)

	pr.blank()
	pr.banner("VALIDATION SUMMARY")
	for _, r := range s.Results {
		pr.printf("%s SLO (%s): %s\n", indicatorLabel(r.Indicator), r.Name, passLabel(r.Passed()))
	}
	pr.blank()

	if s.Passed() {
		pr.printf("%s All %d checks passed\n", mark(true), len(s.Results))
		return
	}
	pr.printf("%s %d of %d checks failed. Please review the output above.\n", mark(false), s.Failed(), len(s.Results))
}

func renderMessages(pr *printer, r *check.Result) {
	if len(r.Warnings) > 0 {
		pr.blank()
		pr.println("Warnings:")
		for _, m := range r.Warnings {
			pr.printf("  - %s\n", m)
		}
	}
	if len(r.Errors) > 0 {
		pr.blank()
		pr.println("Errors:")
		for _, m := range r.Errors {
			pr.printf("  - %s\n", m)
		}
	}
	pr.blank()
	pr.printf("Result: %s\n", passLabel(r.Passed()))
	pr.blank()
}

func passLabel(ok bool) string {
	if ok {
		return mark(true) + " PASS"
	}
	return mark(false) + " FAIL"
}

func indicatorLabel(indicator string) string {
	if indicator == slo.IndicatorLatency {
		return "LATENCY"
	}
	return "RATIO"
}

func rateLabel(indicator string) string {
	if indicator == slo.IndicatorLatency {
		return "Failure Rate"
	}
	return "Error Rate"
}
