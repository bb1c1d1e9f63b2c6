package report

import (
	"fmt"
	"io"

	"github.com/samijaber1/burncheck/internal/threshold"
)

// ThresholdReport selects what RenderThresholds prints
type ThresholdReport struct {
	// Target is the SLO target the factor table is computed for
	Target float64
	// CompareTarget is compared against Target at steady traffic; zero skips the comparison
	CompareTarget float64
	// Factor is the tier used for the traffic scenarios
	Factor threshold.Factor
}

// TrafficScenario is a traffic level relative to steady state
type TrafficScenario struct {
	Label      string
	Multiplier float64
}

// DefaultScenarios are the traffic levels shown by RenderThresholds
var DefaultScenarios = []TrafficScenario{
	{Label: "Low (50%)", Multiplier: 0.5},
	{Label: "Steady (100%)", Multiplier: 1},
	{Label: "High (200%)", Multiplier: 2},
	{Label: "Very High (500%)", Multiplier: 5},
}

// RenderThresholds prints the dynamic thresholds of every tier for r.Target,
// the thresholds of r.Factor across traffic levels and, if set, a comparison
// with r.CompareTarget.
func RenderThresholds(w io.Writer, r ThresholdReport) error {
	if !r.Factor.Valid() {
		return fmt.Errorf("factor %d: %w", int(r.Factor), threshold.ErrInvalidArgument)
	}
	if err := threshold.ValidateTarget(r.Target); err != nil {
		return err
	}
	if r.CompareTarget != 0 {
		if err := threshold.ValidateTarget(r.CompareTarget); err != nil {
			return fmt.Errorf("compare target: %w", err)
		}
	}

	pr := newPrinter(w)
	budget := 1 - r.Target

	pr.banner(fmt.Sprintf("Dynamic Burn Rate Thresholds - SLO Target %s", percent(r.Target)))
	pr.blank()
	pr.printf("SLO Target: %s\n", percent(r.Target))
	pr.printf("Error Budget: %.6g (%s)\n", budget, percent(budget))
	pr.blank()

	pr.println("Expected Thresholds (at steady traffic with actual window ratios):")
	pr.rule()
	pr.printf("%-10s %-15s %-15s %-20s %-20s\n", "Factor", "E_Budget %", "N_SLO/N_alert", "Threshold", "Formatted")
	pr.rule()
	for _, f := range threshold.Factors() {
		value, err := threshold.ComputeDefault(r.Target, f)
		if err != nil {
			return err
		}
		consumption, _ := threshold.BudgetConsumption(f)
		ratio, _ := threshold.DefaultTrafficRatio(f)
		pr.printf("%-10d %-15s %-15.1f %-20.12f %-20s %s\n",
			int(f), percent(consumption), ratio, value, threshold.Format(value), notation(value))
	}
	pr.blank()

	steady, _ := threshold.DefaultTrafficRatio(r.Factor)
	consumption, _ := threshold.BudgetConsumption(r.Factor)

	pr.banner(fmt.Sprintf("Different Traffic Levels (Factor %d):", int(r.Factor)))
	pr.blank()
	pr.printf("Factor %d (%s error budget consumption, %s):\n", int(r.Factor), percent(consumption), r.Factor)
	pr.rule()
	pr.printf("%-20s %-20s %-20s %-20s\n", "Traffic Level", "N_SLO/N_alert", "Threshold", "Formatted")
	pr.rule()
	for _, s := range DefaultScenarios {
		ratio := steady * s.Multiplier
		value, err := threshold.Compute(r.Target, r.Factor, &ratio)
		if err != nil {
			return err
		}
		pr.printf("%-20s %-20.1f %-20.12f %-20s %s\n", s.Label, ratio, value, threshold.Format(value), notation(value))
	}
	pr.blank()

	if r.CompareTarget == 0 {
		return nil
	}

	compare, err := threshold.Compute(r.CompareTarget, r.Factor, &steady)
	if err != nil {
		return err
	}
	value, err := threshold.Compute(r.Target, r.Factor, &steady)
	if err != nil {
		return err
	}

	pr.banner(fmt.Sprintf("Comparison: Target %s vs Target %s", percent(r.CompareTarget), percent(r.Target)))
	pr.blank()
	for _, t := range []struct {
		target float64
		value  float64
	}{
		{r.CompareTarget, compare},
		{r.Target, value},
	} {
		pr.printf("Target %s:\n", percent(t.target))
		pr.printf("  Error Budget: %.6g (%s)\n", 1-t.target, percent(1-t.target))
		pr.printf("  N_SLO/N_alert: %.1f (steady traffic)\n", steady)
		pr.printf("  Threshold: %.12f (%s)\n", t.value, threshold.Format(t.value))
		pr.blank()
	}
	pr.printf("Ratio: %.1fx\n", compare/value)
	pr.blank()

	return nil
}

func notation(value float64) string {
	if threshold.IsScientific(value) {
		return "Scientific"
	}
	return "Fixed"
}

// percent renders a fraction as a percentage without float noise, e.g. 99.99%
func percent(v float64) string {
	return fmt.Sprintf("%.4g%%", v*100)
}
