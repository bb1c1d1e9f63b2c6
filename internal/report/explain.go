package report

import (
	"io"

	"github.com/samijaber1/burncheck/internal/slo"
	"github.com/samijaber1/burncheck/internal/threshold"
)

// RenderExplain prints the threshold formula with its constants and the
// tier windows for an SLO window such as "30d".
func RenderExplain(w io.Writer, window string) error {
	sloWindow, err := slo.ParseDuration(window)
	if err != nil {
		return err
	}

	pr := newPrinter(w)

	pr.banner("Dynamic Burn Rate Threshold")
	pr.blank()
	pr.println("Formula: (N_SLO / N_alert) × E_budget_percent × (1 - SLO_target)")
	pr.blank()
	pr.println("  N_SLO             events over the whole SLO window")
	pr.println("  N_alert           events over the tier long window")
	pr.println("  E_budget_percent  share of the error budget the tier may burn")
	pr.blank()
	pr.println("The traffic ratio is an event count ratio, not a multiplier around 1.0:")
	pr.println("at steady traffic it equals the ratio of the window durations.")
	pr.blank()

	pr.printf("Tiers for a %s SLO window:\n", window)
	pr.rule()
	pr.printf("%-12s %-8s %-10s %-10s %-8s %-12s %-15s %-15s\n",
		"Tier", "Factor", "Short", "Long", "For", "E_Budget %", "Steady Ratio", "Default Ratio")
	pr.rule()
	for _, tier := range slo.Windows(sloWindow) {
		consumption, _ := threshold.BudgetConsumption(tier.Factor)
		defaultRatio, _ := threshold.DefaultTrafficRatio(tier.Factor)
		steady, err := threshold.WindowTrafficRatio(sloWindow, tier.Long)
		steadyText := "n/a"
		if err == nil {
			steadyText = pr.p.Sprintf("%.1f", steady)
		}
		pr.printf("%-12s %-8d %-10s %-10s %-8s %-12s %-15s %-15.1f\n",
			tier.Name(), int(tier.Factor),
			slo.FormatDuration(tier.Short), slo.FormatDuration(tier.Long), slo.FormatDuration(tier.For),
			percent(consumption), steadyText, defaultRatio)
	}
	pr.blank()
	pr.println("Default ratios assume a 30d SLO window. Values below 0.001 are printed")
	pr.println("in scientific notation, e.g. 1.000e-04.")
	pr.blank()

	return nil
}
