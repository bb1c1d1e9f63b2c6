package slo

import (
	"sort"
	"time"

	"github.com/samijaber1/burncheck/internal/threshold"
)

// Severity of a burn rate tier
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// Window is one multi-window burn rate tier
type Window struct {
	Severity Severity
	Factor   threshold.Factor
	Short    time.Duration
	Long     time.Duration
	For      time.Duration
}

const baseSLOWindow = 28 * 24 * time.Hour

// baseWindows are the tiers for a 28 day SLO window
var baseWindows = []Window{
	{Severity: SeverityCritical, Factor: threshold.FactorCriticalFast, Short: 5 * time.Minute, Long: time.Hour, For: 2 * time.Minute},
	{Severity: SeverityCritical, Factor: threshold.FactorCriticalSlow, Short: 30 * time.Minute, Long: 6 * time.Hour, For: 15 * time.Minute},
	{Severity: SeverityWarning, Factor: threshold.FactorWarningFast, Short: 2 * time.Hour, Long: 24 * time.Hour, For: time.Hour},
	{Severity: SeverityWarning, Factor: threshold.FactorWarningSlow, Short: 6 * time.Hour, Long: 4 * 24 * time.Hour, For: 3 * time.Hour},
}

// Windows returns the four tiers scaled from their 28d values to sloWindow,
// rounded to the minute. For 30d the long windows become 1h4m, 6h26m,
// 1d1h43m and 4d6h51m.
func Windows(sloWindow time.Duration) []Window {
	scale := float64(sloWindow) / float64(baseSLOWindow)

	ws := make([]Window, len(baseWindows))
	for i, w := range baseWindows {
		ws[i] = Window{
			Severity: w.Severity,
			Factor:   w.Factor,
			Short:    scaleDuration(w.Short, scale),
			Long:     scaleDuration(w.Long, scale),
			For:      scaleDuration(w.For, scale),
		}
	}
	return ws
}

// WindowFor returns the tier for factor f
func WindowFor(sloWindow time.Duration, f threshold.Factor) (Window, bool) {
	for _, w := range Windows(sloWindow) {
		if w.Factor == f {
			return w, true
		}
	}
	return Window{}, false
}

// BurnRateWindows returns the unique short and long windows of ws, ascending
func BurnRateWindows(ws []Window) []time.Duration {
	seen := make(map[time.Duration]struct{})
	for _, w := range ws {
		seen[w.Short] = struct{}{}
		seen[w.Long] = struct{}{}
	}

	durations := make([]time.Duration, 0, len(seen))
	for d := range seen {
		durations = append(durations, d)
	}
	sort.Slice(durations, func(i, j int) bool {
		return durations[i] < durations[j]
	})
	return durations
}

func scaleDuration(d time.Duration, scale float64) time.Duration {
	return time.Duration(float64(d) * scale).Round(time.Minute)
}

// Name returns the report label of the tier, e.g. "Critical 1"
func (w Window) Name() string {
	switch w.Factor {
	case threshold.FactorCriticalFast:
		return "Critical 1"
	case threshold.FactorCriticalSlow:
		return "Critical 2"
	case threshold.FactorWarningFast:
		return "Warning 1"
	case threshold.FactorWarningSlow:
		return "Warning 2"
	default:
		return w.Factor.String()
	}
}
