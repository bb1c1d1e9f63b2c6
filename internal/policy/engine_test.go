package policy

import (
	"math"
	"strings"
	"testing"
)

func TestEngine_Evaluate(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name             string
		current          float64
		dynamic          float64
		expectedDecision Decision
		expectedMargin   float64
	}{
		{
			name:             "well below threshold",
			current:          0.01,
			dynamic:          0.04,
			expectedDecision: DecisionOK,
			expectedMargin:   75,
		},
		{
			name:             "above threshold",
			current:          0.05,
			dynamic:          0.04,
			expectedDecision: DecisionAlert,
		},
		{
			name:             "equal to threshold does not alert",
			current:          0.04,
			dynamic:          0.04,
			expectedDecision: DecisionOK,
			expectedMargin:   0,
		},
		{
			name:             "no errors",
			current:          0,
			dynamic:          0.0014,
			expectedDecision: DecisionOK,
			expectedMargin:   100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := engine.Evaluate(tt.current, tt.dynamic, 0.95)

			if status.Decision != tt.expectedDecision {
				t.Errorf("expected decision %s, got %s (reason: %s)",
					tt.expectedDecision, status.Decision, status.Reason)
			}

			if math.Abs(status.MarginPercent-tt.expectedMargin) > 0.0001 {
				t.Errorf("expected margin %.4f, got %.4f", tt.expectedMargin, status.MarginPercent)
			}

			if status.Reason == "" {
				t.Error("expected a reason")
			}

			t.Logf("Decision: %s, Reason: %s", status.Decision, status.Reason)
		})
	}
}

func TestEngine_BudgetMultiple(t *testing.T) {
	status := NewEngine().Evaluate(0.01, 0.35, 0.95)

	if math.Abs(status.BudgetMultiple-0.2) > 0.0001 {
		t.Errorf("expected budget multiple 0.2, got %f", status.BudgetMultiple)
	}
}

func TestComputeBurnRate(t *testing.T) {
	tests := []struct {
		name             string
		errorRate        float64
		objective        float64
		expectedBurnRate float64
	}{
		{
			name:             "no errors",
			errorRate:        0.0,
			objective:        0.999,
			expectedBurnRate: 0.0,
		},
		{
			name:             "1x burn rate",
			errorRate:        0.001,
			objective:        0.999,
			expectedBurnRate: 1.0,
		},
		{
			name:             "14x burn rate",
			errorRate:        0.014,
			objective:        0.999,
			expectedBurnRate: 14.0,
		},
		{
			name:             "objective of one",
			errorRate:        0.5,
			objective:        1,
			expectedBurnRate: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			burnRate := ComputeBurnRate(tt.errorRate, tt.objective)

			if math.Abs(burnRate-tt.expectedBurnRate) > 0.0001 {
				t.Errorf("expected burn rate=%.4f, got %.4f",
					tt.expectedBurnRate, burnRate)
			}
		})
	}
}

func TestEngine_NaNBurnRate(t *testing.T) {
	status := NewEngine().Evaluate(math.NaN(), 0.7, 0.95)

	if status.Decision != DecisionUnknown {
		t.Errorf("expected decision %s, got %s (reason: %s)", DecisionUnknown, status.Decision, status.Reason)
	}
	if strings.Contains(status.Reason, "below threshold") {
		t.Errorf("expected no margin in reason, got %q", status.Reason)
	}
	if status.MarginPercent != 0 || status.BudgetMultiple != 0 {
		t.Errorf("expected zero margin and budget multiple, got %f and %f", status.MarginPercent, status.BudgetMultiple)
	}
}
