package slo

import (
	"fmt"
	"time"

	"github.com/samijaber1/burncheck/internal/threshold"
)

// Indicator types supported by a check
const (
	IndicatorRatio   = "ratio"
	IndicatorLatency = "latency"
)

// Check is one SLO check definition: which deployed recording rules to
// query and how to recompute the dynamic threshold for them.
type Check struct {
	APIVersion string   `yaml:"apiVersion"`
	Kind       string   `yaml:"kind"`
	Metadata   Metadata `yaml:"metadata"`
	Spec       Spec     `yaml:"spec"`
}

// Metadata contains check metadata
type Metadata struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// Spec contains the SLO configuration and the queries used to validate it
type Spec struct {
	Indicator        string  `yaml:"indicator"`
	Target           float64 `yaml:"target"`
	Window           string  `yaml:"window"`
	Factor           int     `yaml:"factor,omitempty"`
	RulePrefix       string  `yaml:"rulePrefix"`
	BurnRateQuery    string  `yaml:"burnRateQuery,omitempty"`
	SLOTotalQuery    string  `yaml:"sloTotalQuery"`
	AlertTotalQuery  string  `yaml:"alertTotalQuery"`
	LatencyThreshold string  `yaml:"latencyThreshold,omitempty"`
}

// TierFactor returns the tier the check recomputes, defaulting to critical-fast
func (c *Check) TierFactor() threshold.Factor {
	if c.Spec.Factor == 0 {
		return threshold.FactorCriticalFast
	}
	return threshold.Factor(c.Spec.Factor)
}

// ErrorBudget returns 1 - target
func (c *Check) ErrorBudget() float64 {
	return 1 - c.Spec.Target
}

// SLOWindow parses the SLO window
func (c *Check) SLOWindow() (time.Duration, error) {
	return ParseDuration(c.Spec.Window)
}

// RecordingRule returns the selector of the burn rate recording rule for window
func (c *Check) RecordingRule(window time.Duration) string {
	return fmt.Sprintf("%s{slo=%q}", c.RuleName(window), c.Metadata.Name)
}

// RuleName returns the recording rule metric name for window
func (c *Check) RuleName(window time.Duration) string {
	return fmt.Sprintf("%s:burnrate%s", c.Spec.RulePrefix, FormatDuration(window))
}

// CurrentBurnRateQuery returns the query for the current short window burn rate.
// A configured burnRateQuery may contain a {{window}} placeholder.
func (c *Check) CurrentBurnRateQuery(short time.Duration) string {
	if c.Spec.BurnRateQuery != "" {
		return c.Spec.BurnRateQuery
	}
	return c.RecordingRule(short)
}

// CheckWithFile pairs a check with its source file path
type CheckWithFile struct {
	Check *Check
	File  string
}

// ValidationError represents a validation error for a specific file
type ValidationError struct {
	File    string
	Path    string
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	if e.Path != "" {
		return e.File + ": " + e.Path + ": " + e.Message
	}
	return e.File + ": " + e.Message
}
