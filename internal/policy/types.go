package policy

// Decision represents whether the current burn rate would fire the alert
type Decision string

const (
	DecisionOK    Decision = "OK"
	DecisionAlert Decision = "ALERT"

	// DecisionUnknown is returned when the burn rate is not a number
	DecisionUnknown Decision = "UNKNOWN"
)

// Status is the outcome of comparing a burn rate with its thresholds
type Status struct {
	Decision         Decision
	CurrentBurnRate  float64
	DynamicThreshold float64
	// MarginPercent is how far below the dynamic threshold the burn rate is; zero when alerting
	MarginPercent float64
	// BudgetMultiple is the error rate expressed in multiples of the error budget
	BudgetMultiple float64
	Reason         string
}
