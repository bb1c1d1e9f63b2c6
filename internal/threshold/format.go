package threshold

import (
	"fmt"
	"math"
)

// scientificCutoff is the magnitude below which values switch to scientific notation
const scientificCutoff = 0.001

// Format renders a threshold value. Nonzero values below 0.001 in magnitude
// use scientific notation so high targets keep their significant digits.
func Format(value float64) string {
	if IsScientific(value) {
		return fmt.Sprintf("%.3e", value)
	}
	return fmt.Sprintf("%.8f", value)
}

// IsScientific reports whether Format renders value in scientific notation
func IsScientific(value float64) bool {
	return value != 0 && math.Abs(value) < scientificCutoff
}
