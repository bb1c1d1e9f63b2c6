package slo

import (
	"fmt"
	"time"

	"github.com/prometheus/common/model"
)

// ParseDuration parses Prometheus durations like "5m", "1h4m", "1d1h43m", "30d"
func ParseDuration(s string) (time.Duration, error) {
	d, err := model.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive: %s", s)
	}
	return time.Duration(d), nil
}

// FormatDuration renders d the way recording rule names spell windows
func FormatDuration(d time.Duration) string {
	return model.Duration(d).String()
}
