package config

import (
	"fmt"
	"time"

	"github.com/samijaber1/burncheck/internal/adapter/prometheus"
)

// Adapter types
const (
	AdapterPrometheus = "prometheus"
	AdapterSynthetic  = "synthetic"
)

// Config holds validate command configuration
type Config struct {
	// Check settings
	CheckDirectory string

	// Metrics adapter settings
	AdapterType   string // "prometheus" or "synthetic"
	PrometheusURL string
	FixturesFile  string

	// Query settings
	Timeout        time.Duration
	RetryCount     int
	RetryDelay     time.Duration
	MaxConcurrency int64
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.CheckDirectory == "" {
		return fmt.Errorf("check directory is required")
	}

	if c.AdapterType != AdapterPrometheus && c.AdapterType != AdapterSynthetic {
		return fmt.Errorf("adapter type must be 'prometheus' or 'synthetic'")
	}

	if c.AdapterType == AdapterPrometheus && c.PrometheusURL == "" {
		return fmt.Errorf("Prometheus URL required when adapter type is 'prometheus'")
	}

	if c.AdapterType == AdapterSynthetic && c.FixturesFile == "" {
		return fmt.Errorf("fixtures file required when adapter type is 'synthetic'")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}

	if c.RetryCount < 0 {
		return fmt.Errorf("invalid retry count: %d", c.RetryCount)
	}

	if c.MaxConcurrency <= 0 {
		return fmt.Errorf("invalid max concurrency: %d", c.MaxConcurrency)
	}

	return nil
}

// PrometheusConfig returns the adapter configuration for the query settings
func (c *Config) PrometheusConfig() prometheus.Config {
	pc := prometheus.DefaultConfig(c.PrometheusURL)
	pc.Timeout = c.Timeout
	pc.RetryCount = c.RetryCount
	pc.RetryDelay = c.RetryDelay
	pc.MaxConcurrency = c.MaxConcurrency
	return pc
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	pc := prometheus.DefaultConfig("http://localhost:9090")
	return Config{
		AdapterType:    AdapterPrometheus,
		PrometheusURL:  pc.URL,
		Timeout:        pc.Timeout,
		RetryCount:     pc.RetryCount,
		RetryDelay:     pc.RetryDelay,
		MaxConcurrency: pc.MaxConcurrency,
	}
}
