package synthetic

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/samijaber1/burncheck/internal/check"
)

// Fixture represents a fixture file: query results keyed by the query
// string after {{window}} substitution
type Fixture struct {
	Queries map[string]QueryData `json:"queries"`
}

// QueryData is the value a fixture query resolves to
type QueryData struct {
	Value         float64    `json:"value"`
	DataTimestamp *time.Time `json:"dataTimestamp,omitempty"`
}

// Adapter is a synthetic metrics adapter that reads from JSON fixtures.
// Queries missing from every fixture resolve to an empty result.
type Adapter struct {
	mu       sync.RWMutex
	fixtures []*Fixture
}

// NewAdapter creates a new synthetic adapter
func NewAdapter() *Adapter {
	return &Adapter{}
}

// LoadFixture loads a fixture from a JSON file
func (a *Adapter) LoadFixture(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read fixture: %w", err)
	}

	var fixture Fixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		return fmt.Errorf("failed to parse fixture: %w", err)
	}

	a.AddFixture(&fixture)
	return nil
}

// AddFixture adds a fixture directly (useful for testing).
// Later fixtures win over earlier ones for the same query.
func (a *Adapter) AddFixture(fixture *Fixture) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.fixtures = append(a.fixtures, fixture)
}

// Set registers a single query value
func (a *Adapter) Set(query string, value float64) {
	a.AddFixture(&Fixture{Queries: map[string]QueryData{query: {Value: value}}})
}

// QueryWindow implements check.MetricsAdapter
func (a *Adapter) QueryWindow(ctx context.Context, query string, window string) (check.Sample, error) {
	if err := ctx.Err(); err != nil {
		return check.Sample{}, err
	}

	resolved := normalize(query)
	if window != "" {
		resolved = normalize(strings.ReplaceAll(query, "{{window}}", window))
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	sample := check.Sample{Query: resolved}
	for i := len(a.fixtures) - 1; i >= 0; i-- {
		data, ok := a.fixtures[i].Queries[resolved]
		if !ok {
			continue
		}
		sample.Value = data.Value
		sample.Timestamp = data.DataTimestamp
		sample.Found = true
		sample.Series = 1
		break
	}

	return sample, nil
}

func normalize(query string) string {
	return strings.TrimSpace(query)
}
