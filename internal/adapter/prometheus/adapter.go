package prometheus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"
	"k8s.io/klog/v2"

	"github.com/samijaber1/burncheck/internal/check"
)

// ErrQuery is returned when a query fails after all attempts
var ErrQuery = errors.New("prometheus query failed")

// Config holds Prometheus adapter configuration
type Config struct {
	URL            string
	Timeout        time.Duration
	MaxConcurrency int64
	RetryCount     int
	RetryDelay     time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig(prometheusURL string) Config {
	return Config{
		URL:            prometheusURL,
		Timeout:        10 * time.Second,
		MaxConcurrency: 10,
		RetryCount:     1,
		RetryDelay:     100 * time.Millisecond,
	}
}

// Adapter runs instant queries against the Prometheus HTTP API
type Adapter struct {
	config Config
	client *http.Client
	sem    *semaphore.Weighted
}

// NewAdapter creates a new Prometheus adapter
func NewAdapter(config Config) *Adapter {
	return &Adapter{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		sem: semaphore.NewWeighted(config.MaxConcurrency),
	}
}

// QueryWindow implements check.MetricsAdapter.
// It executes an instant query with {{window}} substituted.
func (a *Adapter) QueryWindow(ctx context.Context, query string, window string) (check.Sample, error) {
	instantQuery := substituteWindow(query, window)

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	if err := a.sem.Acquire(ctx, 1); err != nil {
		return check.Sample{}, fmt.Errorf("semaphore acquire: %w", err)
	}
	defer a.sem.Release(1)

	klog.V(2).Infof("prometheus query: %s", instantQuery)

	var lastErr error
	for attempt := 0; attempt <= a.config.RetryCount; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return check.Sample{}, fmt.Errorf("%w: %q: %w", ErrQuery, instantQuery, ctx.Err())
			case <-time.After(a.config.RetryDelay):
			}
		}

		result, err := a.executeQuery(ctx, instantQuery)
		if err == nil {
			return extractSample(instantQuery, result), nil
		}

		klog.V(1).Infof("prometheus query attempt %d failed: %v", attempt+1, err)
		lastErr = err
	}

	return check.Sample{}, fmt.Errorf("%w after %d attempts: %q: %w", ErrQuery, a.config.RetryCount+1, instantQuery, lastErr)
}

// executeQuery performs a single Prometheus query
func (a *Adapter) executeQuery(ctx context.Context, query string) (*QueryResponse, error) {
	queryURL := fmt.Sprintf("%s/api/v1/query", strings.TrimSuffix(a.config.URL, "/"))

	params := url.Values{}
	params.Add("query", query)

	fullURL := queryURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	// Prometheus answers bad queries with 400 and a JSON error body
	var result QueryResponse
	if err := json.Unmarshal(body, &result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if result.Status != "success" {
		if result.Error == "" {
			return nil, fmt.Errorf("http status %d: status %q", resp.StatusCode, result.Status)
		}
		return nil, fmt.Errorf("prometheus error: %s", result.Error)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http status %d", resp.StatusCode)
	}

	return &result, nil
}

// substituteWindow replaces {{window}} placeholder with actual window value
func substituteWindow(query string, window string) string {
	if window == "" {
		return query
	}
	return strings.ReplaceAll(query, "{{window}}", window)
}

// extractSample takes the first series of the response.
// An empty result is reported with Found=false, not as an error.
func extractSample(query string, resp *QueryResponse) check.Sample {
	sample := check.Sample{Query: query}
	if resp == nil || len(resp.Data.Result) == 0 {
		return sample
	}

	first := resp.Data.Result[0]
	sample.Value = float64(first.Value.Value)
	sample.Found = true
	if first.Value.Timestamp != 0 {
		ts := first.Value.Timestamp.Time()
		sample.Timestamp = &ts
	}
	sample.Series = len(resp.Data.Result)

	return sample
}
