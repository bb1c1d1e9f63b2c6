package prometheus

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/common/model"
)

func vectorResponse(values ...float64) QueryResponse {
	resp := QueryResponse{
		Status: "success",
		Data: QueryData{
			ResultType: "vector",
			Result:     []VectorResult{},
		},
	}
	for i, v := range values {
		resp.Data.Result = append(resp.Data.Result, VectorResult{
			Metric: map[string]string{"instance": string(rune('a' + i))},
			Value: model.SamplePair{
				Timestamp: model.TimeFromUnix(time.Now().Unix()),
				Value:     model.SampleValue(v),
			},
		})
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func testConfig(url string) Config {
	config := DefaultConfig(url)
	config.Timeout = 2 * time.Second
	config.RetryDelay = 10 * time.Millisecond
	return config
}

func TestAdapter_QueryWindow(t *testing.T) {
	var gotQuery, gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotMethod = r.Method
		gotPath = r.URL.Path
		writeJSON(w, http.StatusOK, vectorResponse(100.5))
	}))
	defer server.Close()

	adapter := NewAdapter(testConfig(server.URL + "/"))

	sample, err := adapter.QueryWindow(context.Background(), "sum(increase(requests_total[{{window}}]))", "1h4m")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if gotMethod != http.MethodGet {
		t.Errorf("expected GET, got %s", gotMethod)
	}
	if gotPath != "/api/v1/query" {
		t.Errorf("expected /api/v1/query, got %s", gotPath)
	}
	if gotQuery != "sum(increase(requests_total[1h4m]))" {
		t.Errorf("window template not substituted: %s", gotQuery)
	}

	if !sample.Found {
		t.Fatal("expected sample to be found")
	}
	if sample.Value != 100.5 {
		t.Errorf("expected value=100.5, got %f", sample.Value)
	}
	if sample.Timestamp == nil {
		t.Error("expected timestamp to be set")
	}
	if sample.Query != gotQuery {
		t.Errorf("expected resolved query %q, got %q", gotQuery, sample.Query)
	}
}

func TestAdapter_WindowSubstitution(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		window   string
		expected string
	}{
		{
			name:     "single substitution",
			query:    "rate(metric[{{window}}])",
			window:   "5m",
			expected: "rate(metric[5m])",
		},
		{
			name:     "multiple substitutions",
			query:    "rate(errors[{{window}}]) / rate(total[{{window}}])",
			window:   "1h4m",
			expected: "rate(errors[1h4m]) / rate(total[1h4m])",
		},
		{
			name:     "no placeholder",
			query:    "sum(slo:increase30d)",
			window:   "5m",
			expected: "sum(slo:increase30d)",
		},
		{
			name:     "empty window leaves placeholder",
			query:    "rate(metric[{{window}}])",
			window:   "",
			expected: "rate(metric[{{window}}])",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := substituteWindow(tt.query, tt.window)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestAdapter_EmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, vectorResponse())
	}))
	defer server.Close()

	sample, err := NewAdapter(testConfig(server.URL)).QueryWindow(context.Background(), "absent_metric", "")
	if err != nil {
		t.Fatalf("expected no error for empty result, got %v", err)
	}
	if sample.Found {
		t.Errorf("expected Found=false, got %+v", sample)
	}
}

func TestAdapter_FirstSeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, vectorResponse(7, 8, 9))
	}))
	defer server.Close()

	sample, err := NewAdapter(testConfig(server.URL)).QueryWindow(context.Background(), "requests_total", "")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if sample.Value != 7 {
		t.Errorf("expected first series value 7, got %f", sample.Value)
	}
	if sample.Series != 3 {
		t.Errorf("expected 3 series, got %d", sample.Series)
	}
}

func TestAdapter_Retry(t *testing.T) {
	var attempts int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Fail first attempt, succeed on second
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, vectorResponse(42))
	}))
	defer server.Close()

	sample, err := NewAdapter(testConfig(server.URL)).QueryWindow(context.Background(), "up", "")
	if err != nil {
		t.Fatalf("query failed after retry: %v", err)
	}
	if sample.Value != 42 {
		t.Errorf("expected value=42, got %f", sample.Value)
	}
	if got := atomic.LoadInt32(&attempts); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestAdapter_RetriesExhausted(t *testing.T) {
	var attempts int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		http.Error(w, "upstream unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	config := testConfig(server.URL)
	config.RetryCount = 2

	_, err := NewAdapter(config).QueryWindow(context.Background(), "up", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrQuery) {
		t.Errorf("expected ErrQuery, got %v", err)
	}
	if !strings.Contains(err.Error(), "http status 503") {
		t.Errorf("expected http status in error, got %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestAdapter_PrometheusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, QueryResponse{
			Status:    "error",
			ErrorType: "bad_data",
			Error:     "parse error at char 5",
		})
	}))
	defer server.Close()

	config := testConfig(server.URL)
	config.RetryCount = 0

	_, err := NewAdapter(config).QueryWindow(context.Background(), "sum(", "")
	if !errors.Is(err, ErrQuery) {
		t.Fatalf("expected ErrQuery, got %v", err)
	}
	if !strings.Contains(err.Error(), "parse error at char 5") {
		t.Errorf("expected prometheus error message, got %v", err)
	}
}

func TestAdapter_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		writeJSON(w, http.StatusOK, vectorResponse(1))
	}))
	defer server.Close()

	config := testConfig(server.URL)
	config.Timeout = 50 * time.Millisecond
	config.RetryCount = 0

	start := time.Now()
	_, err := NewAdapter(config).QueryWindow(context.Background(), "up", "")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout not honored, took %v", elapsed)
	}
}

func TestAdapter_Concurrency(t *testing.T) {
	var inFlight, maxInFlight int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			m := atomic.LoadInt32(&maxInFlight)
			if n <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		writeJSON(w, http.StatusOK, vectorResponse(1))
	}))
	defer server.Close()

	config := testConfig(server.URL)
	config.MaxConcurrency = 2
	adapter := NewAdapter(config)

	done := make(chan error, 6)
	for i := 0; i < 6; i++ {
		go func() {
			_, err := adapter.QueryWindow(context.Background(), "up", "")
			done <- err
		}()
	}
	for i := 0; i < 6; i++ {
		if err := <-done; err != nil {
			t.Errorf("query failed: %v", err)
		}
	}

	if got := atomic.LoadInt32(&maxInFlight); got > 2 {
		t.Errorf("expected at most 2 concurrent queries, got %d", got)
	}
}
