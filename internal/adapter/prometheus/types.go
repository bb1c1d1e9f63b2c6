package prometheus

import (
	"github.com/prometheus/common/model"
)

// QueryResponse represents a Prometheus query API response
type QueryResponse struct {
	Status    string    `json:"status"`
	Data      QueryData `json:"data"`
	ErrorType string    `json:"errorType,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// QueryData contains the query result data
type QueryData struct {
	ResultType string         `json:"resultType"`
	Result     []VectorResult `json:"result"`
}

// VectorResult represents a single result from an instant vector query.
// Value decodes the [timestamp, "value"] pair.
type VectorResult struct {
	Metric map[string]string `json:"metric"`
	Value  model.SamplePair  `json:"value"`
}
