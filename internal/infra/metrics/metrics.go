// Package metrics defines and registers the Prometheus metrics of the accounts service.
// All collectors live in the default registry and are exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// Operation results.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Account operation names.
const (
	OperationCreate = "create"
	OperationGet    = "get"
	OperationUpdate = "update"
	OperationDelete = "delete"
	OperationList   = "list"
	OperationLogin  = "login"
)

// AccountOperationsTotal counts account use case invocations.
// Labels:
//   - operation: create, get, update, delete, list or login
//   - result: success or error
var AccountOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Total number of account operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// HTTPRequestsTotal counts served HTTP requests.
// Labels:
//   - method: HTTP method
//   - route: the matched route pattern (e.g. "/user/:id"), not the raw path
//   - code: envelope code for /user routes, transport status otherwise
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests served.",
	},
	[]string{"method", "route", "code"},
)

// HTTPRequestDuration measures handler latency.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP request handling.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// RecordOperation increments AccountOperationsTotal with the result derived from err.
func RecordOperation(operation string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}

	AccountOperationsTotal.WithLabelValues(operation, result).Inc()
}
