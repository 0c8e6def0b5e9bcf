package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sagarc03/workspaced"
)

const (
	// The process that emits metrics
	workspacedProcess = "workspaced"

	authDecisionsTotalMetricName  = "auth_decisions_total"
	authDurationSecondsMetricName = "auth_duration_seconds"
	storeErrorsTotalMetricName    = "store_errors_total"

	// reasonError labels decisions that could not be made because a
	// credential lookup failed.
	reasonError = "error"
)

func init() {
	prometheus.MustRegister(authDecisionsTotal)
	prometheus.MustRegister(authDurationSeconds)
	prometheus.MustRegister(storeErrorsTotal)
}

var (
	// authDecisionsTotal counts authentication decisions with labels:
	//   - operation: "get_workspace", "put_workspace", "get_image"
	//   - reason: "allowed", "missing_header", "malformed_header", "key_mismatch",
	//     "body_tampered", "mac_mismatch" or "error"
	//   - method: "query", "key", "signature", or empty for denials
	authDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: workspacedProcess,
			Name:      authDecisionsTotalMetricName,
			Help:      "Total authentication decisions, labeled by operation, reason and admitting method.",
		},
		[]string{"operation", "reason", "method"},
	)

	// authDurationSeconds measures how long a decision takes, including
	// credential lookups against the store.
	authDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Subsystem: workspacedProcess,
			Name:      authDurationSecondsMetricName,
			Help:      "Histogram of authentication processing time in seconds",
			// 10µs for in-memory credentials up to 1s for a slow database
			Buckets: []float64{
				0.00001, 0.00005, 0.0001, 0.0005, 0.001,
				0.005, 0.01, 0.05, 0.1, 0.5, 1,
			},
		},
		[]string{"operation"},
	)

	// storeErrorsTotal counts workspace store failures surfaced as 500s.
	storeErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: workspacedProcess,
			Name:      storeErrorsTotalMetricName,
			Help:      "Total workspace store errors, labeled by operation.",
		},
		[]string{"operation"},
	)
)

// RecordAuthDecision records one authentication decision. A non-nil err is
// recorded with reason "error" and the decision is ignored.
func RecordAuthDecision(operation string, decision workspaced.Decision, err error, elapsed time.Duration) {
	reason := decision.Reason.String()
	method := string(decision.Method)
	if err != nil {
		reason = reasonError
		method = ""
	}

	authDecisionsTotal.With(prometheus.Labels{
		"operation": operation,
		"reason":    reason,
		"method":    method,
	}).Inc()

	authDurationSeconds.With(prometheus.Labels{
		"operation": operation,
	}).Observe(elapsed.Seconds())
}

// RecordStoreError records a failed store call for operation.
func RecordStoreError(operation string) {
	storeErrorsTotal.With(prometheus.Labels{
		"operation": operation,
	}).Inc()
}

// Recorder forwards handler observations to the package metrics.
type Recorder struct{}

func (Recorder) ObserveAuth(operation string, decision workspaced.Decision, err error, elapsed time.Duration) {
	RecordAuthDecision(operation, decision, err, elapsed)
}

func (Recorder) ObserveStoreError(operation string) {
	RecordStoreError(operation)
}
