package reminder

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// HealthStatus is the operator-facing view of the reminder loop. It is not
// a user-facing surface; the reminder pipeline itself has none.
type HealthStatus struct {
	Healthy     bool
	LastRunAt   time.Time
	LastSummary RunSummary
	RunsTotal   uint64
	RunFailures uint64
	Errors      []string
}

// HealthTracker records run outcomes and reports staleness. A run older
// than the threshold (or one that never happened) marks the service
// unhealthy, since the trigger fires hourly.
type HealthTracker struct {
	mu          sync.Mutex
	clock       clockwork.Clock
	threshold   time.Duration
	lastRunAt   time.Time
	lastSummary RunSummary
	runsTotal   uint64
	runFailures uint64
}

// NewHealthTracker creates a health tracker with the given staleness
// threshold.
func NewHealthTracker(threshold time.Duration) *HealthTracker {
	return &HealthTracker{
		clock:     clockwork.NewRealClock(),
		threshold: threshold,
	}
}

// RecordRun stores the outcome of one invocation.
func (h *HealthTracker) RecordRun(summary RunSummary, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastRunAt = h.clock.Now()
	h.runsTotal++
	if err != nil {
		h.runFailures++
		return
	}
	h.lastSummary = summary
}

// Check builds the current health status.
func (h *HealthTracker) Check() HealthStatus {
	h.mu.Lock()
	defer h.mu.Unlock()

	status := HealthStatus{
		Healthy:     true,
		LastRunAt:   h.lastRunAt,
		LastSummary: h.lastSummary,
		RunsTotal:   h.runsTotal,
		RunFailures: h.runFailures,
		Errors:      []string{},
	}

	if h.lastRunAt.IsZero() {
		status.Healthy = false
		status.Errors = append(status.Errors, "no reminder run has completed yet")
		return status
	}

	if sinceLast := h.clock.Now().Sub(h.lastRunAt); sinceLast > h.threshold {
		status.Healthy = false
		status.Errors = append(status.Errors, fmt.Sprintf("no reminder run for %s", sinceLast))
	}

	return status
}

// ServeHTTP serves the /healthz endpoint.
func (h *HealthTracker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := h.Check()

	response := map[string]interface{}{
		"healthy":      status.Healthy,
		"last_run_at":  status.LastRunAt,
		"last_summary": status.LastSummary,
		"runs_total":   status.RunsTotal,
		"run_failures": status.RunFailures,
		"errors":       status.Errors,
	}

	w.Header().Set("Content-Type", "application/json")
	if !status.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(response)
}

// MetricsHandler serves the /metrics endpoint in Prometheus text format.
func (h *HealthTracker) MetricsHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := h.Check()

		healthy := 0
		if status.Healthy {
			healthy = 1
		}

		fmt.Fprintf(w, `# HELP reminder_healthy Whether the reminder loop is healthy
# TYPE reminder_healthy gauge
reminder_healthy %d

# HELP reminder_runs_total Total number of reminder invocations
# TYPE reminder_runs_total counter
reminder_runs_total %d

# HELP reminder_run_failures_total Invocations that failed systemically
# TYPE reminder_run_failures_total counter
reminder_run_failures_total %d

# HELP reminder_last_run_timestamp Unix timestamp of the last invocation
# TYPE reminder_last_run_timestamp gauge
reminder_last_run_timestamp %d

# HELP reminder_last_scanned Candidate matches scanned in the last run
# TYPE reminder_last_scanned gauge
reminder_last_scanned %d

# HELP reminder_last_dispatched Messages dispatched in the last run
# TYPE reminder_last_dispatched gauge
reminder_last_dispatched %d

# HELP reminder_last_errors Per-match errors in the last run
# TYPE reminder_last_errors gauge
reminder_last_errors %d
`,
			healthy,
			status.RunsTotal,
			status.RunFailures,
			status.LastRunAt.Unix(),
			status.LastSummary.Scanned,
			status.LastSummary.Dispatched,
			status.LastSummary.Errors,
		)
	})
}
