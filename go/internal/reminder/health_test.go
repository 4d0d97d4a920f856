package reminder

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthTracker_Check(t *testing.T) {
	t.Run("unhealthy before the first run", func(t *testing.T) {
		tracker := NewHealthTracker(2 * time.Hour)
		status := tracker.Check()
		assert.False(t, status.Healthy)
		require.Len(t, status.Errors, 1)
		assert.Contains(t, status.Errors[0], "no reminder run has completed yet")
	})

	t.Run("healthy after a recent run", func(t *testing.T) {
		tracker := NewHealthTracker(2 * time.Hour)
		tracker.clock = clockwork.NewFakeClockAt(testNow)

		tracker.RecordRun(RunSummary{Scanned: 7, Dispatched: 3}, nil)

		status := tracker.Check()
		assert.True(t, status.Healthy)
		assert.Equal(t, uint64(1), status.RunsTotal)
		assert.Equal(t, 7, status.LastSummary.Scanned)
	})

	t.Run("stale run flips to unhealthy", func(t *testing.T) {
		fc := clockwork.NewFakeClockAt(testNow)
		tracker := NewHealthTracker(2 * time.Hour)
		tracker.clock = fc

		tracker.RecordRun(RunSummary{}, nil)
		assert.True(t, tracker.Check().Healthy)

		fc.Advance(3 * time.Hour)
		status := tracker.Check()
		assert.False(t, status.Healthy)
		require.Len(t, status.Errors, 1)
		assert.Contains(t, status.Errors[0], "no reminder run for")
	})

	t.Run("failed run counted but summary kept from last success", func(t *testing.T) {
		tracker := NewHealthTracker(2 * time.Hour)
		tracker.clock = clockwork.NewFakeClockAt(testNow)

		tracker.RecordRun(RunSummary{Scanned: 5}, nil)
		tracker.RecordRun(RunSummary{}, errors.New("scan failed"))

		status := tracker.Check()
		assert.Equal(t, uint64(2), status.RunsTotal)
		assert.Equal(t, uint64(1), status.RunFailures)
		assert.Equal(t, 5, status.LastSummary.Scanned)
	})
}

func TestHealthTracker_ServeHTTP(t *testing.T) {
	tracker := NewHealthTracker(2 * time.Hour)

	rec := httptest.NewRecorder()
	tracker.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	tracker.RecordRun(RunSummary{Dispatched: 2}, nil)

	rec = httptest.NewRecorder()
	tracker.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["healthy"])
}

func TestHealthTracker_MetricsHandler(t *testing.T) {
	tracker := NewHealthTracker(2 * time.Hour)
	tracker.RecordRun(RunSummary{Scanned: 4, Dispatched: 9, Errors: 1}, nil)

	rec := httptest.NewRecorder()
	tracker.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "reminder_healthy 1")
	assert.Contains(t, body, "reminder_runs_total 1")
	assert.Contains(t, body, "reminder_run_failures_total 0")
	assert.Contains(t, body, "reminder_last_scanned 4")
	assert.Contains(t, body, "reminder_last_dispatched 9")
	assert.Contains(t, body, "reminder_last_errors 1")
}
