package reminder

import (
	"testing"
	"time"

	"github.com/playgroundhq/playground-reminder/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_Resolve_Boundaries(t *testing.T) {
	policy := NewPolicy(DefaultWindows())

	tests := []struct {
		name       string
		hoursUntil float64
		wantLabel  models.WindowLabel
		wantActive bool
	}{
		{name: "just inside lower D-2 edge", hoursUntil: 47, wantLabel: "D-2", wantActive: true},
		{name: "D-2 target", hoursUntil: 48, wantLabel: "D-2", wantActive: true},
		{name: "upper D-2 edge is exclusive", hoursUntil: 49, wantActive: false},
		{name: "just below lower D-2 edge", hoursUntil: 46.99, wantActive: false},
		{name: "just inside lower D-1 edge", hoursUntil: 23, wantLabel: "D-1", wantActive: true},
		{name: "D-1 target", hoursUntil: 24, wantLabel: "D-1", wantActive: true},
		{name: "fractional hours inside D-1", hoursUntil: 24.3, wantLabel: "D-1", wantActive: true},
		{name: "upper D-1 edge is exclusive", hoursUntil: 25, wantActive: false},
		{name: "just inside lower same-day edge", hoursUntil: 5, wantLabel: "same-day", wantActive: true},
		{name: "same-day target", hoursUntil: 6, wantLabel: "same-day", wantActive: true},
		{name: "upper same-day edge is exclusive", hoursUntil: 7, wantActive: false},
		{name: "far future", hoursUntil: 50, wantActive: false},
		{name: "between windows", hoursUntil: 30, wantActive: false},
		{name: "kickoff", hoursUntil: 0, wantActive: false},
		{name: "match already started", hoursUntil: -3, wantActive: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win, ok := policy.Resolve(tt.hoursUntil)
			assert.Equal(t, tt.wantActive, ok)
			if tt.wantActive {
				assert.Equal(t, tt.wantLabel, win.Label)
			}
		})
	}
}

func TestPolicy_Resolve_AtMostOneWindow(t *testing.T) {
	policy := NewPolicy(DefaultWindows())

	// Probe the full numeric range in small steps: no input may fall into
	// more than one window.
	for h := -24.0; h <= 72.0; h += 0.25 {
		matching := 0
		for _, w := range DefaultWindows() {
			if w.Contains(h) {
				matching++
			}
		}
		require.LessOrEqual(t, matching, 1, "hoursUntil=%v matched %d windows", h, matching)

		win, ok := policy.Resolve(h)
		if matching == 0 {
			assert.False(t, ok, "hoursUntil=%v", h)
		} else {
			assert.True(t, ok, "hoursUntil=%v", h)
			assert.True(t, win.Contains(h))
		}
	}
}

func TestPolicy_Resolve_StartedMatchNeverResolves(t *testing.T) {
	// An override window close enough to kickoff that its tolerance spans
	// zero must still never fire after the match has started.
	policy := NewPolicy([]Window{
		{Label: "kickoff", Hours: 0.5, Tolerance: 1, TemplateID: "pg-reminder-day"},
	})

	_, ok := policy.Resolve(-0.4)
	assert.False(t, ok)

	win, ok := policy.Resolve(0.4)
	require.True(t, ok)
	assert.Equal(t, models.WindowLabel("kickoff"), win.Label)

	_, ok = policy.Resolve(0)
	assert.True(t, ok, "exactly at kickoff is still before the match")
}

func TestPolicy_Resolve_OverlapPicksFirstInOrder(t *testing.T) {
	// Misconfigured overlapping windows: list order decides.
	policy := NewPolicy([]Window{
		{Label: "wide", Hours: 24, Tolerance: 10},
		{Label: "narrow", Hours: 24, Tolerance: 1},
	})

	win, ok := policy.Resolve(24)
	require.True(t, ok)
	assert.Equal(t, models.WindowLabel("wide"), win.Label)
}

func TestHoursUntil(t *testing.T) {
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	assert.InDelta(t, 24.3, HoursUntil(now, now.Add(24*time.Hour+18*time.Minute)), 0.001)
	assert.InDelta(t, -2, HoursUntil(now, now.Add(-2*time.Hour)), 0.001)
}
