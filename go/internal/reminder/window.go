package reminder

import (
	"time"

	"github.com/playgroundhq/playground-reminder/go/internal/models"
)

// Window is a named, time-relative slot during which a reminder fires at
// most once per match: active while hoursUntil is in [Hours-Tolerance,
// Hours+Tolerance).
type Window struct {
	Label      models.WindowLabel
	Hours      float64
	Tolerance  float64
	TemplateID string
}

// Contains reports whether the given hours-until-kickoff falls inside the
// window.
func (w Window) Contains(hoursUntil float64) bool {
	return hoursUntil >= w.Hours-w.Tolerance && hoursUntil < w.Hours+w.Tolerance
}

// Policy maps hours-until-kickoff to at most one reminder window.
type Policy struct {
	windows []Window
}

// DefaultWindows is the platform's three-window reminder schedule. Labels
// and template ids match the registered Kakao alimtalk templates.
func DefaultWindows() []Window {
	return []Window{
		{Label: "D-2", Hours: 48, Tolerance: 1, TemplateID: "pg-reminder-d2"},
		{Label: "D-1", Hours: 24, Tolerance: 1, TemplateID: "pg-reminder-d1"},
		{Label: "same-day", Hours: 6, Tolerance: 1, TemplateID: "pg-reminder-day"},
	}
}

// NewPolicy creates a window policy from an ordered window list. Windows are
// expected to be disjoint; if a misconfiguration makes two windows overlap,
// Resolve deterministically picks the first match in list order.
func NewPolicy(windows []Window) *Policy {
	return &Policy{windows: windows}
}

// Resolve returns the window active for the given hours-until-kickoff, or
// false when none applies. Pure and total: negative inputs (match already
// started) resolve to none, even when an override window's tolerance spans
// zero.
func (p *Policy) Resolve(hoursUntil float64) (Window, bool) {
	if hoursUntil < 0 {
		return Window{}, false
	}
	for _, w := range p.windows {
		if w.Contains(hoursUntil) {
			return w, true
		}
	}
	return Window{}, false
}

// HoursUntil converts the distance between now and kickoff to fractional
// hours, the unit the policy operates in.
func HoursUntil(now, scheduledAt time.Time) float64 {
	return scheduledAt.Sub(now).Hours()
}
