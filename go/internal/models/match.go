package models

import (
	"time"
)

// MatchStatus represents the lifecycle state of a match
type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusAccepted  MatchStatus = "accepted"
	MatchStatusRejected  MatchStatus = "rejected"
	MatchStatusCompleted MatchStatus = "completed"
)

// CandidateStatuses are the statuses eligible for reminder evaluation.
// Rejected and completed matches are never scanned.
var CandidateStatuses = []MatchStatus{MatchStatusPending, MatchStatusAccepted}

// WindowLabel identifies a reminder window ("D-2", "D-1", "same-day").
type WindowLabel string

// Match represents a scheduled fixture. The reminder service reads every
// field and writes only WindowMarks; status, score and scheduling mutations
// belong to the match CRUD path, which touches a disjoint set of fields.
type Match struct {
	ID          string                     `json:"id" dynamodbav:"id"`
	HomeTeamID  string                     `json:"home_team_id" dynamodbav:"homeTeamId"`
	AwayTeamID  string                     `json:"away_team_id,omitempty" dynamodbav:"awayTeamId,omitempty"`
	ScheduledAt time.Time                  `json:"scheduled_at" dynamodbav:"scheduledAt"`
	Status      MatchStatus                `json:"status" dynamodbav:"status"`
	Venue       string                     `json:"venue,omitempty" dynamodbav:"venue,omitempty"`
	WindowMarks map[WindowLabel]time.Time  `json:"window_marks,omitempty" dynamodbav:"windowMarks,omitempty"`
	CreatedAt   time.Time                  `json:"created_at" dynamodbav:"createdAt"`
}

// WindowMarked reports whether the given reminder window has already been
// processed for this match.
func (m *Match) WindowMarked(label WindowLabel) bool {
	if m.WindowMarks == nil {
		return false
	}
	_, ok := m.WindowMarks[label]
	return ok
}
