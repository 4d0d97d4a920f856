package models

import (
	"time"
)

// AttendanceStatus is the answer a member gave for a match.
type AttendanceStatus string

const (
	AttendanceAttending    AttendanceStatus = "attending"
	AttendanceNotAttending AttendanceStatus = "not_attending"
	AttendanceMaybe        AttendanceStatus = "maybe"
)

// AttendanceResponse represents one (match, user) answer. Presence of a row
// means "responded" regardless of the chosen status; the reminder service
// never inspects Status.
type AttendanceResponse struct {
	MatchID     string           `json:"match_id" dynamodbav:"matchId"`
	UserID      string           `json:"user_id" dynamodbav:"userId"`
	Status      AttendanceStatus `json:"status" dynamodbav:"status"`
	RespondedAt time.Time        `json:"responded_at" dynamodbav:"respondedAt"`
}
