package models

import (
	"time"
)

// TeamMember represents one (team, user) pairing from the membership store.
// Lifecycle is owned by the team CRUD path; the reminder service only reads.
type TeamMember struct {
	TeamID   string    `json:"team_id" dynamodbav:"teamId"`
	UserID   string    `json:"user_id" dynamodbav:"userId"`
	Role     string    `json:"role,omitempty" dynamodbav:"role,omitempty"`
	Phone    *string   `json:"phone,omitempty" dynamodbav:"phone,omitempty"`
	JoinedAt time.Time `json:"joined_at" dynamodbav:"joinedAt"`
}

// HasContact reports whether the member has a dispatchable contact address.
func (m *TeamMember) HasContact() bool {
	return m.Phone != nil && *m.Phone != ""
}
