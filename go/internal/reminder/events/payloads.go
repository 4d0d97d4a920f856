package events

import (
	"time"
)

// ReminderProcessedPayload is published once a match/window pair reaches a
// terminal state for this window: dispatched, or marked with nothing to
// send. Downstream consumers (in-app notification feed, web-push fanout)
// subscribe to these instead of re-deriving non-responders.
type ReminderProcessedPayload struct {
	MatchID          string    `json:"match_id"`
	TeamID           string    `json:"team_id"`
	Window           string    `json:"window"`
	Venue            string    `json:"venue,omitempty"`
	ScheduledAt      time.Time `json:"scheduled_at"`
	Recipients       []string  `json:"recipients,omitempty"`
	NoContactUserIDs []string  `json:"no_contact_user_ids,omitempty"`
	Dispatched       bool      `json:"dispatched"`
	ProcessedAt      time.Time `json:"processed_at"`
}
