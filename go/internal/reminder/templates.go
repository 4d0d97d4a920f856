package reminder

import (
	"fmt"
	"time"

	"github.com/playgroundhq/playground-reminder/go/clients/solapi_client"
	"github.com/playgroundhq/playground-reminder/go/internal/models"
)

// Template variable keys registered with the alimtalk templates.
const (
	varVenue = "#{venue}"
	varDate  = "#{date}"
	varDday  = "#{dday}"
)

const venueUnknown = "venue TBD"

// buildDispatchMessages builds one outbound message per recipient for a
// match/window pair. Sender identity is filled in by the gateway client.
func buildDispatchMessages(match models.Match, win Window, recipients []models.TeamMember) []solapi_client.Message {
	venue := match.Venue
	if venue == "" {
		venue = venueUnknown
	}

	vars := map[string]string{
		varVenue: venue,
		varDate:  formatKickoff(match.ScheduledAt),
		varDday:  string(win.Label),
	}
	smsText := smsFallbackText(win.TemplateID, vars)

	messages := make([]solapi_client.Message, 0, len(recipients))
	for _, member := range recipients {
		messages = append(messages, solapi_client.Message{
			To: *member.Phone,
			KakaoOptions: &solapi_client.KakaoOptions{
				TemplateID: win.TemplateID,
				Variables:  vars,
			},
			Failover: &solapi_client.Failover{
				To:   *member.Phone,
				Type: "SMS",
				Text: smsText,
			},
		})
	}

	return messages
}

// formatKickoff renders the kickoff time the way the reminder templates
// expect it.
func formatKickoff(t time.Time) string {
	return t.Format("Jan 2 (Mon) 15:04")
}

// smsFallbackText builds the plain-text SMS sent when alimtalk delivery
// fails for a recipient.
func smsFallbackText(templateID string, vars map[string]string) string {
	venue := vars[varVenue]
	date := vars[varDate]
	dday := vars[varDday]

	switch templateID {
	case "pg-reminder-d2":
		return fmt.Sprintf("[Playground] %s match reminder | venue: %s | kickoff: %s | please confirm attendance in the app.", dday, venue, date)
	case "pg-reminder-d1":
		return fmt.Sprintf("[Playground] match tomorrow | venue: %s | kickoff: %s | don't forget your ID!", venue, date)
	case "pg-reminder-day":
		return fmt.Sprintf("[Playground] match today | venue: %s | kickoff: %s | ID check at the officials' desk before the match.", venue, date)
	default:
		return fmt.Sprintf("[Playground] match reminder | %s | %s", venue, date)
	}
}
