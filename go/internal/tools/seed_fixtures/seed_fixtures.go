package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"
	"github.com/playgroundhq/playground-reminder/go/internal/dynamo"
	"github.com/playgroundhq/playground-reminder/go/internal/models"
)

// Seeds a local DynamoDB with one team, a small roster and three upcoming
// matches placed inside the D-2, D-1 and same-day reminder windows, so a
// single reminder run exercises every window.
func main() {
	ctx := context.Background()

	cfg := dynamo.NewConfigFromEnv()
	db, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create dynamodb client: %v\n", err)
		os.Exit(1)
	}

	teamID := "team-" + uuid.New().String()[:8]
	now := time.Now().UTC()

	phones := []string{"01011110001", "01011110002", "01011110003", ""}
	var members []models.TeamMember
	for i, phone := range phones {
		m := models.TeamMember{
			TeamID:   teamID,
			UserID:   fmt.Sprintf("user-%d", i+1),
			Role:     "member",
			JoinedAt: now.AddDate(0, -1, 0),
		}
		if phone != "" {
			p := phone
			m.Phone = &p
		}
		members = append(members, m)
	}
	members[0].Role = "captain"

	matches := []models.Match{
		newMatch(teamID, now.Add(48*time.Hour), "Seoul Futsal Park"),
		newMatch(teamID, now.Add(24*time.Hour), "Mapo Indoor Pitch"),
		newMatch(teamID, now.Add(6*time.Hour), ""),
	}

	// user-2 has already answered for the D-1 match, so that run dispatches
	// to a strict subset of the roster.
	responses := []models.AttendanceResponse{
		{
			MatchID:     matches[1].ID,
			UserID:      "user-2",
			Status:      models.AttendanceAttending,
			RespondedAt: now,
		},
	}

	var errs int
	for _, m := range members {
		errs += putItem(ctx, db, cfg.TeamMembersTable, m)
	}
	for _, m := range matches {
		errs += putItem(ctx, db, cfg.MatchesTable, m)
	}
	for _, r := range responses {
		errs += putItem(ctx, db, cfg.AttendanceTable, r)
	}

	fmt.Printf("seeded team %s: %d members, %d matches, %d responses (%d errors)\n",
		teamID, len(members), len(matches), len(responses), errs)
	if errs > 0 {
		os.Exit(1)
	}
}

func newMatch(teamID string, scheduledAt time.Time, venue string) models.Match {
	return models.Match{
		ID:          "match-" + uuid.New().String()[:8],
		HomeTeamID:  teamID,
		ScheduledAt: scheduledAt,
		Status:      models.MatchStatusAccepted,
		Venue:       venue,
		CreatedAt:   time.Now().UTC(),
	}
}

func putItem(ctx context.Context, db *awsdynamodb.Client, table string, v interface{}) int {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal item for %s: %v\n", table, err)
		return 1
	}
	_, err = db.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to put item into %s: %v\n", table, err)
		return 1
	}
	return 0
}
