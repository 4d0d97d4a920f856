package main

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/playgroundhq/playground-reminder/go/clients/solapi_client"
	"github.com/playgroundhq/playground-reminder/go/internal/attendance"
	"github.com/playgroundhq/playground-reminder/go/internal/dynamo"
	"github.com/playgroundhq/playground-reminder/go/internal/matches"
	"github.com/playgroundhq/playground-reminder/go/internal/reminder"
	"github.com/playgroundhq/playground-reminder/go/internal/reminder/events"
	"github.com/playgroundhq/playground-reminder/go/internal/teammembers"
)

// matchStore adapts the matches repository to the scheduler's pager
// interface.
type matchStore struct {
	*matches.Repository
}

func (s matchStore) CandidateMatches() reminder.MatchPager {
	return s.Repository.CandidateMatches()
}

// setupReminderApp wires the dependency chain:
// DynamoDB client → repositories → resolver/policy → reminder app.
func setupReminderApp(db *dynamodb.Client, tables dynamo.Config, windows []reminder.Window, gateway *solapi_client.SolapiClient, publisher events.Publisher) *reminder.App {
	matchRepo := matches.NewRepository(db, tables.MatchesTable)
	memberRepo := teammembers.NewRepository(db, tables.TeamMembersTable)
	attendanceRepo := attendance.NewRepository(db, tables.AttendanceTable)

	resolver := reminder.NewResolver(memberRepo, attendanceRepo)
	policy := reminder.NewPolicy(windows)

	return reminder.NewApp(matchStore{matchRepo}, resolver, policy, gateway, publisher)
}
