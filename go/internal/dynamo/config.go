package dynamo

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Config holds the DynamoDB table layout and region settings.
type Config struct {
	Region           string
	MatchesTable     string
	TeamMembersTable string
	AttendanceTable  string
}

// NewConfigFromEnv reads AWS_REGION and the *_TABLE environment variables
// (with the platform's default table names).
func NewConfigFromEnv() Config {
	return Config{
		Region:           getEnv("AWS_REGION", "ap-northeast-2"),
		MatchesTable:     getEnv("MATCHES_TABLE", "pg-matches"),
		TeamMembersTable: getEnv("TEAM_MEMBERS_TABLE", "pg-team-members"),
		AttendanceTable:  getEnv("ATTENDANCE_TABLE", "pg-attendance"),
	}
}

// NewClient builds a DynamoDB client from the default AWS credential chain.
func NewClient(ctx context.Context, cfg Config) (*dynamodb.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(awsCfg), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
