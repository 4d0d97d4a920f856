package attendance

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/playgroundhq/playground-reminder/go/internal/models"
)

// Querier defines what the repository needs from DynamoDB
type Querier interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Repository implements read-only access to attendance responses. Responses
// are created by the attendance-update path; one row per (match, user).
type Repository struct {
	db    Querier
	table string
}

// NewRepository creates a new attendance repository
func NewRepository(db Querier, table string) *Repository {
	return &Repository{
		db:    db,
		table: table,
	}
}

// ListResponses returns every recorded response for a match.
func (r *Repository) ListResponses(ctx context.Context, matchID string) ([]models.AttendanceResponse, error) {
	var responses []models.AttendanceResponse
	var lastKey map[string]types.AttributeValue

	for {
		input := &dynamodb.QueryInput{
			TableName:              aws.String(r.table),
			KeyConditionExpression: aws.String("matchId = :m"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":m": &types.AttributeValueMemberS{Value: matchID},
			},
			ExclusiveStartKey: lastKey,
		}

		out, err := r.db.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query responses for match %s: %w", matchID, err)
		}

		var page []models.AttendanceResponse
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal responses for match %s: %w", matchID, err)
		}
		responses = append(responses, page...)

		lastKey = out.LastEvaluatedKey
		if len(lastKey) == 0 {
			break
		}
	}

	return responses, nil
}
