package teammembers

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

// Repository implements read-only roster access. Membership lifecycle is
// owned by the team CRUD path.
type Repository struct {
	db    Querier
	table string
}

// NewRepository creates a new team members repository
func NewRepository(db Querier, table string) *Repository {
	return &Repository{
		db:    db,
		table: table,
	}
}

// ListMembers returns the full roster for a team in the store's key order.
// A team with no members (or no such team at all) yields an empty slice.
func (r *Repository) ListMembers(ctx context.Context, teamID string) ([]models.TeamMember, error) {
	var members []models.TeamMember
	var lastKey map[string]types.AttributeValue

	for {
		input := &dynamodb.QueryInput{
			TableName:              aws.String(r.table),
			KeyConditionExpression: aws.String("teamId = :t"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":t": &types.AttributeValueMemberS{Value: teamID},
			},
			ExclusiveStartKey: lastKey,
		}

		out, err := r.db.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query members for team %s: %w", teamID, err)
		}

		var page []models.TeamMember
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal members for team %s: %w", teamID, err)
		}
		members = append(members, page...)

		lastKey = out.LastEvaluatedKey
		if len(lastKey) == 0 {
			break
		}
	}

	return members, nil
}
