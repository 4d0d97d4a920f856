package matches

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/playgroundhq/playground-reminder/go/internal/models"
)

// Querier defines what the repository needs from DynamoDB
type Querier interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// Repository implements match store access for the reminder pipeline.
// It reads candidate matches and writes window-completion marks; all other
// match mutations belong to the match CRUD path.
type Repository struct {
	db    Querier
	table string
}

// NewRepository creates a new matches repository
func NewRepository(db Querier, table string) *Repository {
	return &Repository{
		db:    db,
		table: table,
	}
}

// CandidateMatches returns a pager over matches whose status keeps them
// eligible for reminder evaluation (pending or accepted). Pages are fetched
// lazily; the caller loops while More() reports true.
func (r *Repository) CandidateMatches() *Pager {
	return &Pager{repo: r}
}

// Pager walks the candidate-match scan one page at a time, carrying the
// store's continuation key between calls.
type Pager struct {
	repo    *Repository
	lastKey map[string]types.AttributeValue
	started bool
	done    bool
}

// More reports whether the store may still have pages to return.
func (p *Pager) More() bool {
	return !p.done
}

// NextPage fetches the next page of candidate matches. A page may be empty
// while More() still reports true; the scan is only finished once the store
// stops returning a continuation key.
func (p *Pager) NextPage(ctx context.Context) ([]models.Match, error) {
	if p.done {
		return nil, nil
	}

	placeholders := make([]string, len(models.CandidateStatuses))
	values := make(map[string]types.AttributeValue, len(models.CandidateStatuses))
	for i, status := range models.CandidateStatuses {
		ph := fmt.Sprintf(":s%d", i)
		placeholders[i] = ph
		values[ph] = &types.AttributeValueMemberS{Value: string(status)}
	}

	input := &dynamodb.ScanInput{
		TableName:        aws.String(p.repo.table),
		FilterExpression: aws.String("#s IN (" + strings.Join(placeholders, ", ") + ")"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: values,
	}
	if p.started && len(p.lastKey) > 0 {
		input.ExclusiveStartKey = p.lastKey
	}

	out, err := p.repo.db.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to scan candidate matches: %w", err)
	}

	var page []models.Match
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
		return nil, fmt.Errorf("failed to unmarshal candidate matches: %w", err)
	}

	p.started = true
	p.lastKey = out.LastEvaluatedKey
	if len(p.lastKey) == 0 {
		p.done = true
	}

	return page, nil
}

// MarkWindow records that the given window has been processed for a match.
// The write is not conditioned on a prior read: overlapping invocations may
// both observe the mark as unset and both dispatch, which the reminder
// pipeline accepts as at-least-once delivery.
func (r *Repository) MarkWindow(ctx context.Context, matchID string, label models.WindowLabel, at time.Time) error {
	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: matchID},
	}

	// SET windowMarks.#w fails when the map attribute does not exist yet, so
	// the map is created first on items written before this field was added.
	_, err := r.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(r.table),
		Key:                      key,
		UpdateExpression:         aws.String("SET #wm = if_not_exists(#wm, :empty)"),
		ExpressionAttributeNames: map[string]string{"#wm": "windowMarks"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":empty": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize window marks for match %s: %w", matchID, err)
	}

	_, err = r.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.table),
		Key:              key,
		UpdateExpression: aws.String("SET #wm.#w = :at"),
		ExpressionAttributeNames: map[string]string{
			"#wm": "windowMarks",
			"#w":  string(label),
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":at": &types.AttributeValueMemberS{Value: at.UTC().Format(time.RFC3339)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to mark window %s for match %s: %w", label, matchID, err)
	}

	return nil
}
