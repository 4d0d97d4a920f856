package matches

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/playgroundhq/playground-reminder/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuerier struct {
	scanOutputs []*dynamodb.ScanOutput
	scanErr     error
	scanInputs  []*dynamodb.ScanInput

	updateErr    error
	updateInputs []*dynamodb.UpdateItemInput
}

func (f *fakeQuerier) Scan(_ context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.scanInputs = append(f.scanInputs, params)
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	out := f.scanOutputs[len(f.scanInputs)-1]
	return out, nil
}

func (f *fakeQuerier) UpdateItem(_ context.Context, params *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updateInputs = append(f.updateInputs, params)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func matchItem(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id":          &types.AttributeValueMemberS{Value: id},
		"homeTeamId":  &types.AttributeValueMemberS{Value: "team-1"},
		"scheduledAt": &types.AttributeValueMemberS{Value: "2025-05-11T19:30:00Z"},
		"status":      &types.AttributeValueMemberS{Value: "accepted"},
		"venue":       &types.AttributeValueMemberS{Value: "Pitch 3"},
	}
}

func TestPager_WalksAllPages(t *testing.T) {
	continuation := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: "m2"},
	}
	db := &fakeQuerier{scanOutputs: []*dynamodb.ScanOutput{
		{Items: []map[string]types.AttributeValue{matchItem("m1"), matchItem("m2")}, LastEvaluatedKey: continuation},
		{Items: []map[string]types.AttributeValue{matchItem("m3")}},
	}}

	pager := NewRepository(db, "pg-matches").CandidateMatches()

	var got []string
	for pager.More() {
		page, err := pager.NextPage(context.Background())
		require.NoError(t, err)
		for _, m := range page {
			got = append(got, m.ID)
		}
	}
	assert.Equal(t, []string{"m1", "m2", "m3"}, got)
	assert.False(t, pager.More())

	require.Len(t, db.scanInputs, 2)
	first, second := db.scanInputs[0], db.scanInputs[1]
	assert.Equal(t, "pg-matches", *first.TableName)
	assert.Equal(t, "#s IN (:s0, :s1)", *first.FilterExpression)
	assert.Equal(t, "status", first.ExpressionAttributeNames["#s"])
	for i, status := range models.CandidateStatuses {
		av, ok := first.ExpressionAttributeValues[fmt.Sprintf(":s%d", i)].(*types.AttributeValueMemberS)
		require.True(t, ok)
		assert.Equal(t, string(status), av.Value)
	}
	assert.Nil(t, first.ExclusiveStartKey)
	assert.Equal(t, continuation, second.ExclusiveStartKey, "continuation key carried between pages")

	// Exhausted pager stays exhausted.
	page, err := pager.NextPage(context.Background())
	require.NoError(t, err)
	assert.Empty(t, page)
	require.Len(t, db.scanInputs, 2, "no further scans after the last page")
}

func TestPager_UnmarshalsMatchFields(t *testing.T) {
	db := &fakeQuerier{scanOutputs: []*dynamodb.ScanOutput{
		{Items: []map[string]types.AttributeValue{{
			"id":          &types.AttributeValueMemberS{Value: "m1"},
			"homeTeamId":  &types.AttributeValueMemberS{Value: "team-1"},
			"scheduledAt": &types.AttributeValueMemberS{Value: "2025-05-11T19:30:00Z"},
			"status":      &types.AttributeValueMemberS{Value: "pending"},
			"windowMarks": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
				"D-2": &types.AttributeValueMemberS{Value: "2025-05-09T19:00:00Z"},
			}},
		}}},
	}}

	page, err := NewRepository(db, "pg-matches").CandidateMatches().NextPage(context.Background())
	require.NoError(t, err)
	require.Len(t, page, 1)

	m := page[0]
	assert.Equal(t, "m1", m.ID)
	assert.Equal(t, "team-1", m.HomeTeamID)
	assert.Equal(t, models.MatchStatusPending, m.Status)
	assert.Equal(t, time.Date(2025, 5, 11, 19, 30, 0, 0, time.UTC), m.ScheduledAt)
	assert.True(t, m.WindowMarked("D-2"))
	assert.False(t, m.WindowMarked("D-1"))
}

func TestPager_ScanError(t *testing.T) {
	db := &fakeQuerier{scanErr: errors.New("throttled")}
	pager := NewRepository(db, "pg-matches").CandidateMatches()

	_, err := pager.NextPage(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to scan candidate matches")
}

func TestMarkWindow(t *testing.T) {
	db := &fakeQuerier{}
	repo := NewRepository(db, "pg-matches")

	at := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.MarkWindow(context.Background(), "m1", "D-1", at))

	require.Len(t, db.updateInputs, 2)

	init, set := db.updateInputs[0], db.updateInputs[1]
	assert.Equal(t, "SET #wm = if_not_exists(#wm, :empty)", *init.UpdateExpression)
	assert.Equal(t, "windowMarks", init.ExpressionAttributeNames["#wm"])

	assert.Equal(t, "SET #wm.#w = :at", *set.UpdateExpression)
	assert.Equal(t, "D-1", set.ExpressionAttributeNames["#w"])
	assert.Nil(t, set.ConditionExpression, "mark write is unconditioned")

	key, ok := set.Key["id"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "m1", key.Value)

	atAttr, ok := set.ExpressionAttributeValues[":at"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "2025-05-10T09:00:00Z", atAttr.Value)
}

func TestMarkWindow_Error(t *testing.T) {
	db := &fakeQuerier{updateErr: errors.New("access denied")}
	repo := NewRepository(db, "pg-matches")

	err := repo.MarkWindow(context.Background(), "m1", "D-1", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "m1")
}
