package reminder

import (
	"context"
	"fmt"

	"github.com/playgroundhq/playground-reminder/go/internal/models"
)

// MembershipStore defines what the resolver needs from the roster store
type MembershipStore interface {
	ListMembers(ctx context.Context, teamID string) ([]models.TeamMember, error)
}

// AttendanceStore defines what the resolver needs from the attendance store
type AttendanceStore interface {
	ListResponses(ctx context.Context, matchID string) ([]models.AttendanceResponse, error)
}

// Resolver computes which of a team's members have not yet answered for a
// match. Pure read and set difference, no side effects.
type Resolver struct {
	members   MembershipStore
	responses AttendanceStore
}

// NewResolver creates a new non-responder resolver
func NewResolver(members MembershipStore, responses AttendanceStore) *Resolver {
	return &Resolver{
		members:   members,
		responses: responses,
	}
}

// NonResponders returns the members of the given team with no recorded
// response for the given match, in membership fetch order. A team with no
// members (including a team id that resolves to nothing) yields an empty
// result, not an error.
func (r *Resolver) NonResponders(ctx context.Context, teamID, matchID string) ([]models.TeamMember, error) {
	members, err := r.members.ListMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	responses, err := r.responses.ListResponses(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}

	responded := make(map[string]bool, len(responses))
	for _, resp := range responses {
		responded[resp.UserID] = true
	}

	var pending []models.TeamMember
	for _, m := range members {
		if !responded[m.UserID] {
			pending = append(pending, m)
		}
	}

	return pending, nil
}
