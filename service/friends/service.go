// Package friends exposes the friendship graph to clients. Friendships are
// provisioned elsewhere; Link exists for operators seeding data.
package friends

import (
	"context"
	"fmt"
	"sort"

	"github.com/KAsare1/liftlog-server/cmd/models"
	"github.com/KAsare1/liftlog-server/cmd/utils"
)

type Store interface {
	FriendIDs(ctx context.Context, userID string) ([]string, error)
	UsersByIDs(ctx context.Context, ids []string) ([]models.User, error)
	LinkFriends(ctx context.Context, a, b string) error
	UnlinkFriends(ctx context.Context, a, b string) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the viewer's friends ordered by username. Friends whose user
// record is missing are listed by id only.
func (s *Service) List(ctx context.Context, viewerID string) ([]models.UserSummary, error) {
	ids, err := s.store.FriendIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("listing friend ids: %w", err)
	}

	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == viewerID || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}

	out := make([]models.UserSummary, 0, len(unique))
	if len(unique) == 0 {
		return out, nil
	}

	users, err := s.store.UsersByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("loading friends: %w", err)
	}
	found := make(map[string]models.UserSummary, len(users))
	for i := range users {
		found[users[i].ID] = users[i].Summary()
	}
	for _, id := range unique {
		if sum, ok := found[id]; ok {
			out = append(out, sum)
			continue
		}
		out = append(out, models.UserSummary{ID: id})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Username < out[j].Username
	})
	return out, nil
}

// Link records a friendship between a and b. Linking a pair that is already
// linked, in either orientation, is a Conflict.
func (s *Service) Link(ctx context.Context, a, b string) error {
	if err := checkPair(a, b); err != nil {
		return err
	}
	return s.store.LinkFriends(ctx, a, b)
}

// Unlink removes the friendship between a and b whichever way it was stored.
func (s *Service) Unlink(ctx context.Context, a, b string) error {
	if err := checkPair(a, b); err != nil {
		return err
	}
	return s.store.UnlinkFriends(ctx, a, b)
}

func checkPair(a, b string) error {
	if a == "" {
		return utils.NewValidationError("user", "is required")
	}
	if b == "" {
		return utils.NewValidationError("friend", "is required")
	}
	if a == b {
		return utils.NewValidationError("friend", "cannot befriend yourself")
	}
	return nil
}
