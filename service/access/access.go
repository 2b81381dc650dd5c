// Package access decides who may see and change workout records.
//
// Visibility is ownership or friendship. Friendship rows are stored with a
// direction, but every check here treats the relation as undirected.
package access

import (
	"context"
	"fmt"

	"github.com/KAsare1/liftlog-server/cmd/models"
	"github.com/KAsare1/liftlog-server/cmd/utils"
)

// FriendGraph is the read side of the friendship store. Implementations must
// consider both (a, b) and (b, a) rows.
type FriendGraph interface {
	FriendshipExists(ctx context.Context, a, b string) (bool, error)
	FriendIDs(ctx context.Context, userID string) ([]string, error)
}

type Engine struct {
	graph FriendGraph
}

func NewEngine(graph FriendGraph) *Engine {
	return &Engine{graph: graph}
}

// AreFriends reports whether a friendship row links a and b in either
// orientation. Self-visibility is handled by ownership, not here.
func (e *Engine) AreFriends(ctx context.Context, a, b string) (bool, error) {
	ok, err := e.graph.FriendshipExists(ctx, a, b)
	if err != nil {
		return false, fmt.Errorf("checking friendship: %w", err)
	}
	return ok, nil
}

func (e *Engine) CanView(ctx context.Context, viewerID string, w *models.Workout) (bool, error) {
	if e.CanModify(viewerID, w) {
		return true, nil
	}
	return e.AreFriends(ctx, viewerID, w.UserID)
}

func (e *Engine) CanModify(viewerID string, w *models.Workout) bool {
	return w.UserID == viewerID
}

// AuthorizeView returns ErrForbidden when viewerID may not see w.
func (e *Engine) AuthorizeView(ctx context.Context, viewerID string, w *models.Workout) error {
	ok, err := e.CanView(ctx, viewerID, w)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: workout %s is not shared with you", utils.ErrForbidden, w.ID)
	}
	return nil
}

// AuthorizeModify returns ErrForbidden unless viewerID owns w.
func (e *Engine) AuthorizeModify(viewerID string, w *models.Workout) error {
	if !e.CanModify(viewerID, w) {
		return fmt.Errorf("%w: only the owner can change workout %s", utils.ErrForbidden, w.ID)
	}
	return nil
}

// FeedScope returns the viewer followed by each distinct friend. Duplicate
// rows and self-friendship rows collapse.
func (e *Engine) FeedScope(ctx context.Context, viewerID string) ([]string, error) {
	friends, err := e.graph.FriendIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("loading friends: %w", err)
	}
	seen := map[string]bool{viewerID: true}
	scope := []string{viewerID}
	for _, id := range friends {
		if seen[id] {
			continue
		}
		seen[id] = true
		scope = append(scope, id)
	}
	return scope, nil
}
