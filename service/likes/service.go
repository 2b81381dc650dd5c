package likes

import (
	"context"
	"errors"
	"fmt"

	"github.com/KAsare1/liftlog-server/cmd/models"
	"github.com/KAsare1/liftlog-server/cmd/utils"
	"github.com/KAsare1/liftlog-server/service/feed"
)

type Store interface {
	feed.Store
	FindWorkout(ctx context.Context, id string) (*models.Workout, error)
	CreateLike(ctx context.Context, l *models.Like) error
	FindLike(ctx context.Context, workoutID, userID string) (*models.Like, error)
	DeleteLike(ctx context.Context, workoutID, userID string) error
	CountLikes(ctx context.Context, workoutID string) (int64, error)
}

type Service struct {
	store Store
	feed  *feed.Assembler
}

func NewService(store Store) *Service {
	return &Service{store: store, feed: feed.NewAssembler(store)}
}

// Create records that viewerID likes the workout. A second like by the same
// user is a Conflict. The lookup before the insert only gives the common
// case a clean error; the store's unique index decides under concurrency.
func (s *Service) Create(ctx context.Context, viewerID, workoutID string) (*models.Like, error) {
	if _, err := s.store.FindWorkout(ctx, workoutID); err != nil {
		return nil, err
	}

	_, err := s.store.FindLike(ctx, workoutID, viewerID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: workout %s already liked", utils.ErrConflict, workoutID)
	case !errors.Is(err, utils.ErrNotFound):
		return nil, fmt.Errorf("checking existing like: %w", err)
	}

	like := &models.Like{WorkoutID: workoutID, UserID: viewerID}
	if err := s.store.CreateLike(ctx, like); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("creating like: %w", err)
	}
	return like, nil
}

// Remove deletes the viewer's own like. Likes are keyed by (workout, viewer),
// so nobody can remove another user's like.
func (s *Service) Remove(ctx context.Context, viewerID, workoutID string) error {
	return s.store.DeleteLike(ctx, workoutID, viewerID)
}

// List returns the likes on a workout with their authors, newest first.
func (s *Service) List(ctx context.Context, workoutID string) ([]models.LikeView, error) {
	likes, err := s.store.LikesForWorkouts(ctx, []string{workoutID})
	if err != nil {
		return nil, fmt.Errorf("listing likes: %w", err)
	}
	return s.feed.Likes(ctx, likes)
}

func (s *Service) Summary(ctx context.Context, viewerID, workoutID string) (*models.LikeSummary, error) {
	count, err := s.store.CountLikes(ctx, workoutID)
	if err != nil {
		return nil, fmt.Errorf("counting likes: %w", err)
	}

	sum := &models.LikeSummary{Count: count}
	_, err = s.store.FindLike(ctx, workoutID, viewerID)
	switch {
	case err == nil:
		sum.LikedByViewer = true
	case !errors.Is(err, utils.ErrNotFound):
		return nil, fmt.Errorf("checking viewer like: %w", err)
	}
	return sum, nil
}
