package comments

import (
	"context"
	"fmt"

	"github.com/KAsare1/liftlog-server/cmd/models"
	"github.com/KAsare1/liftlog-server/cmd/utils"
	"github.com/KAsare1/liftlog-server/service/feed"
)

type Store interface {
	feed.Store
	FindWorkout(ctx context.Context, id string) (*models.Workout, error)
	CreateComment(ctx context.Context, c *models.Comment) error
	FindComment(ctx context.Context, id string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
	CountComments(ctx context.Context, workoutID string) (int64, error)
}

// CreateCommentInput limits content to 500 characters, counted as runes.
type CreateCommentInput struct {
	Content string `json:"content" validate:"required,max=500"`
}

type Service struct {
	store Store
	feed  *feed.Assembler
}

func NewService(store Store) *Service {
	return &Service{store: store, feed: feed.NewAssembler(store)}
}

func (s *Service) Create(ctx context.Context, viewerID, workoutID string, in CreateCommentInput) (*models.CommentView, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	if _, err := s.store.FindWorkout(ctx, workoutID); err != nil {
		return nil, err
	}

	c := &models.Comment{WorkoutID: workoutID, UserID: viewerID, Content: in.Content}
	if err := s.store.CreateComment(ctx, c); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	views, err := s.feed.Comments(ctx, []models.Comment{*c})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List returns the comments on a workout, oldest first.
func (s *Service) List(ctx context.Context, workoutID string) ([]models.CommentView, error) {
	comments, err := s.store.CommentsForWorkouts(ctx, []string{workoutID})
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	return s.feed.Comments(ctx, comments)
}

// Delete removes a comment. Only its author may delete it; the workout owner
// has no say.
func (s *Service) Delete(ctx context.Context, viewerID, commentID string) error {
	c, err := s.store.FindComment(ctx, commentID)
	if err != nil {
		return err
	}
	if c.UserID != viewerID {
		return fmt.Errorf("%w: comment %s belongs to another user", utils.ErrForbidden, commentID)
	}
	if err := s.store.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	return nil
}

func (s *Service) Count(ctx context.Context, workoutID string) (int64, error) {
	n, err := s.store.CountComments(ctx, workoutID)
	if err != nil {
		return 0, fmt.Errorf("counting comments: %w", err)
	}
	return n, nil
}
