// Package feed hydrates workout records into the views returned to clients:
// each workout with its owner summary, its likes (newest first) and its
// comments (oldest first), every like and comment carrying its author.
//
// Hydration is batched: one query each for likes, comments and users,
// regardless of how many workouts are passed in.
package feed

import (
	"context"
	"fmt"
	"sort"

	"github.com/KAsare1/liftlog-server/cmd/models"
)

type Store interface {
	UsersByIDs(ctx context.Context, ids []string) ([]models.User, error)
	LikesForWorkouts(ctx context.Context, workoutIDs []string) ([]models.Like, error)
	CommentsForWorkouts(ctx context.Context, workoutIDs []string) ([]models.Comment, error)
}

type Assembler struct {
	store Store
}

func NewAssembler(store Store) *Assembler {
	return &Assembler{store: store}
}

// SortByWorkoutDate orders workouts newest workout date first. The sort is
// stable, so equal dates keep the order the store returned them in.
func SortByWorkoutDate(ws []models.Workout) {
	sort.SliceStable(ws, func(i, j int) bool {
		return ws[i].WorkoutDate.After(ws[j].WorkoutDate)
	})
}

// Workouts hydrates ws, preserving their order.
func (a *Assembler) Workouts(ctx context.Context, ws []models.Workout) ([]models.WorkoutView, error) {
	views := make([]models.WorkoutView, 0, len(ws))
	if len(ws) == 0 {
		return views, nil
	}

	ids := make([]string, 0, len(ws))
	for _, w := range ws {
		ids = append(ids, w.ID)
	}

	likes, err := a.store.LikesForWorkouts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading likes: %w", err)
	}
	comments, err := a.store.CommentsForWorkouts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading comments: %w", err)
	}

	userIDs := newIDSet()
	for _, w := range ws {
		userIDs.add(w.UserID)
	}
	for _, l := range likes {
		userIDs.add(l.UserID)
	}
	for _, c := range comments {
		userIDs.add(c.UserID)
	}
	users, err := a.users(ctx, userIDs.list)
	if err != nil {
		return nil, err
	}

	sortLikes(likes)
	sortComments(comments)

	likesByWorkout := make(map[string][]models.LikeView)
	for _, l := range likes {
		likesByWorkout[l.WorkoutID] = append(likesByWorkout[l.WorkoutID], models.LikeView{Like: l, User: users.summary(l.UserID)})
	}
	commentsByWorkout := make(map[string][]models.CommentView)
	for _, c := range comments {
		commentsByWorkout[c.WorkoutID] = append(commentsByWorkout[c.WorkoutID], models.CommentView{Comment: c, User: users.summary(c.UserID)})
	}

	for _, w := range ws {
		wl := likesByWorkout[w.ID]
		if wl == nil {
			wl = []models.LikeView{}
		}
		wc := commentsByWorkout[w.ID]
		if wc == nil {
			wc = []models.CommentView{}
		}
		views = append(views, models.WorkoutView{
			Workout:      w,
			User:         users.summary(w.UserID),
			Likes:        wl,
			Comments:     wc,
			LikeCount:    len(wl),
			CommentCount: len(wc),
		})
	}
	return views, nil
}

// Workout hydrates a single workout.
func (a *Assembler) Workout(ctx context.Context, w models.Workout) (*models.WorkoutView, error) {
	views, err := a.Workouts(ctx, []models.Workout{w})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Likes attaches author summaries, newest like first.
func (a *Assembler) Likes(ctx context.Context, likes []models.Like) ([]models.LikeView, error) {
	ids := newIDSet()
	for _, l := range likes {
		ids.add(l.UserID)
	}
	users, err := a.users(ctx, ids.list)
	if err != nil {
		return nil, err
	}
	sortLikes(likes)
	views := make([]models.LikeView, 0, len(likes))
	for _, l := range likes {
		views = append(views, models.LikeView{Like: l, User: users.summary(l.UserID)})
	}
	return views, nil
}

// Comments attaches author summaries, oldest comment first.
func (a *Assembler) Comments(ctx context.Context, comments []models.Comment) ([]models.CommentView, error) {
	ids := newIDSet()
	for _, c := range comments {
		ids.add(c.UserID)
	}
	users, err := a.users(ctx, ids.list)
	if err != nil {
		return nil, err
	}
	sortComments(comments)
	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, models.CommentView{Comment: c, User: users.summary(c.UserID)})
	}
	return views, nil
}

func (a *Assembler) users(ctx context.Context, ids []string) (userIndex, error) {
	idx := make(userIndex, len(ids))
	if len(ids) == 0 {
		return idx, nil
	}
	users, err := a.store.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	for i := range users {
		idx[users[i].ID] = users[i].Summary()
	}
	return idx, nil
}

func sortLikes(likes []models.Like) {
	sort.SliceStable(likes, func(i, j int) bool {
		return likes[i].CreatedAt.After(likes[j].CreatedAt)
	})
}

func sortComments(comments []models.Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
}

type userIndex map[string]models.UserSummary

// summary falls back to a bare id when the identity row is missing.
func (u userIndex) summary(id string) models.UserSummary {
	if s, ok := u[id]; ok {
		return s
	}
	return models.UserSummary{ID: id}
}

type idSet struct {
	seen map[string]bool
	list []string
}

func newIDSet() *idSet {
	return &idSet{seen: make(map[string]bool)}
}

func (s *idSet) add(id string) {
	if s.seen[id] {
		return
	}
	s.seen[id] = true
	s.list = append(s.list, id)
}
