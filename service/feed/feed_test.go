package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KAsare1/liftlog-server/cmd/models"
	"github.com/KAsare1/liftlog-server/service/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestSortByWorkoutDateIsStable(t *testing.T) {
	ws := []models.Workout{
		{ID: "first-15", WorkoutDate: day(15)},
		{ID: "only-20", WorkoutDate: day(20)},
		{ID: "second-15", WorkoutDate: day(15)},
		{ID: "only-1", WorkoutDate: day(1)},
	}

	SortByWorkoutDate(ws)

	var ids []string
	for _, w := range ws {
		ids = append(ids, w.ID)
	}
	assert.Equal(t, []string{"only-20", "first-15", "second-15", "only-1"}, ids)
}

func TestWorkoutsHydratesOwnerLikesAndComments(t *testing.T) {
	ctx := context.Background()
	clock := day(1)
	store := memstore.New().WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})

	for _, name := range []string{"alice", "bob", "carol"} {
		require.NoError(t, store.CreateUser(ctx, &models.User{ID: name, Username: name}))
	}
	w := &models.Workout{UserID: "alice", BodyPart: "chest", ExerciseName: "Bench Press", Sets: 3, Reps: 5, WorkoutDate: day(15)}
	require.NoError(t, store.CreateWorkout(ctx, w))
	bare := &models.Workout{UserID: "alice", BodyPart: "legs", ExerciseName: "Squat", Sets: 5, Reps: 5, WorkoutDate: day(14)}
	require.NoError(t, store.CreateWorkout(ctx, bare))

	require.NoError(t, store.CreateLike(ctx, &models.Like{WorkoutID: w.ID, UserID: "bob"}))
	require.NoError(t, store.CreateLike(ctx, &models.Like{WorkoutID: w.ID, UserID: "carol"}))
	require.NoError(t, store.CreateComment(ctx, &models.Comment{WorkoutID: w.ID, UserID: "bob", Content: "first"}))
	require.NoError(t, store.CreateComment(ctx, &models.Comment{WorkoutID: w.ID, UserID: "ghost", Content: "second"}))

	views, err := NewAssembler(store).Workouts(ctx, []models.Workout{*w, *bare})
	require.NoError(t, err)
	require.Len(t, views, 2)

	v := views[0]
	assert.Equal(t, w.ID, v.ID)
	assert.Equal(t, "alice", v.User.Username)

	require.Len(t, v.Likes, 2)
	assert.Equal(t, "carol", v.Likes[0].User.Username, "newest like first")
	assert.Equal(t, "bob", v.Likes[1].User.Username)
	assert.Equal(t, 2, v.LikeCount)

	require.Len(t, v.Comments, 2)
	assert.Equal(t, "first", v.Comments[0].Content, "oldest comment first")
	assert.Equal(t, "bob", v.Comments[0].User.Username)
	assert.Equal(t, models.UserSummary{ID: "ghost"}, v.Comments[1].User)
	assert.Equal(t, 2, v.CommentCount)

	assert.NotNil(t, views[1].Likes)
	assert.NotNil(t, views[1].Comments)
	assert.Empty(t, views[1].Likes)
	assert.Empty(t, views[1].Comments)
}

func TestWorkoutsEmpty(t *testing.T) {
	views, err := NewAssembler(memstore.New()).Workouts(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestCommentsSortsAscending(t *testing.T) {
	comments := []models.Comment{
		{ID: "late", CreatedAt: day(3)},
		{ID: "early", CreatedAt: day(1)},
		{ID: "mid", CreatedAt: day(2)},
	}

	views, err := NewAssembler(memstore.New()).Comments(context.Background(), comments)
	require.NoError(t, err)

	var ids []string
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"early", "mid", "late"}, ids)
}

type failingStore struct {
	*memstore.Store
	err error
}

func (f *failingStore) CommentsForWorkouts(ctx context.Context, ids []string) ([]models.Comment, error) {
	return nil, f.err
}

func TestWorkoutsPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("boom")
	store := &failingStore{Store: memstore.New(), err: boom}

	_, err := NewAssembler(store).Workouts(context.Background(), []models.Workout{{ID: "w"}})
	assert.ErrorIs(t, err, boom)
}
