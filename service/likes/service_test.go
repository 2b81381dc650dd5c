package likes

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/KAsare1/liftlog-server/cmd/models"
	"github.com/KAsare1/liftlog-server/cmd/utils"
	"github.com/KAsare1/liftlog-server/service/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *memstore.Store, string) {
	t.Helper()
	ctx := context.Background()

	clock := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	store := memstore.New().WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})
	for _, name := range []string{"alice", "bob", "carol"} {
		require.NoError(t, store.CreateUser(ctx, &models.User{ID: name, Username: name}))
	}
	w := &models.Workout{UserID: "alice", BodyPart: "chest", ExerciseName: "Bench Press", Sets: 3, Reps: 5, WorkoutDate: clock}
	require.NoError(t, store.CreateWorkout(ctx, w))
	return NewService(store), store, w.ID
}

func TestCreateLike(t *testing.T) {
	ctx := context.Background()
	svc, _, workoutID := newTestService(t)

	like, err := svc.Create(ctx, "bob", workoutID)
	require.NoError(t, err)
	assert.NotEmpty(t, like.ID)
	assert.Equal(t, workoutID, like.WorkoutID)
	assert.Equal(t, "bob", like.UserID)

	_, err = svc.Create(ctx, "bob", workoutID)
	assert.ErrorIs(t, err, utils.ErrConflict)

	_, err = svc.Create(ctx, "bob", "missing")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

// A stranger may like a workout they cannot fetch; only existence is checked.
func TestCreateLikeByStranger(t *testing.T) {
	svc, _, workoutID := newTestService(t)

	_, err := svc.Create(context.Background(), "carol", workoutID)
	assert.NoError(t, err)
}

func TestConcurrentLikesPersistOnce(t *testing.T) {
	ctx := context.Background()
	svc, store, workoutID := newTestService(t)

	const attempts = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, "bob", workoutID)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, utils.ErrConflict)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	n, err := store.CountLikes(ctx, workoutID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestRemoveLikeTwice(t *testing.T) {
	ctx := context.Background()
	svc, _, workoutID := newTestService(t)
	_, err := svc.Create(ctx, "bob", workoutID)
	require.NoError(t, err)

	// Another user's removal never touches bob's like.
	assert.ErrorIs(t, svc.Remove(ctx, "carol", workoutID), utils.ErrNotFound)

	require.NoError(t, svc.Remove(ctx, "bob", workoutID))
	assert.ErrorIs(t, svc.Remove(ctx, "bob", workoutID), utils.ErrNotFound)
}

func TestListLikesNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, _, workoutID := newTestService(t)
	for _, user := range []string{"bob", "carol", "alice"} {
		_, err := svc.Create(ctx, user, workoutID)
		require.NoError(t, err)
	}

	got, err := svc.List(ctx, workoutID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "alice", got[0].User.Username)
	assert.Equal(t, "carol", got[1].User.Username)
	assert.Equal(t, "bob", got[2].User.Username)

	empty, err := svc.List(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	svc, _, workoutID := newTestService(t)
	_, err := svc.Create(ctx, "bob", workoutID)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "carol", workoutID)
	require.NoError(t, err)

	sum, err := svc.Summary(ctx, "bob", workoutID)
	require.NoError(t, err)
	assert.Equal(t, models.LikeSummary{Count: 2, LikedByViewer: true}, *sum)

	sum, err = svc.Summary(ctx, "alice", workoutID)
	require.NoError(t, err)
	assert.Equal(t, models.LikeSummary{Count: 2, LikedByViewer: false}, *sum)
}
