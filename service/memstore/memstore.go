// Package memstore is an in-memory implementation of every store interface
// the services consume. It enforces the same uniqueness and foreign key rules
// as the postgres schema and hands out deep copies of its records.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/KAsare1/liftlog-server/cmd/models"
	"github.com/KAsare1/liftlog-server/cmd/utils"
	"github.com/google/uuid"
)

type row[T any] struct {
	seq uint64
	val T
}

type Store struct {
	mu  sync.RWMutex
	seq uint64
	now func() time.Time

	users       map[string]models.User
	friendships []models.Friendship
	workouts    map[string]row[models.Workout]
	likes       map[string]row[models.Like]
	comments    map[string]row[models.Comment]
}

func New() *Store {
	return &Store{
		now:      time.Now,
		users:    make(map[string]models.User),
		workouts: make(map[string]row[models.Workout]),
		likes:    make(map[string]row[models.Like]),
		comments: make(map[string]row[models.Comment]),
	}
}

// WithClock replaces the timestamp source. Used by tests that need
// distinct or identical created_at values.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) next() uint64 {
	s.seq++
	return s.seq
}

func (s *Store) stamp(t *time.Time) {
	if t.IsZero() {
		*t = s.now()
	}
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	for _, existing := range s.users {
		if existing.Username == u.Username || existing.ID == u.ID {
			return fmt.Errorf("%w: user %s already exists", utils.ErrConflict, u.Username)
		}
	}
	s.stamp(&u.CreatedAt)
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = cloneUser(*u)
	return nil
}

func (s *Store) UsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

// LinkFriends stores the friendship as the single row (a, b).
func (s *Store) LinkFriends(ctx context.Context, a, b string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.friendships {
		if (f.UserID == a && f.FriendID == b) || (f.UserID == b && f.FriendID == a) {
			return fmt.Errorf("%w: %s and %s are already friends", utils.ErrConflict, a, b)
		}
	}
	f := models.Friendship{ID: uuid.NewString(), UserID: a, FriendID: b}
	s.stamp(&f.CreatedAt)
	s.friendships = append(s.friendships, f)
	return nil
}

func (s *Store) UnlinkFriends(ctx context.Context, a, b string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.friendships[:0]
	for _, f := range s.friendships {
		if (f.UserID == a && f.FriendID == b) || (f.UserID == b && f.FriendID == a) {
			continue
		}
		kept = append(kept, f)
	}
	s.friendships = kept
	return nil
}

func (s *Store) FriendshipExists(ctx context.Context, a, b string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.friendships {
		if (f.UserID == a && f.FriendID == b) || (f.UserID == b && f.FriendID == a) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for _, f := range s.friendships {
		if f.UserID == userID || f.FriendID == userID {
			ids = append(ids, f.Other(userID))
		}
	}
	return ids, nil
}

func (s *Store) CreateWorkout(ctx context.Context, w *models.Workout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	s.stamp(&w.CreatedAt)
	w.UpdatedAt = w.CreatedAt
	s.workouts[w.ID] = row[models.Workout]{seq: s.next(), val: cloneWorkout(*w)}
	return nil
}

func (s *Store) FindWorkout(ctx context.Context, id string) (*models.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.workouts[id]
	if !ok {
		return nil, fmt.Errorf("%w: workout %s", utils.ErrNotFound, id)
	}
	w := cloneWorkout(r.val)
	return &w, nil
}

func (s *Store) selectWorkouts(keep func(models.Workout) bool, less func(a, b row[models.Workout]) bool) []models.Workout {
	var rows []row[models.Workout]
	for _, r := range s.workouts {
		if keep(r.val) {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
	out := make([]models.Workout, 0, len(rows))
	for _, r := range rows {
		out = append(out, cloneWorkout(r.val))
	}
	return out
}

func newestWorkoutFirst(a, b row[models.Workout]) bool {
	if !a.val.WorkoutDate.Equal(b.val.WorkoutDate) {
		return a.val.WorkoutDate.After(b.val.WorkoutDate)
	}
	return a.seq < b.seq
}

func oldestWorkoutFirst(a, b row[models.Workout]) bool {
	if !a.val.WorkoutDate.Equal(b.val.WorkoutDate) {
		return a.val.WorkoutDate.Before(b.val.WorkoutDate)
	}
	return a.seq < b.seq
}

func (s *Store) ListWorkoutsByOwners(ctx context.Context, ownerIDs []string) ([]models.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owners := make(map[string]bool, len(ownerIDs))
	for _, id := range ownerIDs {
		owners[id] = true
	}
	return s.selectWorkouts(func(w models.Workout) bool { return owners[w.UserID] }, newestWorkoutFirst), nil
}

func (s *Store) ListWorkoutsInRange(ctx context.Context, ownerID string, from, to time.Time) ([]models.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.selectWorkouts(func(w models.Workout) bool {
		return w.UserID == ownerID && !w.WorkoutDate.Before(from) && !w.WorkoutDate.After(to)
	}, oldestWorkoutFirst), nil
}

func (s *Store) ListWorkoutsByExercise(ctx context.Context, ownerID, exerciseName string) ([]models.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.selectWorkouts(func(w models.Workout) bool {
		return w.UserID == ownerID && w.ExerciseName == exerciseName
	}, newestWorkoutFirst), nil
}

func (s *Store) UpdateWorkout(ctx context.Context, id string, patch models.WorkoutPatch) (*models.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.workouts[id]
	if !ok {
		return nil, fmt.Errorf("%w: workout %s", utils.ErrNotFound, id)
	}
	patch.Apply(&r.val)
	r.val.UpdatedAt = s.now()
	s.workouts[id] = r
	w := cloneWorkout(r.val)
	return &w, nil
}

// DeleteWorkout removes the workout with its likes and comments.
func (s *Store) DeleteWorkout(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workouts[id]; !ok {
		return fmt.Errorf("%w: workout %s", utils.ErrNotFound, id)
	}
	delete(s.workouts, id)
	for k, r := range s.likes {
		if r.val.WorkoutID == id {
			delete(s.likes, k)
		}
	}
	for k, r := range s.comments {
		if r.val.WorkoutID == id {
			delete(s.comments, k)
		}
	}
	return nil
}

func (s *Store) CreateLike(ctx context.Context, l *models.Like) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workouts[l.WorkoutID]; !ok {
		return fmt.Errorf("%w: workout %s", utils.ErrNotFound, l.WorkoutID)
	}
	for _, r := range s.likes {
		if r.val.WorkoutID == l.WorkoutID && r.val.UserID == l.UserID {
			return fmt.Errorf("%w: workout %s already liked", utils.ErrConflict, l.WorkoutID)
		}
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	s.stamp(&l.CreatedAt)
	s.likes[l.ID] = row[models.Like]{seq: s.next(), val: *l}
	return nil
}

func (s *Store) FindLike(ctx context.Context, workoutID, userID string) (*models.Like, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.likes {
		if r.val.WorkoutID == workoutID && r.val.UserID == userID {
			l := r.val
			return &l, nil
		}
	}
	return nil, fmt.Errorf("%w: like", utils.ErrNotFound)
}

func (s *Store) DeleteLike(ctx context.Context, workoutID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, r := range s.likes {
		if r.val.WorkoutID == workoutID && r.val.UserID == userID {
			delete(s.likes, k)
			return nil
		}
	}
	return fmt.Errorf("%w: like", utils.ErrNotFound)
}

// LikesForWorkouts returns likes newest first.
func (s *Store) LikesForWorkouts(ctx context.Context, workoutIDs []string) ([]models.Like, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := set(workoutIDs)
	var rows []row[models.Like]
	for _, r := range s.likes {
		if ids[r.val.WorkoutID] {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.val.CreatedAt.Equal(b.val.CreatedAt) {
			return a.val.CreatedAt.After(b.val.CreatedAt)
		}
		return a.seq > b.seq
	})
	out := make([]models.Like, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.val)
	}
	return out, nil
}

func (s *Store) CountLikes(ctx context.Context, workoutID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, r := range s.likes {
		if r.val.WorkoutID == workoutID {
			n++
		}
	}
	return n, nil
}

func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workouts[c.WorkoutID]; !ok {
		return fmt.Errorf("%w: workout %s", utils.ErrNotFound, c.WorkoutID)
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	s.stamp(&c.CreatedAt)
	c.UpdatedAt = c.CreatedAt
	s.comments[c.ID] = row[models.Comment]{seq: s.next(), val: *c}
	return nil
}

func (s *Store) FindComment(ctx context.Context, id string) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.comments[id]
	if !ok {
		return nil, fmt.Errorf("%w: comment %s", utils.ErrNotFound, id)
	}
	c := r.val
	return &c, nil
}

func (s *Store) DeleteComment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return fmt.Errorf("%w: comment %s", utils.ErrNotFound, id)
	}
	delete(s.comments, id)
	return nil
}

// CommentsForWorkouts returns comments oldest first.
func (s *Store) CommentsForWorkouts(ctx context.Context, workoutIDs []string) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := set(workoutIDs)
	var rows []row[models.Comment]
	for _, r := range s.comments {
		if ids[r.val.WorkoutID] {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.val.CreatedAt.Equal(b.val.CreatedAt) {
			return a.val.CreatedAt.Before(b.val.CreatedAt)
		}
		return a.seq < b.seq
	})
	out := make([]models.Comment, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.val)
	}
	return out, nil
}

func (s *Store) CountComments(ctx context.Context, workoutID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, r := range s.comments {
		if r.val.WorkoutID == workoutID {
			n++
		}
	}
	return n, nil
}

func set(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneWorkout(w models.Workout) models.Workout {
	w.Weight = clonePtr(w.Weight)
	w.Memo = clonePtr(w.Memo)
	w.ImageURL = clonePtr(w.ImageURL)
	return w
}

func cloneUser(u models.User) models.User {
	u.ProfileImageURL = clonePtr(u.ProfileImageURL)
	return u
}
