package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KAsare1/liftlog-server/cmd/models"
	"github.com/KAsare1/liftlog-server/cmd/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	invalidTextInput    = "22P02"
)

// Store is the postgres implementation of the service store interfaces.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// translate maps gorm and postgres failures onto the error taxonomy.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", utils.ErrNotFound, what)
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %s already exists", utils.ErrConflict, what)
	case errors.Is(err, gorm.ErrForeignKeyViolated) || pgCode(err) == foreignKeyViolation:
		return fmt.Errorf("%w: %s references a missing record", utils.ErrNotFound, what)
	case pgCode(err) == invalidTextInput:
		return fmt.Errorf("%w: %s: malformed id", utils.ErrValidation, what)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || pgCode(err) == uniqueViolation
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// Ids are uuid columns. A malformed id cannot match any row, so lookups
// answer without asking postgres, which would reject it.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func uuidsOnly(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if isUUID(id) {
			out = append(out, id)
		}
	}
	return out
}

func pairClause(db *gorm.DB, a, b string) *gorm.DB {
	return db.Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", a, b, b, a)
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error, "user "+u.Username)
}

func (s *Store) UsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	var users []models.User
	if ids = uuidsOnly(ids); len(ids) == 0 {
		return users, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, translate(err, "users")
	}
	return users, nil
}

// LinkFriends inserts one row for the pair unless it is already linked in
// either orientation. The lesser id is stored as user_id so the unique pair
// index also rejects a concurrent link made in the opposite direction.
func (s *Store) LinkFriends(ctx context.Context, a, b string) error {
	if b < a {
		a, b = b, a
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := pairClause(tx.Model(&models.Friendship{}), a, b).Count(&n).Error; err != nil {
			return translate(err, "friendship")
		}
		if n > 0 {
			return fmt.Errorf("%w: %s and %s are already friends", utils.ErrConflict, a, b)
		}
		return translate(tx.Create(&models.Friendship{UserID: a, FriendID: b}).Error, "friendship")
	})
}

func (s *Store) UnlinkFriends(ctx context.Context, a, b string) error {
	err := pairClause(s.db.WithContext(ctx), a, b).Delete(&models.Friendship{}).Error
	return translate(err, "friendship")
}

func (s *Store) FriendshipExists(ctx context.Context, a, b string) (bool, error) {
	if !isUUID(a) || !isUUID(b) {
		return false, nil
	}
	var n int64
	err := pairClause(s.db.WithContext(ctx).Model(&models.Friendship{}), a, b).Count(&n).Error
	if err != nil {
		return false, translate(err, "friendship")
	}
	return n > 0, nil
}

func (s *Store) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	var rows []models.Friendship
	if !isUUID(userID) {
		return []string{}, nil
	}
	err := s.db.WithContext(ctx).
		Where("user_id = ? OR friend_id = ?", userID, userID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "friendships")
	}
	ids := make([]string, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].Other(userID))
	}
	return ids, nil
}

func (s *Store) CreateWorkout(ctx context.Context, w *models.Workout) error {
	return translate(s.db.WithContext(ctx).Create(w).Error, "workout")
}

func (s *Store) FindWorkout(ctx context.Context, id string) (*models.Workout, error) {
	if !isUUID(id) {
		return nil, fmt.Errorf("%w: workout %s", utils.ErrNotFound, id)
	}
	var w models.Workout
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&w).Error; err != nil {
		return nil, translate(err, "workout "+id)
	}
	return &w, nil
}

// ListWorkoutsByOwners orders by workout date descending; equal dates keep
// insertion order, then id order.
func (s *Store) ListWorkoutsByOwners(ctx context.Context, ownerIDs []string) ([]models.Workout, error) {
	var ws []models.Workout
	if ownerIDs = uuidsOnly(ownerIDs); len(ownerIDs) == 0 {
		return ws, nil
	}
	err := s.db.WithContext(ctx).
		Where("user_id IN ?", ownerIDs).
		Order("workout_date DESC, created_at ASC, id ASC").
		Find(&ws).Error
	if err != nil {
		return nil, translate(err, "workouts")
	}
	return ws, nil
}

// ListWorkoutsInRange returns the owner's workouts dated within [from, to],
// oldest first.
func (s *Store) ListWorkoutsInRange(ctx context.Context, ownerID string, from, to time.Time) ([]models.Workout, error) {
	var ws []models.Workout
	if !isUUID(ownerID) {
		return ws, nil
	}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND workout_date BETWEEN ? AND ?", ownerID, from, to).
		Order("workout_date ASC, created_at ASC, id ASC").
		Find(&ws).Error
	if err != nil {
		return nil, translate(err, "workouts")
	}
	return ws, nil
}

func (s *Store) ListWorkoutsByExercise(ctx context.Context, ownerID, exerciseName string) ([]models.Workout, error) {
	var ws []models.Workout
	if !isUUID(ownerID) {
		return ws, nil
	}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND exercise_name = ?", ownerID, exerciseName).
		Order("workout_date DESC, created_at ASC, id ASC").
		Find(&ws).Error
	if err != nil {
		return nil, translate(err, "workouts")
	}
	return ws, nil
}

// UpdateWorkout writes only the patched columns, so zero values supplied by
// the caller are stored rather than skipped.
func (s *Store) UpdateWorkout(ctx context.Context, id string, patch models.WorkoutPatch) (*models.Workout, error) {
	if !isUUID(id) {
		return nil, fmt.Errorf("%w: workout %s", utils.ErrNotFound, id)
	}
	var w models.Workout
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Workout{}).Where("id = ?", id).Updates(patch.Columns())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id = ?", id).First(&w).Error
	})
	if err != nil {
		return nil, translate(err, "workout "+id)
	}
	return &w, nil
}

// DeleteWorkout removes the workout with its likes and comments in one
// transaction.
func (s *Store) DeleteWorkout(ctx context.Context, id string) error {
	if !isUUID(id) {
		return fmt.Errorf("%w: workout %s", utils.ErrNotFound, id)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workout_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workout_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Workout{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate(err, "workout "+id)
}

// CreateLike relies on idx_like_workout_user; a duplicate is ErrConflict.
func (s *Store) CreateLike(ctx context.Context, l *models.Like) error {
	return translate(s.db.WithContext(ctx).Create(l).Error, "like")
}

func (s *Store) FindLike(ctx context.Context, workoutID, userID string) (*models.Like, error) {
	if !isUUID(workoutID) || !isUUID(userID) {
		return nil, fmt.Errorf("%w: like", utils.ErrNotFound)
	}
	var l models.Like
	err := s.db.WithContext(ctx).
		Where("workout_id = ? AND user_id = ?", workoutID, userID).
		First(&l).Error
	if err != nil {
		return nil, translate(err, "like")
	}
	return &l, nil
}

func (s *Store) DeleteLike(ctx context.Context, workoutID, userID string) error {
	if !isUUID(workoutID) || !isUUID(userID) {
		return fmt.Errorf("%w: like", utils.ErrNotFound)
	}
	res := s.db.WithContext(ctx).
		Where("workout_id = ? AND user_id = ?", workoutID, userID).
		Delete(&models.Like{})
	if res.Error != nil {
		return translate(res.Error, "like")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: like", utils.ErrNotFound)
	}
	return nil
}

// LikesForWorkouts returns likes newest first.
func (s *Store) LikesForWorkouts(ctx context.Context, workoutIDs []string) ([]models.Like, error) {
	var likes []models.Like
	if workoutIDs = uuidsOnly(workoutIDs); len(workoutIDs) == 0 {
		return likes, nil
	}
	err := s.db.WithContext(ctx).
		Where("workout_id IN ?", workoutIDs).
		Order("created_at DESC, id DESC").
		Find(&likes).Error
	if err != nil {
		return nil, translate(err, "likes")
	}
	return likes, nil
}

func (s *Store) CountLikes(ctx context.Context, workoutID string) (int64, error) {
	var n int64
	if !isUUID(workoutID) {
		return 0, nil
	}
	err := s.db.WithContext(ctx).Model(&models.Like{}).Where("workout_id = ?", workoutID).Count(&n).Error
	if err != nil {
		return 0, translate(err, "likes")
	}
	return n, nil
}

func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	return translate(s.db.WithContext(ctx).Create(c).Error, "comment")
}

func (s *Store) FindComment(ctx context.Context, id string) (*models.Comment, error) {
	if !isUUID(id) {
		return nil, fmt.Errorf("%w: comment %s", utils.ErrNotFound, id)
	}
	var c models.Comment
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translate(err, "comment "+id)
	}
	return &c, nil
}

func (s *Store) DeleteComment(ctx context.Context, id string) error {
	if !isUUID(id) {
		return fmt.Errorf("%w: comment %s", utils.ErrNotFound, id)
	}
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Comment{})
	if res.Error != nil {
		return translate(res.Error, "comment "+id)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: comment %s", utils.ErrNotFound, id)
	}
	return nil
}

// CommentsForWorkouts returns comments oldest first.
func (s *Store) CommentsForWorkouts(ctx context.Context, workoutIDs []string) ([]models.Comment, error) {
	var comments []models.Comment
	if workoutIDs = uuidsOnly(workoutIDs); len(workoutIDs) == 0 {
		return comments, nil
	}
	err := s.db.WithContext(ctx).
		Where("workout_id IN ?", workoutIDs).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, translate(err, "comments")
	}
	return comments, nil
}

func (s *Store) CountComments(ctx context.Context, workoutID string) (int64, error) {
	var n int64
	if !isUUID(workoutID) {
		return 0, nil
	}
	err := s.db.WithContext(ctx).Model(&models.Comment{}).Where("workout_id = ?", workoutID).Count(&n).Error
	if err != nil {
		return 0, translate(err, "comments")
	}
	return n, nil
}
