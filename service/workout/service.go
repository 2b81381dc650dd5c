package workout

import (
	"context"
	"fmt"
	"time"

	"github.com/KAsare1/liftlog-server/cmd/models"
	"github.com/KAsare1/liftlog-server/cmd/utils"
	"github.com/KAsare1/liftlog-server/service/access"
	"github.com/KAsare1/liftlog-server/service/feed"
)

type Store interface {
	feed.Store
	CreateWorkout(ctx context.Context, w *models.Workout) error
	FindWorkout(ctx context.Context, id string) (*models.Workout, error)
	ListWorkoutsByOwners(ctx context.Context, ownerIDs []string) ([]models.Workout, error)
	ListWorkoutsInRange(ctx context.Context, ownerID string, from, to time.Time) ([]models.Workout, error)
	ListWorkoutsByExercise(ctx context.Context, ownerID, exerciseName string) ([]models.Workout, error)
	UpdateWorkout(ctx context.Context, id string, patch models.WorkoutPatch) (*models.Workout, error)
	DeleteWorkout(ctx context.Context, id string) error
}

type CreateWorkoutInput struct {
	BodyPart     string   `json:"body_part" validate:"required,max=50"`
	ExerciseName string   `json:"exercise_name" validate:"required,max=100"`
	Sets         int      `json:"sets" validate:"min=1"`
	Reps         int      `json:"reps" validate:"min=1"`
	Weight       *float64 `json:"weight" validate:"omitempty,min=0"`
	Memo         *string  `json:"memo"`
	ImageURL     *string  `json:"image_url" validate:"omitempty,max=500"`
	WorkoutDate  string   `json:"workout_date" validate:"required"`
}

// UpdateWorkoutInput carries only the fields the client sent. A field
// present in the JSON body, even as 0 or "", is applied.
type UpdateWorkoutInput struct {
	BodyPart     *string  `json:"body_part" validate:"omitempty,max=50"`
	ExerciseName *string  `json:"exercise_name" validate:"omitempty,max=100"`
	Sets         *int     `json:"sets" validate:"omitempty,min=1"`
	Reps         *int     `json:"reps" validate:"omitempty,min=1"`
	Weight       *float64 `json:"weight" validate:"omitempty,min=0"`
	Memo         *string  `json:"memo"`
	ImageURL     *string  `json:"image_url" validate:"omitempty,max=500"`
	WorkoutDate  *string  `json:"workout_date"`
}

type Service struct {
	store  Store
	access *access.Engine
	feed   *feed.Assembler
	loc    *time.Location
}

// NewService builds the workout service. loc is the calendar zone used to
// interpret date-only workout dates and to bound calendar months.
func NewService(store Store, engine *access.Engine, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		store:  store,
		access: engine,
		feed:   feed.NewAssembler(store),
		loc:    loc,
	}
}

func (s *Service) Create(ctx context.Context, viewerID string, in CreateWorkoutInput) (*models.WorkoutView, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	date, err := parseWorkoutDate(in.WorkoutDate, s.loc)
	if err != nil {
		return nil, err
	}

	w := &models.Workout{
		UserID:       viewerID,
		BodyPart:     in.BodyPart,
		ExerciseName: in.ExerciseName,
		Sets:         in.Sets,
		Reps:         in.Reps,
		Weight:       in.Weight,
		Memo:         in.Memo,
		ImageURL:     in.ImageURL,
		WorkoutDate:  date,
	}
	if err := s.store.CreateWorkout(ctx, w); err != nil {
		return nil, fmt.Errorf("creating workout: %w", err)
	}
	return s.feed.Workout(ctx, *w)
}

// Feed lists the workouts of the viewer and every friend, newest workout
// date first.
func (s *Service) Feed(ctx context.Context, viewerID string) ([]models.WorkoutView, error) {
	scope, err := s.access.FeedScope(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return s.listByOwners(ctx, scope)
}

func (s *Service) ListOwn(ctx context.Context, viewerID string) ([]models.WorkoutView, error) {
	return s.listByOwners(ctx, []string{viewerID})
}

func (s *Service) listByOwners(ctx context.Context, ownerIDs []string) ([]models.WorkoutView, error) {
	ws, err := s.store.ListWorkoutsByOwners(ctx, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("listing workouts: %w", err)
	}
	feed.SortByWorkoutDate(ws)
	return s.feed.Workouts(ctx, ws)
}

// Get returns NotFound for a missing id before any permission check, and
// Forbidden for a workout the viewer may not see.
func (s *Service) Get(ctx context.Context, viewerID, id string) (*models.WorkoutView, error) {
	w, err := s.store.FindWorkout(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.AuthorizeView(ctx, viewerID, w); err != nil {
		return nil, err
	}
	return s.feed.Workout(ctx, *w)
}

func (s *Service) Update(ctx context.Context, viewerID, id string, in UpdateWorkoutInput) (*models.WorkoutView, error) {
	if err := utils.Validate(in); err != nil {
		return nil, err
	}
	patch, err := in.patch(s.loc)
	if err != nil {
		return nil, err
	}

	w, err := s.store.FindWorkout(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.AuthorizeModify(viewerID, w); err != nil {
		return nil, err
	}

	if !patch.Empty() {
		if w, err = s.store.UpdateWorkout(ctx, id, patch); err != nil {
			return nil, fmt.Errorf("updating workout: %w", err)
		}
	}
	return s.feed.Workout(ctx, *w)
}

func (s *Service) Delete(ctx context.Context, viewerID, id string) error {
	w, err := s.store.FindWorkout(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.AuthorizeModify(viewerID, w); err != nil {
		return err
	}
	if err := s.store.DeleteWorkout(ctx, id); err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	return nil
}

func (in UpdateWorkoutInput) patch(loc *time.Location) (models.WorkoutPatch, error) {
	p := models.WorkoutPatch{
		BodyPart:     in.BodyPart,
		ExerciseName: in.ExerciseName,
		Sets:         in.Sets,
		Reps:         in.Reps,
		Weight:       in.Weight,
		Memo:         in.Memo,
		ImageURL:     in.ImageURL,
	}
	if in.WorkoutDate != nil {
		date, err := parseWorkoutDate(*in.WorkoutDate, loc)
		if err != nil {
			return p, err
		}
		p.WorkoutDate = &date
	}
	return p, nil
}

// parseWorkoutDate accepts a calendar date (interpreted as midnight in loc)
// or a full RFC 3339 timestamp.
func parseWorkoutDate(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(time.DateOnly, value, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, utils.NewValidationError("workout_date", "must be YYYY-MM-DD or an RFC 3339 timestamp")
}
