package workout

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/KAsare1/liftlog-server/cmd/models"
	"github.com/KAsare1/liftlog-server/cmd/utils"
	"github.com/KAsare1/liftlog-server/service/feed"
)

// Calendar groups the viewer's own workouts in the given month by calendar
// day. Days without workouts are omitted.
func (s *Service) Calendar(ctx context.Context, viewerID string, year, month int) (*models.CalendarMonth, error) {
	if year < 1 || year > 9999 {
		return nil, utils.NewValidationError("year", "must be between 1 and 9999")
	}
	if month < 1 || month > 12 {
		return nil, utils.NewValidationError("month", "must be between 1 and 12")
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)

	ws, err := s.store.ListWorkoutsInRange(ctx, viewerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing workouts for %04d-%02d: %w", year, month, err)
	}
	sort.SliceStable(ws, func(i, j int) bool {
		return ws[i].WorkoutDate.Before(ws[j].WorkoutDate)
	})

	cal := &models.CalendarMonth{Year: year, Month: month, Days: []models.CalendarDay{}}
	for _, w := range ws {
		date := w.WorkoutDate.In(s.loc).Format(time.DateOnly)
		if n := len(cal.Days); n == 0 || cal.Days[n-1].Date != date {
			cal.Days = append(cal.Days, models.CalendarDay{Date: date})
		}
		d := &cal.Days[len(cal.Days)-1]
		d.Count++
		d.Workouts = append(d.Workouts, models.CalendarEntry{
			ID:           w.ID,
			WorkoutDate:  w.WorkoutDate,
			BodyPart:     w.BodyPart,
			ExerciseName: w.ExerciseName,
		})
	}
	return cal, nil
}

// ExerciseHistory lists each exercise the viewer has logged with its body
// part and how many times it was logged, sorted by exercise name.
func (s *Service) ExerciseHistory(ctx context.Context, viewerID string) ([]models.ExerciseSummary, error) {
	ws, err := s.store.ListWorkoutsByOwners(ctx, []string{viewerID})
	if err != nil {
		return nil, fmt.Errorf("listing workouts: %w", err)
	}

	// Body part comes from the earliest logged workout of each exercise.
	sort.SliceStable(ws, func(i, j int) bool {
		return ws[i].WorkoutDate.Before(ws[j].WorkoutDate)
	})

	byName := make(map[string]*models.ExerciseSummary)
	for _, w := range ws {
		sum, ok := byName[w.ExerciseName]
		if !ok {
			sum = &models.ExerciseSummary{ExerciseName: w.ExerciseName, BodyPart: w.BodyPart}
			byName[w.ExerciseName] = sum
		}
		sum.Count++
	}

	out := make([]models.ExerciseSummary, 0, len(byName))
	for _, sum := range byName {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ExerciseName < out[j].ExerciseName
	})
	return out, nil
}

// ByExercise lists the viewer's own workouts for one exercise, newest first.
func (s *Service) ByExercise(ctx context.Context, viewerID, exerciseName string) ([]models.WorkoutView, error) {
	if exerciseName == "" {
		return nil, utils.NewValidationError("name", "is required")
	}
	ws, err := s.store.ListWorkoutsByExercise(ctx, viewerID, exerciseName)
	if err != nil {
		return nil, fmt.Errorf("listing %q workouts: %w", exerciseName, err)
	}
	feed.SortByWorkoutDate(ws)
	return s.feed.Workouts(ctx, ws)
}
