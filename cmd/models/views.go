package models

import "time"

// WorkoutView is a workout hydrated with its owner, likes and comments.
type WorkoutView struct {
	Workout
	User         UserSummary   `json:"user"`
	Likes        []LikeView    `json:"likes"`
	Comments     []CommentView `json:"comments"`
	LikeCount    int           `json:"like_count"`
	CommentCount int           `json:"comment_count"`
}

type LikeView struct {
	Like
	User UserSummary `json:"user"`
}

type CommentView struct {
	Comment
	User UserSummary `json:"user"`
}

type LikeSummary struct {
	Count         int64 `json:"count"`
	LikedByViewer bool  `json:"liked_by_viewer"`
}

type CalendarMonth struct {
	Year  int           `json:"year"`
	Month int           `json:"month"`
	Days  []CalendarDay `json:"days"`
}

type CalendarDay struct {
	Date     string          `json:"date"`
	Count    int             `json:"count"`
	Workouts []CalendarEntry `json:"workouts"`
}

type CalendarEntry struct {
	ID           string    `json:"id"`
	WorkoutDate  time.Time `json:"workout_date"`
	BodyPart     string    `json:"body_part"`
	ExerciseName string    `json:"exercise_name"`
}

type ExerciseSummary struct {
	ExerciseName string `json:"exercise_name"`
	BodyPart     string `json:"body_part"`
	Count        int    `json:"count"`
}
