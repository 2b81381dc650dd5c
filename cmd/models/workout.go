package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Workout struct {
	ID           string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID       string    `gorm:"column:user_id;type:uuid;not null;index:idx_workouts_owner_date,priority:1" json:"user_id"`
	BodyPart     string    `gorm:"column:body_part;size:50;not null" json:"body_part"`
	ExerciseName string    `gorm:"column:exercise_name;size:100;not null;index" json:"exercise_name"`
	Sets         int       `gorm:"column:sets;not null" json:"sets"`
	Reps         int       `gorm:"column:reps;not null" json:"reps"`
	Weight       *float64  `gorm:"column:weight" json:"weight"`
	Memo         *string   `gorm:"column:memo;type:text" json:"memo"`
	ImageURL     *string   `gorm:"column:image_url;size:500" json:"image_url"`
	WorkoutDate  time.Time `gorm:"column:workout_date;not null;index:idx_workouts_owner_date,priority:2" json:"workout_date"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Workout) TableName() string {
	return "workouts"
}

func (w *Workout) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

// WorkoutPatch is a partial update. A nil field was not supplied by the
// caller and is left untouched; a non-nil field overwrites, even when it
// points at a zero value.
type WorkoutPatch struct {
	BodyPart     *string
	ExerciseName *string
	Sets         *int
	Reps         *int
	Weight       *float64
	Memo         *string
	ImageURL     *string
	WorkoutDate  *time.Time
}

func (p WorkoutPatch) Empty() bool {
	return len(p.Columns()) == 0
}

// Columns returns the supplied fields keyed by column name. gorm's Updates
// with a struct skips zero values, so updates must go through this map.
func (p WorkoutPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.BodyPart != nil {
		cols["body_part"] = *p.BodyPart
	}
	if p.ExerciseName != nil {
		cols["exercise_name"] = *p.ExerciseName
	}
	if p.Sets != nil {
		cols["sets"] = *p.Sets
	}
	if p.Reps != nil {
		cols["reps"] = *p.Reps
	}
	if p.Weight != nil {
		cols["weight"] = *p.Weight
	}
	if p.Memo != nil {
		cols["memo"] = *p.Memo
	}
	if p.ImageURL != nil {
		cols["image_url"] = *p.ImageURL
	}
	if p.WorkoutDate != nil {
		cols["workout_date"] = *p.WorkoutDate
	}
	return cols
}

// Apply copies the supplied fields onto w.
func (p WorkoutPatch) Apply(w *Workout) {
	if p.BodyPart != nil {
		w.BodyPart = *p.BodyPart
	}
	if p.ExerciseName != nil {
		w.ExerciseName = *p.ExerciseName
	}
	if p.Sets != nil {
		w.Sets = *p.Sets
	}
	if p.Reps != nil {
		w.Reps = *p.Reps
	}
	if p.Weight != nil {
		weight := *p.Weight
		w.Weight = &weight
	}
	if p.Memo != nil {
		memo := *p.Memo
		w.Memo = &memo
	}
	if p.ImageURL != nil {
		url := *p.ImageURL
		w.ImageURL = &url
	}
	if p.WorkoutDate != nil {
		w.WorkoutDate = *p.WorkoutDate
	}
}
