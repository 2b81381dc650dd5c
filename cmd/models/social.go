package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like is unique per (workout, user); the index is the authoritative guard.
type Like struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	WorkoutID string    `gorm:"column:workout_id;type:uuid;not null;uniqueIndex:idx_like_workout_user,priority:1" json:"workout_id"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_like_workout_user,priority:2" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`

	Workout *Workout `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Like) TableName() string {
	return "likes"
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

type Comment struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	WorkoutID string    `gorm:"column:workout_id;type:uuid;not null;index" json:"workout_id"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	Workout *Workout `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
