package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is owned by the identity service; this service only reads it.
type User struct {
	ID              string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Username        string    `gorm:"column:username;size:50;not null;uniqueIndex" json:"username"`
	Email           string    `gorm:"column:email;size:255" json:"email"`
	ProfileImageURL *string   `gorm:"column:profile_image_url;size:500" json:"profile_image_url"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserSummary is the author block embedded in workouts, likes and comments.
type UserSummary struct {
	ID              string  `json:"id"`
	Username        string  `json:"username"`
	ProfileImageURL *string `json:"profile_image_url"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:              u.ID,
		Username:        u.Username,
		ProfileImageURL: u.ProfileImageURL,
	}
}

// Friendship rows are directed in storage but the relation they encode is not:
// (a, b) and (b, a) both mean a and b are friends.
type Friendship struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_friendship_pair,priority:1" json:"user_id"`
	FriendID  string    `gorm:"column:friend_id;type:uuid;not null;uniqueIndex:idx_friendship_pair,priority:2;index" json:"friend_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Friendship) TableName() string {
	return "friendships"
}

func (f *Friendship) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// Other returns the side of the friendship that is not userID.
func (f *Friendship) Other(userID string) string {
	if f.UserID == userID {
		return f.FriendID
	}
	return f.UserID
}
