package models

import (
	"time"

	"github.com/google/uuid"
)

// User mirrors an identity-service user into the application schema.
// The ID is the same UUID the identity service issues.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"size:255;unique;not null" json:"username"`
	CreatedAt time.Time `json:"created_at"`

	Profile *Profile `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

// Profile holds the public, editable part of a user.
type Profile struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	AvatarURL   *string   `json:"avatar_url"`
	Description string    `gorm:"not null;default:''" json:"description"`
}

func (Profile) TableName() string {
	return "profile"
}

// AvatarURL returns the user's avatar, or nil when no profile is loaded.
func (u User) AvatarURL() *string {
	if u.Profile == nil {
		return nil
	}
	return u.Profile.AvatarURL
}
