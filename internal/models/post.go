package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a user-authored entry. Slug is unique across all posts.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"not null" json:"content"`
	Slug      string    `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Comment belongs to a post. ParentID is stored for replies, but only
// top-level comments are ever listed.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Content   string    `gorm:"not null" json:"content"`
	ParentID  *uint     `json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Like records that a user liked a post. (PostID, UserID) is unique.
type Like struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	PostID uint      `gorm:"not null;uniqueIndex:likes_post_id_user_id_key" json:"post_id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:likes_post_id_user_id_key" json:"user_id"`
}
