package models

import (
	"bytes"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Friendship is an undirected link between two users. The pair is always
// stored with the smaller id in UserID1, so each pair has exactly one row.
type Friendship struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID1   uuid.UUID `gorm:"column:user_id_1;type:uuid;not null" json:"user_id_1"`
	UserID2   uuid.UUID `gorm:"column:user_id_2;type:uuid;not null" json:"user_id_2"`
	CreatedAt time.Time `json:"created_at"`

	User1 User `gorm:"foreignKey:UserID1" json:"-"`
	User2 User `gorm:"foreignKey:UserID2" json:"-"`
}

func (Friendship) TableName() string {
	return "friends"
}

// NewFriendship builds a friendship row for a and b in canonical order.
func NewFriendship(a, b uuid.UUID) Friendship {
	lo, hi := CanonicalPair(a, b)
	return Friendship{UserID1: lo, UserID2: hi}
}

// BeforeCreate keeps the canonical order even for rows built by hand.
func (f *Friendship) BeforeCreate(_ *gorm.DB) error {
	f.UserID1, f.UserID2 = CanonicalPair(f.UserID1, f.UserID2)
	return nil
}

// Friend returns the side of the friendship that is not userID.
func (f Friendship) Friend(userID uuid.UUID) User {
	if f.UserID1 == userID {
		return f.User2
	}
	return f.User1
}

// CanonicalPair orders two ids the way Postgres orders uuid values
// (byte-wise, which matches the lowercase string order).
func CanonicalPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) > 0 {
		return b, a
	}
	return a, b
}

// FriendRequest is a pending request from one user to another. It is
// deleted once the recipient accepts or declines it.
type FriendRequest struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FromUserID uuid.UUID `gorm:"type:uuid;not null" json:"from_user_id"`
	ToUserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"to_user_id"`
	CreatedAt  time.Time `json:"created_at"`

	FromUser User `gorm:"foreignKey:FromUserID" json:"-"`
}

func (FriendRequest) TableName() string {
	return "friend_request"
}
