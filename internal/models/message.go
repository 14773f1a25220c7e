package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a direct message from one user to another.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null" json:"receiver_id"`
	Content    string    `gorm:"not null" json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
