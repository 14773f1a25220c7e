package repository

import (
	"context"
	"enddit/backend/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type MessageStore struct {
	db *gorm.DB
}

func NewMessageStore(db *gorm.DB) *MessageStore {
	return &MessageStore{db: db}
}

// Conversation returns the messages exchanged between a and b in both
// directions, oldest first.
func (s *MessageStore) Conversation(ctx context.Context, a, b uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, errors.Wrap(err, "list conversation")
	}
	return messages, nil
}

func (s *MessageStore) Send(ctx context.Context, message *models.Message) error {
	if err := s.db.WithContext(ctx).Create(message).Error; err != nil {
		if isForeignKeyViolation(err) {
			return errors.Wrap(ErrNotFound, "create message: unknown user")
		}
		return errors.Wrap(err, "create message")
	}
	return nil
}
