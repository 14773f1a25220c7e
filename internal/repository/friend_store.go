package repository

import (
	"context"
	"enddit/backend/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FriendStore struct {
	db *gorm.DB
}

func NewFriendStore(db *gorm.DB) *FriendStore {
	return &FriendStore{db: db}
}

// SendRequest records a pending request from -> to. The unique pair index
// on friend_request rejects a second request in either direction, so the
// duplicate check and the insert are the same statement.
func (s *FriendStore) SendRequest(ctx context.Context, from, to uuid.UUID) (*models.FriendRequest, error) {
	db := s.db.WithContext(ctx)

	var target models.User
	if err := db.Select("id").First(&target, "id = ?", to).Error; err != nil {
		return nil, notFoundOr(err, "find request target")
	}

	lo, hi := models.CanonicalPair(from, to)
	var friends int64
	if err := db.Model(&models.Friendship{}).Where("user_id_1 = ? AND user_id_2 = ?", lo, hi).Count(&friends).Error; err != nil {
		return nil, errors.Wrap(err, "check friendship")
	}
	if friends > 0 {
		return nil, ErrAlreadyFriends
	}

	request := models.FriendRequest{FromUserID: from, ToUserID: to}
	if err := db.Create(&request).Error; err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, errors.Wrap(ErrConflict, "create friend request")
		case isForeignKeyViolation(err):
			return nil, errors.Wrap(ErrNotFound, "create friend request")
		}
		return nil, errors.Wrap(err, "create friend request")
	}
	return &request, nil
}

// IncomingRequests lists requests addressed to userID, newest first, with
// the sender and their profile loaded.
func (s *FriendStore) IncomingRequests(ctx context.Context, userID uuid.UUID) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := s.db.WithContext(ctx).
		Preload("FromUser.Profile").
		Where("to_user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&requests).Error
	if err != nil {
		return nil, errors.Wrap(err, "list incoming requests")
	}
	return requests, nil
}

// RespondToRequest resolves a pending request on behalf of its recipient.
// Accepting creates the canonical friendship. The request row is deleted
// either way, so a second response finds nothing.
func (s *FriendStore) RespondToRequest(ctx context.Context, requestID uint, recipient uuid.UUID, accept bool) (*models.Friendship, error) {
	var friendship *models.Friendship

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var request models.FriendRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&request, requestID).Error; err != nil {
			return notFoundOr(err, "lock friend request")
		}
		if request.ToUserID != recipient {
			return ErrForbidden
		}

		if accept {
			f := models.NewFriendship(request.FromUserID, request.ToUserID)
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&f).Error; err != nil {
				return errors.Wrap(err, "create friendship")
			}
			if f.ID == 0 {
				// already friends; return the existing row
				if err := tx.Where("user_id_1 = ? AND user_id_2 = ?", f.UserID1, f.UserID2).First(&f).Error; err != nil {
					return errors.Wrap(err, "load friendship")
				}
			}
			friendship = &f
		}

		if err := tx.Delete(&request).Error; err != nil {
			return errors.Wrap(err, "delete friend request")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return friendship, nil
}

// ListFriends returns every friendship userID is part of, with both sides
// and their profiles loaded.
func (s *FriendStore) ListFriends(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error) {
	var friendships []models.Friendship
	err := s.db.WithContext(ctx).
		Preload("User1.Profile").
		Preload("User2.Profile").
		Where("user_id_1 = ? OR user_id_2 = ?", userID, userID).
		Order("created_at ASC, id ASC").
		Find(&friendships).Error
	if err != nil {
		return nil, errors.Wrap(err, "list friends")
	}
	return friendships, nil
}

// RemoveFriend deletes the friendship between userID and friendID.
func (s *FriendStore) RemoveFriend(ctx context.Context, userID, friendID uuid.UUID) error {
	lo, hi := models.CanonicalPair(userID, friendID)
	result := s.db.WithContext(ctx).
		Where("user_id_1 = ? AND user_id_2 = ?", lo, hi).
		Delete(&models.Friendship{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "delete friendship")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
