package handler

import (
	"enddit/backend/internal/apperr"
	"enddit/backend/internal/auth"
	"enddit/backend/internal/repository"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// FriendResponse is one friend of the caller.
type FriendResponse struct {
	FriendshipID uint      `json:"friendshipId" example:"1"`
	UserID       uuid.UUID `json:"userId"`
	Username     string    `json:"username" example:"bob"`
	AvatarURL    *string   `json:"avatarUrl"`
}

// ListFriends godoc
// @Summary      List friends
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   FriendResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /friends [get]
func (h *Handler) ListFriends(c *gin.Context, caller *auth.Caller) error {
	friendships, err := h.Friends.ListFriends(c.Request.Context(), caller.ID())
	if err != nil {
		return apperr.Internal("", err)
	}

	response := make([]FriendResponse, 0, len(friendships))
	for _, f := range friendships {
		// Determine which user in the friendship is NOT the caller
		friend := f.Friend(caller.ID())
		friendID := f.UserID1
		if friendID == caller.ID() {
			friendID = f.UserID2
		}
		response = append(response, FriendResponse{
			FriendshipID: f.ID,
			UserID:       friendID,
			Username:     friend.Username,
			AvatarURL:    friend.AvatarURL(),
		})
	}

	c.JSON(http.StatusOK, response)
	return nil
}

// RemoveFriend godoc
// @Summary      Remove a friend
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        friendId  path  string  true  "Friend user ID (uuid)"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Friendship not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /friends/{friendId} [delete]
func (h *Handler) RemoveFriend(c *gin.Context, caller *auth.Caller) error {
	friendID, err := uuidParam(c, "friendId", msgInvalidUserID)
	if err != nil {
		return err
	}

	if err := h.Friends.RemoveFriend(c.Request.Context(), caller.ID(), friendID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("Friendship not found")
		}
		return apperr.Internal("", err)
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Friend removed"})
	return nil
}
