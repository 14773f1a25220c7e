package handler

import (
	"enddit/backend/internal/apperr"
	"enddit/backend/internal/auth"
	"enddit/backend/internal/models"
	"enddit/backend/internal/repository"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	msgUserNotFound    = "User not found"
	msgInvalidUserID   = "Invalid user id"
	msgRequestNotFound = "Friend request not found"
)

// region --- DTOs ---

// ProfileResponse defines the structure for a user's public profile.
type ProfileResponse struct {
	UserID      uuid.UUID `json:"userId"`
	Username    string    `json:"username" example:"alice"`
	AvatarURL   *string   `json:"avatarUrl"`
	Description string    `json:"description"`
}

// FriendRequestResponse is an incoming friend request with its sender.
type FriendRequestResponse struct {
	ID         uint      `json:"id" example:"1"`
	FromUserID uuid.UUID `json:"fromUserId"`
	Username   string    `json:"username" example:"bob"`
	AvatarURL  *string   `json:"avatarUrl"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RespondInput answers a friend request.
type RespondInput struct {
	Accept *bool `json:"accept" example:"true"`
}

// RespondResponse reports how a friend request was resolved.
type RespondResponse struct {
	Accepted   bool               `json:"accepted"`
	Friendship *models.Friendship `json:"friendship,omitempty"`
}

// endregion

func buildProfileResponse(user *models.User) ProfileResponse {
	response := ProfileResponse{
		UserID:   user.ID,
		Username: user.Username,
	}
	if user.Profile != nil {
		response.AvatarURL = user.Profile.AvatarURL
		response.Description = user.Profile.Description
	}
	return response
}

// GetMe godoc
// @Summary      Get current user's profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ProfileResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Profile not found"
// @Router       /profile/me [get]
func (h *Handler) GetMe(c *gin.Context, caller *auth.Caller) error {
	if caller.User.Profile == nil {
		return apperr.NotFound("Profile not found")
	}
	c.JSON(http.StatusOK, buildProfileResponse(caller.User))
	return nil
}

// GetByUsername godoc
// @Summary      Get a profile by username
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Param        username  path  string  true  "Username"
// @Success      200  {object}  ProfileResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "User not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /profile/by-username/{username} [get]
func (h *Handler) GetByUsername(c *gin.Context, _ *auth.Caller) error {
	user, err := h.Users.FindByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(msgUserNotFound)
		}
		return apperr.Internal("", err)
	}

	c.JSON(http.StatusOK, buildProfileResponse(user))
	return nil
}

// SendFriendRequest godoc
// @Summary      Send friend request
// @Description  Sends a friend request to another user. Only one pending request may exist between two users, whichever of them sent it.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path  string  true  "Target user ID (uuid)"
// @Success      201  {object}  models.FriendRequest
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "User not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /profile/addfriend/{userId} [post]
func (h *Handler) SendFriendRequest(c *gin.Context, caller *auth.Caller) error {
	targetID, err := uuidParam(c, "userId", msgInvalidUserID)
	if err != nil {
		return err
	}
	if targetID == caller.ID() {
		return apperr.BadRequest("Cannot send friend request to yourself")
	}

	request, err := h.Friends.SendRequest(c.Request.Context(), caller.ID(), targetID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return apperr.NotFound(msgUserNotFound)
		case errors.Is(err, repository.ErrAlreadyFriends):
			return apperr.BadRequest("Already friends")
		case errors.Is(err, repository.ErrConflict):
			return apperr.BadRequest("Friend request already exists")
		}
		return apperr.Internal("", err)
	}

	c.JSON(http.StatusCreated, request)
	return nil
}

// ListFriendRequests godoc
// @Summary      List incoming friend requests
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   FriendRequestResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /profile/friendrequests [get]
func (h *Handler) ListFriendRequests(c *gin.Context, caller *auth.Caller) error {
	requests, err := h.Friends.IncomingRequests(c.Request.Context(), caller.ID())
	if err != nil {
		return apperr.Internal("", err)
	}

	response := make([]FriendRequestResponse, 0, len(requests))
	for _, r := range requests {
		response = append(response, FriendRequestResponse{
			ID:         r.ID,
			FromUserID: r.FromUserID,
			Username:   r.FromUser.Username,
			AvatarURL:  r.FromUser.AvatarURL(),
			CreatedAt:  r.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, response)
	return nil
}

// RespondToFriendRequest godoc
// @Summary      Accept or decline a friend request
// @Description  Only the recipient may respond. The request is removed either way.
// @Tags         friendship
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        requestId  path  int           true  "Friend request ID"
// @Param        input      body  RespondInput  true  "Decision"
// @Success      200  {object}  RespondResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Not allowed to respond to this request"
// @Failure      404  {object}  ErrorResponse "Friend request not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /profile/friendrequests/{requestId}/respond [post]
func (h *Handler) RespondToFriendRequest(c *gin.Context, caller *auth.Caller) error {
	requestID, err := idParam(c, "requestId", "Invalid request id")
	if err != nil {
		return err
	}

	var input RespondInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Accept == nil {
		return apperr.BadRequest("accept must be a boolean")
	}

	friendship, err := h.Friends.RespondToRequest(c.Request.Context(), requestID, caller.ID(), *input.Accept)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return apperr.NotFound(msgRequestNotFound)
		case errors.Is(err, repository.ErrForbidden):
			return apperr.Forbidden("Not allowed to respond to this request")
		}
		return apperr.Internal("", err)
	}

	c.JSON(http.StatusOK, RespondResponse{Accepted: *input.Accept, Friendship: friendship})
	return nil
}
