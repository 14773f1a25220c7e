package handler

import (
	"encoding/json"
	"enddit/backend/internal/models"
	"enddit/backend/internal/repository"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetMe(t *testing.T) {
	env := newTestEnv(t)

	assertMessage(t, env.do(http.MethodGet, "/api/profile/me", nil), http.StatusNotFound, "Profile not found")

	env.caller.User.Profile = &models.Profile{UserID: env.caller.ID(), AvatarURL: strPtr("https://cdn/a.png"), Description: "hi"}
	w := env.do(http.MethodGet, "/api/profile/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":"11111111-1111-1111-1111-111111111111","username":"alice","avatarUrl":"https://cdn/a.png","description":"hi"}`, w.Body.String())
}

func TestGetByUsername(t *testing.T) {
	env := newTestEnv(t)
	bob := &models.User{ID: uuid.New(), Username: "bob"}
	env.users.On("FindByUsername", mock.Anything, "bob").Return(bob, nil)
	env.users.On("FindByUsername", mock.Anything, "ghost").Return(nil, errors.Wrap(repository.ErrNotFound, "find user by username"))

	w := env.do(http.MethodGet, "/api/profile/by-username/bob", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile ProfileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, bob.ID, profile.UserID)
	assert.Nil(t, profile.AvatarURL)
	assert.Empty(t, profile.Description)

	assertMessage(t, env.do(http.MethodGet, "/api/profile/by-username/ghost", nil), http.StatusNotFound, "User not found")
}

func TestSendFriendRequest(t *testing.T) {
	env := newTestEnv(t)
	target := uuid.New()
	env.friends.On("SendRequest", mock.Anything, env.caller.ID(), target).
		Return(&models.FriendRequest{ID: 4, FromUserID: env.caller.ID(), ToUserID: target}, nil)

	w := env.do(http.MethodPost, "/api/profile/addfriend/"+target.String(), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var request models.FriendRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &request))
	assert.EqualValues(t, 4, request.ID)
	assert.Equal(t, target, request.ToUserID)
}

func TestSendFriendRequestErrors(t *testing.T) {
	env := newTestEnv(t)
	unknown, friend, pending := uuid.New(), uuid.New(), uuid.New()
	env.friends.On("SendRequest", mock.Anything, env.caller.ID(), unknown).Return(nil, errors.Wrap(repository.ErrNotFound, "find request target"))
	env.friends.On("SendRequest", mock.Anything, env.caller.ID(), friend).Return(nil, repository.ErrAlreadyFriends)
	env.friends.On("SendRequest", mock.Anything, env.caller.ID(), pending).Return(nil, errors.Wrap(repository.ErrConflict, "create friend request"))

	tests := []struct {
		name    string
		target  string
		status  int
		message string
	}{
		{"not a uuid", "42", http.StatusBadRequest, "Invalid user id"},
		{"self", env.caller.ID().String(), http.StatusBadRequest, "Cannot send friend request to yourself"},
		{"unknown target", unknown.String(), http.StatusNotFound, "User not found"},
		{"already friends", friend.String(), http.StatusBadRequest, "Already friends"},
		{"pending either way", pending.String(), http.StatusBadRequest, "Friend request already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertMessage(t, env.do(http.MethodPost, "/api/profile/addfriend/"+tt.target, nil), tt.status, tt.message)
		})
	}
}

func TestListFriendRequests(t *testing.T) {
	env := newTestEnv(t)
	bob := models.User{ID: uuid.New(), Username: "bob", Profile: &models.Profile{AvatarURL: strPtr("https://cdn/b.png")}}
	carol := models.User{ID: uuid.New(), Username: "carol"}
	now := time.Now().UTC()
	env.friends.On("IncomingRequests", mock.Anything, env.caller.ID()).Return([]models.FriendRequest{
		{ID: 2, FromUserID: bob.ID, ToUserID: env.caller.ID(), CreatedAt: now, FromUser: bob},
		{ID: 1, FromUserID: carol.ID, ToUserID: env.caller.ID(), CreatedAt: now.Add(-time.Hour), FromUser: carol},
	}, nil)

	w := env.do(http.MethodGet, "/api/profile/friendrequests", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var requests []FriendRequestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &requests))
	require.Len(t, requests, 2)
	assert.Equal(t, "bob", requests[0].Username)
	assert.Equal(t, "https://cdn/b.png", *requests[0].AvatarURL)
	assert.Equal(t, carol.ID, requests[1].FromUserID)
	assert.Nil(t, requests[1].AvatarURL)
}

func TestRespondToFriendRequest(t *testing.T) {
	env := newTestEnv(t)
	other := uuid.New()
	friendship := models.NewFriendship(env.caller.ID(), other)
	friendship.ID = 12
	env.friends.On("RespondToRequest", mock.Anything, uint(3), env.caller.ID(), true).Return(&friendship, nil).Once()
	env.friends.On("RespondToRequest", mock.Anything, uint(4), env.caller.ID(), false).Return(nil, nil).Once()

	w := env.do(http.MethodPost, "/api/profile/friendrequests/3/respond", map[string]bool{"accept": true})
	require.Equal(t, http.StatusOK, w.Code)
	var accepted RespondResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accepted))
	assert.True(t, accepted.Accepted)
	require.NotNil(t, accepted.Friendship)
	assert.EqualValues(t, 12, accepted.Friendship.ID)

	w = env.do(http.MethodPost, "/api/profile/friendrequests/4/respond", map[string]bool{"accept": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"accepted":false}`, w.Body.String())
}

func TestRespondToFriendRequestErrors(t *testing.T) {
	env := newTestEnv(t)
	env.friends.On("RespondToRequest", mock.Anything, uint(8), env.caller.ID(), true).Return(nil, errors.Wrap(repository.ErrNotFound, "lock friend request"))
	env.friends.On("RespondToRequest", mock.Anything, uint(9), env.caller.ID(), true).Return(nil, repository.ErrForbidden)

	assertMessage(t, env.do(http.MethodPost, "/api/profile/friendrequests/x/respond", map[string]bool{"accept": true}), http.StatusBadRequest, "Invalid request id")
	assertMessage(t, env.do(http.MethodPost, "/api/profile/friendrequests/8/respond", map[string]string{}), http.StatusBadRequest, "accept must be a boolean")
	assertMessage(t, env.do(http.MethodPost, "/api/profile/friendrequests/8/respond", map[string]string{"accept": "yes"}), http.StatusBadRequest, "accept must be a boolean")
	assertMessage(t, env.do(http.MethodPost, "/api/profile/friendrequests/8/respond", map[string]bool{"accept": true}), http.StatusNotFound, "Friend request not found")
	assertMessage(t, env.do(http.MethodPost, "/api/profile/friendrequests/9/respond", map[string]bool{"accept": true}), http.StatusForbidden, "Not allowed to respond to this request")
}
