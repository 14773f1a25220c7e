package handler

import (
	"context"
	"enddit/backend/internal/identity"
	"enddit/backend/internal/models"
	"enddit/backend/internal/repository"
	"enddit/backend/internal/storage"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockUsers struct{ mock.Mock }

func (m *mockUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type mockPosts struct{ mock.Mock }

func (m *mockPosts) List(ctx context.Context, viewerID uuid.UUID, page repository.Page) ([]repository.PostSummary, int64, error) {
	args := m.Called(ctx, viewerID, page)
	posts, _ := args.Get(0).([]repository.PostSummary)
	return posts, args.Get(1).(int64), args.Error(2)
}

func (m *mockPosts) Create(ctx context.Context, post *models.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *mockPosts) ToggleLike(ctx context.Context, postID uint, userID uuid.UUID) (repository.LikeState, error) {
	args := m.Called(ctx, postID, userID)
	return args.Get(0).(repository.LikeState), args.Error(1)
}

func (m *mockPosts) AddComment(ctx context.Context, comment *models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *mockPosts) ListComments(ctx context.Context, postID uint) ([]repository.CommentView, error) {
	args := m.Called(ctx, postID)
	comments, _ := args.Get(0).([]repository.CommentView)
	return comments, args.Error(1)
}

type mockFriends struct{ mock.Mock }

func (m *mockFriends) SendRequest(ctx context.Context, from, to uuid.UUID) (*models.FriendRequest, error) {
	args := m.Called(ctx, from, to)
	request, _ := args.Get(0).(*models.FriendRequest)
	return request, args.Error(1)
}

func (m *mockFriends) IncomingRequests(ctx context.Context, userID uuid.UUID) ([]models.FriendRequest, error) {
	args := m.Called(ctx, userID)
	requests, _ := args.Get(0).([]models.FriendRequest)
	return requests, args.Error(1)
}

func (m *mockFriends) RespondToRequest(ctx context.Context, requestID uint, recipient uuid.UUID, accept bool) (*models.Friendship, error) {
	args := m.Called(ctx, requestID, recipient, accept)
	friendship, _ := args.Get(0).(*models.Friendship)
	return friendship, args.Error(1)
}

func (m *mockFriends) ListFriends(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error) {
	args := m.Called(ctx, userID)
	friendships, _ := args.Get(0).([]models.Friendship)
	return friendships, args.Error(1)
}

func (m *mockFriends) RemoveFriend(ctx context.Context, userID, friendID uuid.UUID) error {
	return m.Called(ctx, userID, friendID).Error(0)
}

type mockMessages struct{ mock.Mock }

func (m *mockMessages) Conversation(ctx context.Context, a, b uuid.UUID) ([]models.Message, error) {
	args := m.Called(ctx, a, b)
	messages, _ := args.Get(0).([]models.Message)
	return messages, args.Error(1)
}

func (m *mockMessages) Send(ctx context.Context, message *models.Message) error {
	return m.Called(ctx, message).Error(0)
}

type mockAuthenticator struct{ mock.Mock }

func (m *mockAuthenticator) SignInWithPassword(ctx context.Context, email, password string) (*identity.Session, error) {
	args := m.Called(ctx, email, password)
	session, _ := args.Get(0).(*identity.Session)
	return session, args.Error(1)
}

type mockUploader struct {
	mock.Mock
	body []byte
}

func (m *mockUploader) Upload(ctx context.Context, obj storage.Object) (string, error) {
	m.body, _ = io.ReadAll(obj.Body)
	args := m.Called(ctx, obj.Filename, obj.ContentType)
	return args.String(0), args.Error(1)
}
