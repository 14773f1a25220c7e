package handler

import (
	"context"
	"enddit/backend/internal/apperr"
	"enddit/backend/internal/auth"
	"enddit/backend/internal/hub"
	"enddit/backend/internal/identity"
	"enddit/backend/internal/metrics"
	"enddit/backend/internal/models"
	"enddit/backend/internal/repository"
	"enddit/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// region --- Dependencies ---

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type PostRepository interface {
	List(ctx context.Context, viewerID uuid.UUID, page repository.Page) ([]repository.PostSummary, int64, error)
	Create(ctx context.Context, post *models.Post) error
	ToggleLike(ctx context.Context, postID uint, userID uuid.UUID) (repository.LikeState, error)
	AddComment(ctx context.Context, comment *models.Comment) error
	ListComments(ctx context.Context, postID uint) ([]repository.CommentView, error)
}

type FriendRepository interface {
	SendRequest(ctx context.Context, from, to uuid.UUID) (*models.FriendRequest, error)
	IncomingRequests(ctx context.Context, userID uuid.UUID) ([]models.FriendRequest, error)
	RespondToRequest(ctx context.Context, requestID uint, recipient uuid.UUID, accept bool) (*models.Friendship, error)
	ListFriends(ctx context.Context, userID uuid.UUID) ([]models.Friendship, error)
	RemoveFriend(ctx context.Context, userID, friendID uuid.UUID) error
}

type MessageRepository interface {
	Conversation(ctx context.Context, a, b uuid.UUID) ([]models.Message, error)
	Send(ctx context.Context, message *models.Message) error
}

// Deps is everything the handlers need. Metrics and Ready may be nil.
type Deps struct {
	Users    UserRepository
	Posts    PostRepository
	Friends  FriendRepository
	Messages MessageRepository

	Auth    identity.Authenticator
	Storage storage.Uploader
	Hub     *hub.Hub
	Metrics *metrics.Metrics
	Ready   func(ctx context.Context) error
	Logger  *zap.SugaredLogger

	MaxUploadBytes int64
}

// endregion

type Handler struct {
	Deps
}

func New(deps Deps) *Handler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}
	if deps.Hub == nil {
		deps.Hub = hub.NewHub()
	}
	return &Handler{Deps: deps}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message" example:"Post not found"`
}

// MessageResponse is a body that only carries a message.
type MessageResponse struct {
	Message string `json:"message" example:"Enddit backend is running 🚀"`
}

// respondError writes err as an ErrorResponse. Anything that is not an
// *apperr.Error is answered with a generic 500 and logged.
func (h *Handler) respondError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	_ = c.Error(err)

	if appErr.Status >= 500 {
		fields := []any{"path", c.Request.URL.Path, "error", err}
		if caller, ok := auth.CallerFrom(c.Request.Context()); ok {
			fields = append(fields, "user_id", caller.ID())
		}
		h.Logger.Errorw("Request failed", fields...)
	}

	c.AbortWithStatusJSON(appErr.Status, ErrorResponse{Message: appErr.Message})
}

// authed adapts a handler that needs the authenticated caller. It must run
// behind auth.RequireUser.
func (h *Handler) authed(fn func(c *gin.Context, caller *auth.Caller) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := auth.CallerFrom(c.Request.Context())
		if !ok {
			h.respondError(c, apperr.Unauthorized(auth.MsgMissingToken))
			return
		}
		if err := fn(c, caller); err != nil {
			h.respondError(c, err)
		}
	}
}

func (h *Handler) public(fn func(c *gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := fn(c); err != nil {
			h.respondError(c, err)
		}
	}
}
