// Package auth authenticates API requests against the identity service and
// resolves the matching Enddit user.
package auth

import (
	"context"
	"enddit/backend/internal/identity"
	"enddit/backend/internal/models"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	MsgMissingToken = "Missing token"
	MsgInvalidToken = "Invalid token"
	MsgUnknownUser  = "No matching Enddit user"
)

// Caller is the authenticated principal of a request: the identity service
// account and the application user it maps to.
type Caller struct {
	Identity *identity.User
	User     *models.User
}

// ID is the caller's user id.
func (c *Caller) ID() uuid.UUID {
	return c.User.ID
}

type callerKey struct{}

func WithCaller(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFrom returns the caller stored by RequireUser, if any.
func CallerFrom(ctx context.Context) (*Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(*Caller)
	return caller, ok && caller != nil
}

// UserLookup finds the application user for a verified identity.
type UserLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// RequireUser creates a gin middleware that rejects requests without a
// valid bearer token for a known user. On success the Caller is attached to
// the request context.
func RequireUser(verifier identity.Verifier, users UserLookup, logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abort(c, MsgMissingToken)
			return
		}

		ctx := c.Request.Context()
		ident, err := verifier.VerifyToken(ctx, token)
		if err != nil {
			if !errors.Is(err, identity.ErrInvalidToken) {
				logger.Warnw("Token verification failed", "error", err, "path", c.Request.URL.Path)
			}
			abort(c, MsgInvalidToken)
			return
		}

		user, err := users.FindByID(ctx, ident.ID)
		if err != nil {
			logger.Infow("No user for verified identity", "identity_id", ident.ID, "error", err)
			abort(c, MsgUnknownUser)
			return
		}

		c.Request = c.Request.WithContext(WithCaller(ctx, &Caller{Identity: ident, User: user}))
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func abort(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": message})
}
