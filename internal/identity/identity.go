// Package identity talks to the hosted identity service: password sign-in
// and access-token verification. It keeps no session state.
package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// User is the identity service's view of an account.
type User struct {
	ID           uuid.UUID      `json:"id"`
	Aud          string         `json:"aud,omitempty"`
	Role         string         `json:"role,omitempty"`
	Email        string         `json:"email,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	CreatedAt    *time.Time     `json:"created_at,omitempty"`
	LastSignInAt *time.Time     `json:"last_sign_in_at,omitempty"`
}

// Session is the token pair returned by a successful sign-in.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

// Verifier resolves a bearer token to the user it was issued for.
type Verifier interface {
	VerifyToken(ctx context.Context, token string) (*User, error)
}

// Authenticator exchanges credentials for a session.
type Authenticator interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
}
