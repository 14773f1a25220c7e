package identity

import (
	"context"
	"enddit/backend/pkg/jwt"

	"github.com/pkg/errors"
)

// JWTVerifier checks access tokens locally with the project's JWT secret
// instead of a round trip to the identity service.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) VerifyToken(_ context.Context, token string) (*User, error) {
	claims, err := jwt.ParseToken(v.secret, token)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}

	id, err := claims.UserID()
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}

	user := &User{
		ID:    id,
		Role:  claims.Role,
		Email: claims.Email,
	}
	if len(claims.Audience) > 0 {
		user.Aud = claims.Audience[0]
	}
	return user, nil
}
