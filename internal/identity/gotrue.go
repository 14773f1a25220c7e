package identity

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// GoTrueClient calls the Supabase auth (GoTrue) REST API.
type GoTrueClient struct {
	http *resty.Client
}

type goTrueError struct {
	Code             any    `json:"code"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
}

func (e *goTrueError) String() string {
	for _, s := range []string{e.Msg, e.ErrorDescription, e.Error} {
		if s != "" {
			return s
		}
	}
	return "unknown error"
}

func NewGoTrueClient(supabaseURL, apiKey string, timeout time.Duration) *GoTrueClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(supabaseURL, "/")+"/auth/v1").
		SetHeader("apikey", apiKey).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &GoTrueClient{http: client}
}

// SignInWithPassword runs the password grant.
func (c *GoTrueClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	var apiErr goTrueError

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&session).
		SetError(&apiErr).
		Post("/token")
	if err != nil {
		return nil, errors.Wrap(err, "gotrue password grant")
	}

	if resp.IsError() {
		switch resp.StatusCode() {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusUnprocessableEntity:
			return nil, errors.Wrap(ErrInvalidCredentials, apiErr.String())
		default:
			return nil, errors.Errorf("gotrue password grant: status %d: %s", resp.StatusCode(), apiErr.String())
		}
	}
	if session.AccessToken == "" {
		return nil, ErrInvalidCredentials
	}

	return &session, nil
}

// VerifyToken asks the identity service who token belongs to.
func (c *GoTrueClient) VerifyToken(ctx context.Context, token string) (*User, error) {
	var user User
	var apiErr goTrueError

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&user).
		SetError(&apiErr).
		Get("/user")
	if err != nil {
		return nil, errors.Wrap(err, "gotrue get user")
	}

	if resp.IsError() {
		switch resp.StatusCode() {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusBadRequest:
			return nil, errors.Wrap(ErrInvalidToken, apiErr.String())
		default:
			return nil, errors.Errorf("gotrue get user: status %d: %s", resp.StatusCode(), apiErr.String())
		}
	}

	if user.ID == uuid.Nil {
		return nil, ErrInvalidToken
	}

	return &user, nil
}
