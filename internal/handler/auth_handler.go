package handler

import (
	"enddit/backend/internal/apperr"
	"enddit/backend/internal/identity"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// LoginInput defines the structure for user login.
type LoginInput struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"password123"`
}

// LoginResponse carries the identity service session.
type LoginResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         identity.User `json:"user"`
}

// Login godoc
// @Summary      Log in a user
// @Description  Exchanges email and password for an access token at the identity service.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  LoginResponse
// @Failure      400  {object}  ErrorResponse "Email and password required"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) error {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		return apperr.BadRequest("Email and password required")
	}
	input.Email = strings.TrimSpace(input.Email)
	if input.Email == "" || input.Password == "" {
		return apperr.BadRequest("Email and password required")
	}

	session, err := h.Auth.SignInWithPassword(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return apperr.Wrap(http.StatusUnauthorized, "Invalid credentials", err)
		}
		return apperr.Internal("", err)
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		User:         session.User,
	})
	return nil
}
