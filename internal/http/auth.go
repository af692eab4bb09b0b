package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"perfume-catalog/internal/domain"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username and password are required")
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect username or password"})
			return
		}
		h.writeError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.Username)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        userToResponse(*user),
	})
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.users.GetByUsername(c.Request.Context(), c.GetString(principalKey))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(c, domain.ErrInvalidCredentials)
		return
	case err != nil:
		h.writeError(c, err)
		return
	case !user.IsActive:
		h.writeError(c, domain.ErrInvalidCredentials)
		return
	}

	c.JSON(http.StatusOK, userToResponse(*user))
}

// logout is an acknowledgment only; tokens stay valid until they expire.
func (h *Handler) logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
