package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/suntzu974/papang/internal/app_errors"
	"github.com/suntzu974/papang/pkg/logger"

	"github.com/gin-gonic/gin"
)

const UserIDCtx = "user_id"

type AccessTokenValidator interface {
	ValidateAccessToken(ctx context.Context, token string) (int64, error)
}

type AuthMiddlewareProvider struct {
	log     logger.Log
	service AccessTokenValidator
}

func NewAuthMiddlewareProvider(log logger.Log, s AccessTokenValidator) *AuthMiddlewareProvider {
	return &AuthMiddlewareProvider{
		log:     log,
		service: s,
	}
}

// AuthMiddleware extracts the bearer access token and puts the subject's
// user id into the gin context.
func (h *AuthMiddlewareProvider) AuthMiddleware(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	var token string
	if parts := strings.Split(authHeader, "Bearer "); len(parts) == 2 {
		token = parts[1]
	}
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
		return
	}

	userID, err := h.service.ValidateAccessToken(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, app_errors.ErrTokenExpired) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": app_errors.ErrTokenExpired.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authentication token"})
		return
	}

	c.Set(UserIDCtx, userID)
	c.Next()
}

// UserID reads the authenticated user id set by AuthMiddleware.
func UserID(c *gin.Context) (int64, bool) {
	raw, exists := c.Get(UserIDCtx)
	if !exists {
		return 0, false
	}
	id, ok := raw.(int64)
	return id, ok
}
