package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/suntzu974/papang/internal/app_errors"
	"github.com/suntzu974/papang/internal/delivery/http/controllers/middleware"
	"github.com/suntzu974/papang/internal/models"
	"github.com/suntzu974/papang/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) (*models.TokenPair, error)
	Logout(ctx context.Context, userID int64) error
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
	VerifyEmail(ctx context.Context, token string) (*models.TokenPair, error)
	ResendVerification(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
	UpdateProfile(ctx context.Context, userID int64, name string) (*models.User, error)
	User(ctx context.Context, id int64) (*models.User, error)
}

type AuthHandler struct {
	log     logger.Log
	service AuthService
}

func NewAuthHandler(l logger.Log, s AuthService) *AuthHandler {
	return &AuthHandler{
		log:     l,
		service: s,
	}
}

func validationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input registerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		validationError(c, err)
		return
	}

	err := h.service.Register(c.Request.Context(), input.Name, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, app_errors.ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.log.ErrorErr("error handling register", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful. Please check your email to verify your account."})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		validationError(c, err)
		return
	}

	pair, err := h.service.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrUserNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "User does not exist"})
		case errors.Is(err, app_errors.ErrIncorrectPassword):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		default:
			h.log.ErrorErr("error handling login", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred."})
		}
		return
	}

	c.JSON(http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.service.Logout(c.Request.Context(), userID); err != nil {
		h.log.ErrorErr("error handling logout", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred."})
		return
	}

	c.Status(http.StatusNoContent)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var input refreshRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		validationError(c, err)
		return
	}

	accessToken, err := h.service.RefreshAccessToken(c.Request.Context(), input.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrTokenExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Your session has expired. Please log in again."})
		case errors.Is(err, app_errors.ErrTokenInvalidFormat), errors.Is(err, app_errors.ErrTokenInvalidSignature):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token."})
		case errors.Is(err, app_errors.ErrTokenValidation), errors.Is(err, app_errors.ErrSessionNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication failed. Please try again."})
		default:
			h.log.ErrorErr("error handling refresh", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": accessToken})
}

type profileResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.service.User(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, app_errors.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.ErrorErr("error retrieving user", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred."})
		return
	}

	c.JSON(http.StatusOK, profileResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

type updateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *AuthHandler) UpdateMe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input updateProfileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		validationError(c, err)
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, input.Name)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrEmptyName):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, app_errors.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			h.log.ErrorErr("error updating profile", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred."})
		}
		return
	}

	c.JSON(http.StatusOK, profileResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}
