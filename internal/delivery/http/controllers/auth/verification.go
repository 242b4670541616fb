package auth

import (
	"errors"
	"net/http"

	"github.com/suntzu974/papang/internal/app_errors"

	"github.com/gin-gonic/gin"
)

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	pair, err := h.service.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, app_errors.ErrInvalidVerificationToken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired verification token."})
			return
		}
		h.log.ErrorErr("error handling verify email", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred."})
		return
	}

	c.JSON(http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

type resendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var input resendVerificationRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		validationError(c, err)
		return
	}

	err := h.service.ResendVerification(c.Request.Context(), input.Email)
	if err != nil {
		if errors.Is(err, app_errors.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.ErrorErr("error handling resend verification", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent successfully. Please check your email."})
}
