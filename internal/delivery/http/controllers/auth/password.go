package auth

import (
	"errors"
	"net/http"

	"github.com/suntzu974/papang/internal/app_errors"
	"github.com/suntzu974/papang/internal/delivery/http/controllers/middleware"

	"github.com/gin-gonic/gin"
)

// forgotPasswordMessage is returned whether or not the email exists, so the
// endpoint cannot be used to probe for accounts.
const forgotPasswordMessage = "If an account with this email exists, a password reset link has been sent."

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var input forgotPasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		validationError(c, err)
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), input.Email); err != nil {
		h.log.ErrorErr("error handling forgot password", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": forgotPasswordMessage})
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input resetPasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		validationError(c, err)
		return
	}

	err := h.service.ResetPassword(c.Request.Context(), input.Token, input.NewPassword)
	if err != nil {
		if errors.Is(err, app_errors.ErrInvalidResetToken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token."})
			return
		}
		h.log.ErrorErr("error handling reset password", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been successfully reset. You can now log in with your new password."})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input changePasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		validationError(c, err)
		return
	}

	err := h.service.ChangePassword(c.Request.Context(), userID, input.CurrentPassword, input.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, app_errors.ErrIncorrectPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
		case errors.Is(err, app_errors.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			h.log.ErrorErr("error handling change password", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal server error occurred."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}
