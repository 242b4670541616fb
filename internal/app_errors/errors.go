package app_errors

import "errors"

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrIncorrectPassword = errors.New("incorrect password")
var ErrEmailAlreadyVerified = errors.New("email already verified")
var ErrInvalidVerificationToken = errors.New("invalid or expired verification token")
var ErrInvalidResetToken = errors.New("invalid or expired reset token")
var ErrEmptyName = errors.New("name must not be empty")

var ErrTokenExpired = errors.New("token expired")
var ErrTokenInvalidFormat = errors.New("invalid token format")
var ErrTokenInvalidSignature = errors.New("invalid token signature")
var ErrTokenValidation = errors.New("token validation failed")
var ErrSessionNotFound = errors.New("no active session for user")

var ErrExpenseNotFound = errors.New("expense not found")
var ErrInvalidAmount = errors.New("amount must be greater than zero")
var ErrInvalidCategory = errors.New("invalid expense category")
var ErrDescriptionTooLong = errors.New("description too long")
var ErrNotImage = errors.New("not image")
var ErrFileSize = errors.New("file size error")
