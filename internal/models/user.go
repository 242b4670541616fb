package models

import "time"

type User struct {
	ID                     int64
	Name                   string
	Email                  string
	PasswordHash           string
	EmailVerified          bool
	VerificationToken      *string
	PasswordResetToken     *string
	PasswordResetExpiresAt *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
