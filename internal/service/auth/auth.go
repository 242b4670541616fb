package auth

import (
	"context"
	"errors"
	"time"

	"github.com/suntzu974/papang/internal/app_errors"
	"github.com/suntzu974/papang/internal/mailer"
	"github.com/suntzu974/papang/internal/models"
	"github.com/suntzu974/papang/pkg/logger"

	"github.com/google/uuid"
)

const resetTokenTTL = time.Hour

type UserRepo interface {
	CreateUser(ctx context.Context, name, email, passwordHash, verificationToken string) (*models.User, error)
	UserByID(ctx context.Context, id int64) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	ConsumeVerificationToken(ctx context.Context, token string) (*models.User, error)
	SetVerificationToken(ctx context.Context, id int64, token string) error
	SetPasswordResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, token, passwordHash string) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateName(ctx context.Context, id int64, name string) (*models.User, error)
}

type AuthService struct {
	log     logger.Log
	users   UserRepo
	access  *AccessTokenService
	refresh *RefreshTokenService
	mailer  mailer.Mailer
}

func NewAuthService(l logger.Log, users UserRepo, access *AccessTokenService, refresh *RefreshTokenService, m mailer.Mailer) *AuthService {
	return &AuthService{
		log:     l,
		users:   users,
		access:  access,
		refresh: refresh,
		mailer:  m,
	}
}

func (s *AuthService) issueTokenPair(ctx context.Context, userID int64) (*models.TokenPair, error) {
	accessToken, err := s.access.Generate(userID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.refresh.Generate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Register creates an unverified user and mails a verification link. No
// tokens are issued until the email is verified. If the email fails to send
// the error surfaces even though the user row is already committed.
func (s *AuthService) Register(ctx context.Context, name, email, password string) error {
	passwordHash, err := HashPassword(password)
	if err != nil {
		return err
	}

	verificationToken := uuid.New().String()
	user, err := s.users.CreateUser(ctx, name, email, passwordHash, verificationToken)
	if err != nil {
		return err
	}

	if err := s.mailer.SendVerificationEmail(ctx, user.Email, verificationToken); err != nil {
		s.log.ErrorErr("failed to send verification email", err, "user_id", user.ID)
		return err
	}
	return nil
}

// Login issues a fresh token pair. Verification status is deliberately not
// checked here: registration already withholds tokens until the email is
// verified, and an issued refresh token is revocable at any time.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	user, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return nil, app_errors.ErrIncorrectPassword
	}
	return s.issueTokenPair(ctx, user.ID)
}

// Logout revokes the subject's refresh-token fingerprint. Idempotent.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	return s.refresh.Delete(ctx, userID)
}

// RefreshAccessToken validates the refresh token against the session store
// and mints a new access token. The refresh token itself is not rotated.
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.refresh.Validate(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	userID, err := claims.UserID()
	if err != nil {
		return "", app_errors.ErrTokenInvalidFormat
	}
	return s.access.Generate(userID)
}

// VerifyEmail consumes a one-time verification token and issues a token pair
// as a convenience login.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*models.TokenPair, error) {
	user, err := s.users.ConsumeVerificationToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.issueTokenPair(ctx, user.ID)
}

// ResendVerification mints a new verification token and resends the email.
// Already-verified users get a silent success.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return nil
	}

	verificationToken := uuid.New().String()
	if err := s.users.SetVerificationToken(ctx, user.ID, verificationToken); err != nil {
		return err
	}
	if err := s.mailer.SendVerificationEmail(ctx, user.Email, verificationToken); err != nil {
		s.log.ErrorErr("failed to send verification email", err, "user_id", user.ID)
		return err
	}
	return nil
}

// ForgotPassword sets a one-hour reset token and mails it, but only for
// existing verified users. Unknown and unverified emails return success all
// the same so the endpoint cannot be used to enumerate accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, app_errors.ErrUserNotFound) {
			return nil
		}
		return err
	}
	if !user.EmailVerified {
		return nil
	}

	resetToken := uuid.New().String()
	if err := s.users.SetPasswordResetToken(ctx, user.ID, resetToken, time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}
	if err := s.mailer.SendPasswordResetEmail(ctx, user.Email, resetToken); err != nil {
		s.log.ErrorErr("failed to send password reset email", err, "user_id", user.ID)
		return err
	}
	return nil
}

// ResetPassword consumes a one-time reset token and replaces the password
// hash. The token is cleared on success so it cannot be replayed.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	passwordHash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	_, err = s.users.ConsumeResetToken(ctx, token, passwordHash)
	return err
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !VerifyPassword(currentPassword, user.PasswordHash) {
		return app_errors.ErrIncorrectPassword
	}

	passwordHash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, passwordHash)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, name string) (*models.User, error) {
	if name == "" {
		return nil, app_errors.ErrEmptyName
	}
	return s.users.UpdateName(ctx, userID, name)
}

func (s *AuthService) User(ctx context.Context, id int64) (*models.User, error) {
	return s.users.UserByID(ctx, id)
}

// ValidateAccessToken is used by the bearer middleware.
func (s *AuthService) ValidateAccessToken(ctx context.Context, token string) (int64, error) {
	claims, err := s.access.Validate(token)
	if err != nil {
		return 0, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return 0, app_errors.ErrTokenInvalidFormat
	}
	return userID, nil
}
