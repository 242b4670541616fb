package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/suntzu974/papang/internal/app_errors"

	"github.com/golang-jwt/jwt/v5"
)

type SessionStore interface {
	StoreFingerprint(ctx context.Context, userID int64, fingerprint string, ttl time.Duration) error
	Fingerprint(ctx context.Context, userID int64) (string, error)
	DeleteFingerprint(ctx context.Context, userID int64) error
}

// RefreshTokenService mints long-lived refresh tokens and keeps a one-way
// fingerprint of the latest one per user in the session store. Only the
// fingerprint is retained server-side, so the store alone never yields a
// usable token.
type RefreshTokenService struct {
	sessions  SessionStore
	secretKey string
	ttl       time.Duration
}

func NewRefreshTokenService(sessions SessionStore, secretKey string, ttl time.Duration) *RefreshTokenService {
	return &RefreshTokenService{sessions: sessions, secretKey: secretKey, ttl: ttl}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *RefreshTokenService) Generate(ctx context.Context, userID int64) (string, error) {
	token := jwt.NewWithClaims(signingMethod, newClaims(userID, s.ttl))
	signed, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", fmt.Errorf("refresh token signing failed: %w", err)
	}

	if err := s.sessions.StoreFingerprint(ctx, userID, hashToken(signed), s.ttl); err != nil {
		return "", err
	}
	return signed, nil
}

// Validate checks signature and expiry, then compares the token's
// fingerprint against the stored one for its subject. A missing fingerprint
// means the session was revoked; a mismatched one means this token was
// superseded by a newer login.
func (s *RefreshTokenService) Validate(ctx context.Context, tokenStr string) (*Claims, error) {
	claims, err := decodeToken(s.secretKey, tokenStr)
	if err != nil {
		return nil, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, app_errors.ErrTokenInvalidFormat
	}

	stored, err := s.sessions.Fingerprint(ctx, userID)
	if err != nil {
		if errors.Is(err, app_errors.ErrSessionNotFound) {
			return nil, err
		}
		return nil, app_errors.ErrTokenValidation
	}
	if stored != hashToken(tokenStr) {
		return nil, app_errors.ErrTokenValidation
	}
	return claims, nil
}

// Delete revokes the user's session. Deleting an absent fingerprint is not
// an error.
func (s *RefreshTokenService) Delete(ctx context.Context, userID int64) error {
	return s.sessions.DeleteFingerprint(ctx, userID)
}
