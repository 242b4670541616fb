package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/suntzu974/papang/internal/app_errors"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps one refresh-token fingerprint per user, keyed by
// refresh_token:{user_id}. A SET overwrites any previous fingerprint, which
// is what enforces the single-active-session policy.
type SessionStore struct {
	client *redis.Client
}

func New(addr, password string, db int) (*SessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &SessionStore{client: client}, nil
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("refresh_token:%d", userID)
}

func (s *SessionStore) StoreFingerprint(ctx context.Context, userID int64, fingerprint string, ttl time.Duration) error {
	if err := s.client.Set(ctx, sessionKey(userID), fingerprint, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store refresh token for user %d: %w", userID, err)
	}
	return nil
}

func (s *SessionStore) Fingerprint(ctx context.Context, userID int64) (string, error) {
	val, err := s.client.Get(ctx, sessionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", app_errors.ErrSessionNotFound
		}
		return "", fmt.Errorf("failed to get refresh token for user %d: %w", userID, err)
	}
	return val, nil
}

func (s *SessionStore) DeleteFingerprint(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh token for user %d: %w", userID, err)
	}
	return nil
}

func (s *SessionStore) Close() error {
	return s.client.Close()
}
