package otpstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avolkov/accountsvc/internal/common"
)

// RedisStore keeps pending codes in Redis, one key per (purpose, email).
// Redis key TTLs provide the expiry guarantee: an expired code is gone and
// can never be read back.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// key layout: "otp:<email>" for verification codes,
// "reset-password:<email>" for reset codes.
func (s *RedisStore) key(purpose Purpose, email string) string {
	if purpose == PurposeReset {
		return "reset-password:" + email
	}
	return "otp:" + email
}

func (s *RedisStore) Set(ctx context.Context, purpose Purpose, email string, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(purpose, email), code, ttl).Err(); err != nil {
		return fmt.Errorf("otp store error: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, purpose Purpose, email string) (string, error) {
	code, err := s.client.Get(ctx, s.key(purpose, email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("otp store error: %w", err)
	}
	return code, nil
}

func (s *RedisStore) Del(ctx context.Context, purpose Purpose, email string) error {
	if err := s.client.Del(ctx, s.key(purpose, email)).Err(); err != nil {
		return fmt.Errorf("otp store error: %w", err)
	}
	return nil
}
