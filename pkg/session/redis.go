package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "guilddash:session:"

// RedisStore is the Redis-backed Store. Expiry rides on Redis TTLs, so no
// janitor is needed and sessions survive a dashboard restart.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store. A ttl of zero uses
// DefaultTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

// Create issues a token and stores the principal as a JSON value with TTL.
func (s *RedisStore) Create(ctx context.Context, p *Principal) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to marshal principal: %w", err)
	}

	if err := s.client.Set(ctx, redisKeyPrefix+token, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return token, nil
}

// Resolve returns the principal for a live token. Unknown tokens, expired
// tokens, Redis failures, and corrupt values all report absent; callers treat
// absence as "never logged in".
func (s *RedisStore) Resolve(ctx context.Context, token string) (*Principal, bool) {
	data, err := s.client.Get(ctx, redisKeyPrefix+token).Result()
	if err != nil {
		return nil, false
	}

	var p Principal
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		// Corrupt value: drop it rather than serve garbage.
		s.client.Del(ctx, redisKeyPrefix+token)
		return nil, false
	}
	return &p, true
}

// Destroy removes the session; destroying twice is not an error.
func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}
