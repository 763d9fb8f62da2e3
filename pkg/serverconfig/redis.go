package serverconfig

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "guilddash:settings:"

// RedisStore persists each guild's settings as one JSON document. Merges are
// read-merge-write, so concurrent updates to the same guild resolve
// last-write-wins per the Store contract.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed settings store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// GetConfig returns the guild's settings, empty when nothing is stored.
func (s *RedisStore) GetConfig(ctx context.Context, guildID string) (Settings, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+guildID).Result()
	if err == redis.Nil {
		return Settings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings read failed: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal([]byte(data), &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return settings, nil
}

// MergeUpdate merges changes into the stored document, creating it if absent.
func (s *RedisStore) MergeUpdate(ctx context.Context, guildID string, changes Settings) error {
	current, err := s.GetConfig(ctx, guildID)
	if err != nil {
		return err
	}

	for k, v := range changes {
		current[k] = v
	}

	data, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := s.client.Set(ctx, redisKeyPrefix+guildID, data, 0).Err(); err != nil {
		return fmt.Errorf("settings write failed: %w", err)
	}
	return nil
}
