package serverconfig

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStore_Laws(t *testing.T) {
	store, _ := newTestRedisStore(t)
	storeLaws(t, store)
}

func TestRedisStore_ReadFailure(t *testing.T) {
	store, mr := newTestRedisStore(t)
	mr.Close()

	_, err := store.GetConfig(context.Background(), "G1")
	assert.Error(t, err, "upstream failure must surface as an error, not an empty record")
}

func TestRedisStore_CorruptDocument(t *testing.T) {
	store, mr := newTestRedisStore(t)
	require.NoError(t, mr.Set(redisKeyPrefix+"G1", "{broken"))

	_, err := store.GetConfig(context.Background(), "G1")
	assert.Error(t, err)
}
