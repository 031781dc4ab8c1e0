package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real server, e.g. REDIS_TEST_ADDR=localhost:6379.
func TestRedisCallbackStore(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	store, err := NewRedisCallbackStore(addr, os.Getenv("REDIS_TEST_PASSWORD"), 0)
	require.NoError(t, err)
	defer store.Close()
	store.keyPrefix = "paydesk:test:" + uuid.NewString() + ":"
	ctx := context.Background()

	first, err := store.MarkProcessed(ctx, "TXN1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := store.MarkProcessed(ctx, "TXN1", time.Minute)
	require.NoError(t, err)
	assert.False(t, again)

	processed, err := store.IsProcessed(ctx, "TXN1")
	require.NoError(t, err)
	assert.True(t, processed)

	processed, err = store.IsProcessed(ctx, "TXN2")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestNewRedisCallbackStore_Unreachable(t *testing.T) {
	_, err := NewRedisCallbackStore("127.0.0.1:1", "", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}
