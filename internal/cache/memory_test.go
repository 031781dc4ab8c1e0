package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCallbackStore_MarkProcessed(t *testing.T) {
	store := NewMemoryCallbackStore()
	defer store.Close()
	ctx := context.Background()

	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	first, err := store.MarkProcessed(ctx, "TXN1:success", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := store.MarkProcessed(ctx, "TXN1:success", time.Hour)
	require.NoError(t, err)
	assert.False(t, again)

	processed, err := store.IsProcessed(ctx, "TXN1:success")
	require.NoError(t, err)
	assert.True(t, processed)

	processed, err = store.IsProcessed(ctx, "TXN2:success")
	require.NoError(t, err)
	assert.False(t, processed)

	now = now.Add(2 * time.Hour)
	processed, err = store.IsProcessed(ctx, "TXN1:success")
	require.NoError(t, err)
	assert.False(t, processed)

	again, err = store.MarkProcessed(ctx, "TXN1:success", time.Hour)
	require.NoError(t, err)
	assert.True(t, again)
}

func TestMemoryCallbackStore_Cleanup(t *testing.T) {
	store := NewMemoryCallbackStore()
	defer store.Close()
	ctx := context.Background()

	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	_, _ = store.MarkProcessed(ctx, "short", time.Minute)
	_, _ = store.MarkProcessed(ctx, "long", time.Hour)
	require.Equal(t, 2, store.Len())

	now = now.Add(10 * time.Minute)
	store.cleanup()
	assert.Equal(t, 1, store.Len())
}

func TestMemoryCallbackStore_ConcurrentMarkersHaveOneWinner(t *testing.T) {
	store := NewMemoryCallbackStore()
	defer store.Close()

	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.MarkProcessed(context.Background(), "TXN9:success", time.Hour)
			if err == nil && ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), winners.Load())
}

func TestMemoryCallbackStore_CloseTwice(t *testing.T) {
	store := NewMemoryCallbackStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
