package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ei-sanu/someshprofile/internal/models"
)

const callbackKeyPrefix = "paydesk:payu:callback:"

// RedisCallbackStore shares processed callback markers between instances.
type RedisCallbackStore struct {
	client    *redis.Client
	keyPrefix string
}

var _ models.CallbackStore = (*RedisCallbackStore)(nil)

func NewRedisCallbackStore(addr, password string, db int) (*RedisCallbackStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCallbackStoreWithClient(client), nil
}

func NewRedisCallbackStoreWithClient(client *redis.Client) *RedisCallbackStore {
	return &RedisCallbackStore{client: client, keyPrefix: callbackKeyPrefix}
}

// MarkProcessed sets the marker with SETNX. It returns false when the marker already existed.
func (s *RedisCallbackStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark callback processed: %w", err)
	}
	return ok, nil
}

func (s *RedisCallbackStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check callback marker: %w", err)
	}
	return n > 0, nil
}

func (s *RedisCallbackStore) Close() error {
	return s.client.Close()
}
