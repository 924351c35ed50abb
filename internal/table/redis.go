package table

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-kiosk-orders/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the table id under kiosk:{device}:table for kiosks that
// share one Redis.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, deviceID string) *RedisStore {
	return &RedisStore{client: client, key: fmt.Sprintf(redisx.KeyKioskTable, deviceID)}
}

func (s *RedisStore) Get(ctx context.Context) (string, error) {
	id, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) || (err == nil && id == "") {
		return "", ErrNotSelected
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return id, nil
}

func (s *RedisStore) Set(ctx context.Context, tableID string) error {
	id, err := Normalize(tableID)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, id, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
