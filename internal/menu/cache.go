package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/ariefcatur/go-kiosk-orders/internal/redisx"
	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Get(ctx context.Context) ([]Item, error)
	Set(ctx context.Context, items []Item) error
	Delete(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, baseTTL: redisx.TTLMenuCache}
}

func (r *RedisCache) Get(ctx context.Context) ([]Item, error) {
	data, err := r.client.Get(ctx, redisx.KeyMenu).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal menu failed: %w", err)
	}
	return items, nil
}

func (r *RedisCache) Set(ctx context.Context, items []Item) error {
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal menu failed: %w", err)
	}
	jitter := time.Duration(rand.Intn(30)) * time.Second
	if err := r.client.Set(ctx, redisx.KeyMenu, b, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, redisx.KeyMenu).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
