package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sharebid/auction-engine/internal/domain"
	"github.com/sharebid/auction-engine/internal/port"
)

var _ port.Cache = (*RedisCache)(nil)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr string, password string, db int, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{
		client: rdb,
		ttl:    ttl,
	}
}

func key(auctionID string) string { return "result:" + auctionID }

func (c *RedisCache) SetResult(ctx context.Context, auctionID string, r *domain.ClearingResult) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(auctionID), b, c.ttl).Err()
}

func (c *RedisCache) GetResult(ctx context.Context, auctionID string) (*domain.ClearingResult, error) {
	b, err := c.client.Get(ctx, key(auctionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var r domain.ClearingResult
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *RedisCache) Invalidate(ctx context.Context, auctionID string) error {
	return c.client.Del(ctx, key(auctionID)).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
