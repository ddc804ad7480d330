package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// Redis is a shared Store. Every call goes through a circuit breaker so a
// struggling Redis degrades to cache misses instead of slowing requests down.
type Redis struct {
	client  *redis.Client
	baseTTL time.Duration
	prefix  string
	cb      *gobreaker.CircuitBreaker[[]byte]
}

func NewRedis(client *redis.Client, baseTTL time.Duration) *Redis {
	return &Redis{
		client:  client,
		baseTTL: baseTTL,
		prefix:  "storefront:",
		cb: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        "redis-cache",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

func (r *Redis) Get(ctx context.Context, key string, target any) (bool, error) {
	data, err := r.cb.Execute(func() ([]byte, error) {
		b, err := r.client.Get(ctx, r.prefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return b, err
	})
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return false, fmt.Errorf("unmarshal cached value failed: %w", err)
	}
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cached value failed: %w", err)
	}
	if ttl <= 0 {
		ttl = r.baseTTL
	}
	// jitter so keys written together do not expire together
	ttl += time.Duration(rand.Int63n(int64(ttl)/10 + 1))

	_, err = r.cb.Execute(func() ([]byte, error) {
		return nil, r.client.Set(ctx, r.prefix+key, data, ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	_, err := r.cb.Execute(func() ([]byte, error) {
		return nil, r.client.Del(ctx, r.prefix+key).Err()
	})
	if err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *Redis) DeleteByPrefix(ctx context.Context, prefix string) error {
	_, err := r.cb.Execute(func() ([]byte, error) {
		var keys []string
		iter := r.client.Scan(ctx, 0, r.prefix+prefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return nil, err
		}
		if len(keys) == 0 {
			return nil, nil
		}
		return nil, r.client.Del(ctx, keys...).Err()
	})
	if err != nil {
		return fmt.Errorf("redis delete by prefix failed: %w", err)
	}
	return nil
}
