// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "weesaviya:ratelimit:"

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Hit increments the key and sets its expiry on the first hit of a window.
func (s *RedisStore) Hit(ctx context.Context, key string, d time.Duration) (int64, time.Time, error) {
	key = keyPrefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("rate limit hit: %w", err)
	}

	remaining := ttl.Val()
	if remaining < 0 {
		// New key (or one that lost its TTL): start the window now
		if err := s.client.PExpire(ctx, key, d).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("rate limit expire: %w", err)
		}
		remaining = d
	}
	return incr.Val(), time.Now().Add(remaining), nil
}

var _ Store = (*RedisStore)(nil)
