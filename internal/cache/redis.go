package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "listing:"

// Redis is the networked backend, for running several instances
// behind one cache. Same contract as Memory; the store does the TTL.
type Redis struct {
	client *redis.Client
	log    *slog.Logger
}

func NewRedis(ctx context.Context, redisURL string, log *slog.Logger) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err = client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Redis{client: client, log: log}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	payload, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to read cache entry",
			"error", err,
			"key", key)

		return nil, false
	}

	return payload, true
}

func (r *Redis) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) {
	if key == "" || ttl <= 0 {
		return
	}

	if err := r.client.Set(ctx, redisKeyPrefix+key, payload, ttl).Err(); err != nil {
		r.log.ErrorContext(ctx, "Failed to write cache entry",
			"error", err,
			"key", key,
			"ttl", ttl)
	}
}

// InvalidateAll drops every listing entry but nothing else living in
// the same redis database.
func (r *Redis) InvalidateAll(ctx context.Context) {
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.log.ErrorContext(ctx, "Failed to scan cache keys",
			"error", err)

		return
	}

	if len(keys) == 0 {
		return
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.log.ErrorContext(ctx, "Failed to flush cache",
			"error", err,
			"keyCount", len(keys))
	}
}

func (r *Redis) Close() error {
	return r.client.Close()
}
