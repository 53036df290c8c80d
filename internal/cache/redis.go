package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "launchpad:cache"

// RedisBackend lets several service instances share cached query results.
// Invalidation deletes every key of the entity.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisBackend(client *redis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

func redisKey(key Key) string {
	return redisKeyPrefix + ":" + key.Entity + ":" + key.Filter
}

func (b *RedisBackend) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	raw, err := b.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (b *RedisBackend) Set(ctx context.Context, key Key, value []byte) error {
	return b.client.Set(ctx, redisKey(key), value, b.ttl).Err()
}

func (b *RedisBackend) Invalidate(ctx context.Context, entity string) error {
	pattern := redisKeyPrefix + ":" + entity + ":*"

	iter := b.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return b.client.Del(ctx, keys...).Err()
}

// Ping verifies the Redis connection.
func (b *RedisBackend) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return b.client.Ping(ctx).Err()
}
