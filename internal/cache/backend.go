package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backend stores encoded entries grouped by tag. Every tag has a generation
// counter that Invalidate bumps before dropping the tag's entries.
type Backend interface {
	Generation(ctx context.Context, tag string) (int64, error)
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key, tag string, value []byte) error
	Invalidate(ctx context.Context, tag string) error
	Ping(ctx context.Context) error
}

// RedisBackend keeps entries as plain keys and remembers them in one set per tag.
type RedisBackend struct {
	client Cache
	ttl    time.Duration
}

func NewRedisBackend(client Cache, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

func (b *RedisBackend) Generation(ctx context.Context, tag string) (int64, error) {
	gen, err := b.client.Get(ctx, generationKey(tag)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis generation %s: %w", tag, err)
	}
	return gen, nil
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, true, nil
}

func (b *RedisBackend) Set(ctx context.Context, key, tag string, value []byte) error {
	if err := b.client.Set(ctx, key, value, b.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	if err := b.client.SAdd(ctx, tagSetKey(tag), key).Err(); err != nil {
		return fmt.Errorf("redis tag %s: %w", tag, err)
	}
	return nil
}

func (b *RedisBackend) Invalidate(ctx context.Context, tag string) error {
	if err := b.client.Incr(ctx, generationKey(tag)).Err(); err != nil {
		return fmt.Errorf("redis bump %s: %w", tag, err)
	}
	setKey := tagSetKey(tag)
	keys, err := b.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("redis members %s: %w", tag, err)
	}
	if err := b.client.Del(ctx, append(keys, setKey)...).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", tag, err)
	}
	return nil
}

func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}
