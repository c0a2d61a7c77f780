package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is the subset of the redis client used by RedisBackend and the readiness probe.
// *redis.Client satisfies it; FakeCache replaces it in tests.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

type FakeCache struct {
	GetFn      func(ctx context.Context, key string) *redis.StringCmd
	SetFn      func(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd
	DelFn      func(ctx context.Context, keys ...string) *redis.IntCmd
	IncrFn     func(ctx context.Context, key string) *redis.IntCmd
	SAddFn     func(ctx context.Context, key string, members ...any) *redis.IntCmd
	SMembersFn func(ctx context.Context, key string) *redis.StringSliceCmd
	PingFn     func(ctx context.Context) *redis.StatusCmd
	CloseFn    func() error
}

func (f *FakeCache) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.GetFn != nil {
		return f.GetFn(ctx, key)
	}
	panic("unexpected Get")
}

func (f *FakeCache) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	if f.SetFn != nil {
		return f.SetFn(ctx, key, value, ttl)
	}
	panic("unexpected Set")
}

func (f *FakeCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if f.DelFn != nil {
		return f.DelFn(ctx, keys...)
	}
	panic("unexpected Del")
}

func (f *FakeCache) Incr(ctx context.Context, key string) *redis.IntCmd {
	if f.IncrFn != nil {
		return f.IncrFn(ctx, key)
	}
	panic("unexpected Incr")
}

func (f *FakeCache) SAdd(ctx context.Context, key string, members ...any) *redis.IntCmd {
	if f.SAddFn != nil {
		return f.SAddFn(ctx, key, members...)
	}
	panic("unexpected SAdd")
}

func (f *FakeCache) SMembers(ctx context.Context, key string) *redis.StringSliceCmd {
	if f.SMembersFn != nil {
		return f.SMembersFn(ctx, key)
	}
	panic("unexpected SMembers")
}

// Ping answers PONG unless PingFn is set.
func (f *FakeCache) Ping(ctx context.Context) *redis.StatusCmd {
	if f.PingFn != nil {
		return f.PingFn(ctx)
	}
	return redis.NewStatusResult("PONG", nil)
}

func (f *FakeCache) Close() error {
	if f.CloseFn != nil {
		return f.CloseFn()
	}
	return nil
}
