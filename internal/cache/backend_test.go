package cache

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// memRedis is a map backed FakeCache covering the commands RedisBackend sends.
func memRedis() (*FakeCache, map[string]string, map[string]map[string]struct{}) {
	var mu sync.Mutex
	data := map[string]string{}
	sets := map[string]map[string]struct{}{}
	return &FakeCache{
		GetFn: func(_ context.Context, key string) *redis.StringCmd {
			mu.Lock()
			defer mu.Unlock()
			v, ok := data[key]
			if !ok {
				return redis.NewStringResult("", redis.Nil)
			}
			return redis.NewStringResult(v, nil)
		},
		SetFn: func(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
			mu.Lock()
			defer mu.Unlock()
			switch v := value.(type) {
			case []byte:
				data[key] = string(v)
			case string:
				data[key] = v
			}
			return redis.NewStatusResult("OK", nil)
		},
		IncrFn: func(_ context.Context, key string) *redis.IntCmd {
			mu.Lock()
			defer mu.Unlock()
			n, _ := strconv.ParseInt(data[key], 10, 64)
			n++
			data[key] = strconv.FormatInt(n, 10)
			return redis.NewIntResult(n, nil)
		},
		SAddFn: func(_ context.Context, key string, members ...any) *redis.IntCmd {
			mu.Lock()
			defer mu.Unlock()
			if sets[key] == nil {
				sets[key] = map[string]struct{}{}
			}
			for _, m := range members {
				sets[key][m.(string)] = struct{}{}
			}
			return redis.NewIntResult(int64(len(members)), nil)
		},
		SMembersFn: func(_ context.Context, key string) *redis.StringSliceCmd {
			mu.Lock()
			defer mu.Unlock()
			var out []string
			for m := range sets[key] {
				out = append(out, m)
			}
			return redis.NewStringSliceResult(out, nil)
		},
		DelFn: func(_ context.Context, keys ...string) *redis.IntCmd {
			mu.Lock()
			defer mu.Unlock()
			for _, k := range keys {
				delete(data, k)
				delete(sets, k)
			}
			return redis.NewIntResult(int64(len(keys)), nil)
		},
	}, data, sets
}

func TestRedisBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, data, sets := memRedis()
	b := NewRedisBackend(client, time.Hour)

	gen, err := b.Generation(ctx, TagPhones)
	require.NoError(t, err)
	require.Zero(t, gen)

	_, ok, err := b.Get(ctx, "k1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, b.Set(ctx, "k1", TagPhones, []byte("one")))
	require.NoError(t, b.Set(ctx, "k2", TagPhones, []byte("two")))
	require.NoError(t, b.Set(ctx, "u1", TagUsers, []byte("user")))

	val, ok, err := b.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "one", string(val))
	require.Len(t, sets[tagSetKey(TagPhones)], 2)

	require.NoError(t, b.Invalidate(ctx, TagPhones))

	gen, err = b.Generation(ctx, TagPhones)
	require.NoError(t, err)
	require.EqualValues(t, 1, gen)
	require.NotContains(t, data, "k1")
	require.NotContains(t, data, "k2")
	require.NotContains(t, sets, tagSetKey(TagPhones))
	require.Contains(t, data, "u1")
	require.NoError(t, b.Ping(ctx))
}

func TestRedisBackendErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	b := NewRedisBackend(&FakeCache{
		GetFn: func(context.Context, string) *redis.StringCmd { return redis.NewStringResult("", boom) },
		SetFn: func(context.Context, string, any, time.Duration) *redis.StatusCmd {
			return redis.NewStatusResult("", boom)
		},
		IncrFn: func(context.Context, string) *redis.IntCmd { return redis.NewIntResult(0, boom) },
	}, time.Hour)

	_, err := b.Generation(ctx, TagPhones)
	require.ErrorIs(t, err, boom)
	_, _, err = b.Get(ctx, "k")
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, b.Set(ctx, "k", TagPhones, nil), boom)
	require.ErrorIs(t, b.Invalidate(ctx, TagPhones), boom)

	b = NewRedisBackend(&FakeCache{
		SetFn: func(context.Context, string, any, time.Duration) *redis.StatusCmd {
			return redis.NewStatusResult("OK", nil)
		},
		SAddFn: func(context.Context, string, ...any) *redis.IntCmd { return redis.NewIntResult(0, boom) },
		IncrFn: func(context.Context, string) *redis.IntCmd { return redis.NewIntResult(1, nil) },
		SMembersFn: func(context.Context, string) *redis.StringSliceCmd {
			return redis.NewStringSliceResult(nil, boom)
		},
	}, time.Hour)
	require.ErrorContains(t, b.Set(ctx, "k", TagPhones, nil), "redis tag")
	require.ErrorContains(t, b.Invalidate(ctx, TagPhones), "redis members")
}

func TestMemoryBackend(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend(100, time.Hour)

	require.NoError(t, b.Set(ctx, "p1", TagPhones, []byte("p1")))
	require.NoError(t, b.Set(ctx, "p2", TagPhones, []byte("p2")))
	require.NoError(t, b.Set(ctx, "u1", TagUsers, []byte("u1")))
	require.Equal(t, 3, b.Len())

	val, ok, err := b.Get(ctx, "p1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "p1", string(val))

	require.NoError(t, b.Invalidate(ctx, TagPhones))
	_, ok, _ = b.Get(ctx, "p1")
	require.False(t, ok)
	_, ok, _ = b.Get(ctx, "p2")
	require.False(t, ok)
	_, ok, _ = b.Get(ctx, "u1")
	require.True(t, ok)

	gen, err := b.Generation(ctx, TagPhones)
	require.NoError(t, err)
	require.EqualValues(t, 1, gen)
	gen, _ = b.Generation(ctx, TagUsers)
	require.Zero(t, gen)

	// invalidating an unknown tag still bumps its generation
	require.NoError(t, b.Invalidate(ctx, "other"))
	gen, _ = b.Generation(ctx, "other")
	require.EqualValues(t, 1, gen)
	require.NoError(t, b.Ping(ctx))
}
