package cache

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/viccon/sturdyc"
)

const (
	memoryShards       = 16
	memoryEvictPercent = 10
	memoryMinCapacity  = memoryShards
)

// MemoryBackend keeps entries in a sharded sturdyc client, for single instance
// deployments without Redis.
type MemoryBackend struct {
	entries     *sturdyc.Client[[]byte]
	generations *xsync.MapOf[string, int64]
	tags        *xsync.MapOf[string, *xsync.MapOf[string, struct{}]]
}

func NewMemoryBackend(capacity int, ttl time.Duration) *MemoryBackend {
	if capacity < memoryMinCapacity {
		capacity = memoryMinCapacity
	}
	return &MemoryBackend{
		entries:     sturdyc.New[[]byte](capacity, memoryShards, ttl, memoryEvictPercent),
		generations: xsync.NewMapOf[string, int64](),
		tags:        xsync.NewMapOf[string, *xsync.MapOf[string, struct{}]](),
	}
}

func (b *MemoryBackend) Generation(_ context.Context, tag string) (int64, error) {
	gen, _ := b.generations.Load(tag)
	return gen, nil
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	val, ok := b.entries.Get(key)
	return val, ok, nil
}

func (b *MemoryBackend) Set(_ context.Context, key, tag string, value []byte) error {
	keys, _ := b.tags.LoadOrCompute(tag, func() *xsync.MapOf[string, struct{}] {
		return xsync.NewMapOf[string, struct{}]()
	})
	keys.Store(key, struct{}{})
	b.entries.Set(key, value)
	return nil
}

func (b *MemoryBackend) Invalidate(_ context.Context, tag string) error {
	b.generations.Compute(tag, func(old int64, _ bool) (int64, bool) {
		return old + 1, false
	})
	keys, ok := b.tags.LoadAndDelete(tag)
	if !ok {
		return nil
	}
	keys.Range(func(key string, _ struct{}) bool {
		b.entries.Delete(key)
		return true
	})
	return nil
}

func (b *MemoryBackend) Ping(context.Context) error { return nil }

// Len reports the number of live entries.
func (b *MemoryBackend) Len() int {
	return b.entries.Size()
}
