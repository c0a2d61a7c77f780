package cache

import (
	"context"
	"time"

	"bilemo-api/internal/metrics"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// ComputeFunc produces the serialized payload on a cache miss.
type ComputeFunc func(ctx context.Context) ([]byte, error)

// TaggedCache memoizes list payloads and drops them per tag.
type TaggedCache interface {
	GetOrCompute(ctx context.Context, key, tag string, fn ComputeFunc) ([]byte, error)
	Invalidate(ctx context.Context, tag string)
}

// ResponseCache is a best-effort TaggedCache: backend failures are logged and
// the payload is computed directly instead.
type ResponseCache struct {
	backend Backend
	group   singleflight.Group
	log     zerolog.Logger
	now     func() time.Time
}

func NewResponseCache(backend Backend, log zerolog.Logger) *ResponseCache {
	return &ResponseCache{
		backend: backend,
		log:     log.With().Str("component", "response_cache").Logger(),
		now:     time.Now,
	}
}

// GetOrCompute returns the cached payload for key or runs fn once for all
// concurrent callers of the same key and stores its result under tag.
// fn errors are returned and never cached.
func (c *ResponseCache) GetOrCompute(ctx context.Context, key, tag string, fn ComputeFunc) ([]byte, error) {
	gen, err := c.backend.Generation(ctx, tag)
	if err != nil {
		c.fail("generation", key, err)
		return fn(ctx)
	}
	fullKey := entryKey(tag, gen, key)

	v, err, _ := c.group.Do(fullKey, func() (any, error) {
		// Shared by every waiter, so it must outlive the first caller's request.
		flightCtx := context.WithoutCancel(ctx)
		if body, ok := c.lookup(flightCtx, fullKey, tag); ok {
			return body, nil
		}
		body, err := fn(flightCtx)
		if err != nil {
			return nil, err
		}
		c.store(flightCtx, fullKey, tag, body)
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate drops every entry stored under tag. Failures are logged only.
func (c *ResponseCache) Invalidate(ctx context.Context, tag string) {
	metrics.CacheInvalidations.WithLabelValues(tag).Inc()
	if err := c.backend.Invalidate(ctx, tag); err != nil {
		c.fail("invalidate", tag, err)
		return
	}
	c.log.Debug().Str("tag", tag).Msg("cache tag invalidated")
}

func (c *ResponseCache) Ping(ctx context.Context) error {
	return c.backend.Ping(ctx)
}

func (c *ResponseCache) lookup(ctx context.Context, key, tag string) ([]byte, bool) {
	raw, ok, err := c.backend.Get(ctx, key)
	if err != nil {
		c.fail("get", key, err)
		return nil, false
	}
	if !ok {
		metrics.CacheLookups.WithLabelValues(tag, "miss").Inc()
		return nil, false
	}
	e, err := decodeEntry(raw)
	if err != nil {
		c.fail("decode", key, err)
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues(tag, "hit").Inc()
	return e.Body, true
}

func (c *ResponseCache) store(ctx context.Context, key, tag string, body []byte) {
	raw, err := encodeEntry(entry{Body: body, Tag: tag, StoredAt: c.now().UTC()})
	if err != nil {
		c.fail("encode", key, err)
		return
	}
	if err := c.backend.Set(ctx, key, tag, raw); err != nil {
		c.fail("set", key, err)
	}
}

func (c *ResponseCache) fail(op, key string, err error) {
	metrics.CacheErrors.WithLabelValues(op).Inc()
	c.log.Warn().Err(err).Str("op", op).Str("key", key).Msg("cache unavailable, computing directly")
}
