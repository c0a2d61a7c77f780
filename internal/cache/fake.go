package cache

import (
	"context"
	"sync"
)

// FakeTaggedCache is an in-process TaggedCache for handler tests. It records
// invalidated tags and counts computations per key.
type FakeTaggedCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	tags        map[string][]string
	Computed    map[string]int
	Invalidated []string
}

func NewFakeTaggedCache() *FakeTaggedCache {
	return &FakeTaggedCache{
		entries:  map[string][]byte{},
		tags:     map[string][]string{},
		Computed: map[string]int{},
	}
}

func (f *FakeTaggedCache) GetOrCompute(ctx context.Context, key, tag string, fn ComputeFunc) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if body, ok := f.entries[key]; ok {
		return body, nil
	}
	body, err := fn(ctx)
	if err != nil {
		return nil, err
	}
	f.Computed[key]++
	f.entries[key] = body
	f.tags[tag] = append(f.tags[tag], key)
	return body, nil
}

func (f *FakeTaggedCache) Invalidate(_ context.Context, tag string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range f.tags[tag] {
		delete(f.entries, key)
	}
	delete(f.tags, tag)
	f.Invalidated = append(f.Invalidated, tag)
}
