package embedding

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// vectorCache is a TTL'd LRU of text -> embedding. Embeddings are
// deterministic for a fixed model, so caching them is safe; query text
// repeats often (canned analysis questions, retried searches) and chunk
// re-ingestion repeats entire documents.
type vectorCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*vectorEntry
	order    *list.List
}

type vectorEntry struct {
	key     string
	vector  []float32
	expires time.Time
	element *list.Element
}

func newVectorCache(capacity int, ttl time.Duration) *vectorCache {
	if capacity <= 0 {
		capacity = 1024
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &vectorCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*vectorEntry, capacity),
		order:    list.New(),
	}
}

func (c *vectorCache) get(key string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if !ent.expires.IsZero() && !time.Now().Before(ent.expires) {
		c.remove(ent)
		return nil, false
	}
	c.order.MoveToFront(ent.element)
	return ent.vector, true
}

func (c *vectorCache) set(key string, vector []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		ent.vector = vector
		ent.expires = time.Now().Add(c.ttl)
		c.order.MoveToFront(ent.element)
		return
	}
	if len(c.items) >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.remove(c.items[oldest.Value.(string)])
		}
	}
	elem := c.order.PushFront(key)
	c.items[key] = &vectorEntry{
		key:     key,
		vector:  vector,
		expires: time.Now().Add(c.ttl),
		element: elem,
	}
}

func (c *vectorCache) remove(ent *vectorEntry) {
	if ent == nil {
		return
	}
	if ent.element != nil {
		c.order.Remove(ent.element)
	}
	delete(c.items, ent.key)
}

// CachedProvider wraps a Provider with the vector cache.
type CachedProvider struct {
	inner Provider
	cache *vectorCache
}

// NewCachedProvider caches up to capacity embeddings for ttl. Zero values
// pick workable defaults.
func NewCachedProvider(inner Provider, capacity int, ttl time.Duration) *CachedProvider {
	return &CachedProvider{inner: inner, cache: newVectorCache(capacity, ttl)}
}

func (p *CachedProvider) GetProviderType() string { return p.inner.GetProviderType() }

func (p *CachedProvider) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	if v, ok := p.cache.get(text); ok {
		return v, nil
	}
	v, err := p.inner.GetEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}
	p.cache.set(text, v)
	return v, nil
}
