// Package rescache provides the injectable resolution cache keyed by
// normalized action type. It is an explicit dependency rather than
// ambient state: callers wire it in, and mapping-store mutations
// invalidate it so a stale taxonomy is never served.
package rescache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"

	"github.com/pitchmark/pitchmark/internal/domain/mapper"
	"github.com/pitchmark/pitchmark/pkg/metrics"
)

// defaultMaxSize bounds the cache when no option is supplied.
const defaultMaxSize = 10000

// entry is one cached resolution plus its recency-list node.
type entry struct {
	key string
	res mapper.Resolution
}

// Cache is a bounded LRU of stored-mapping resolutions. Safe for
// concurrent use by many reports. Purely a performance concern:
// resolution output is identical with or without it.
type Cache struct {
	mu      sync.Mutex
	items   map[string]*list.Element
	recency *list.List // front = most recently used
	maxSize int
	size    atomic.Int64
}

// Option applies a configuration option to the Cache.
type Option func(*Cache)

// WithMaxSize bounds the cache. maxSize <= 0 keeps the default bound;
// an unbounded resolution cache is never useful since the key space is
// operator-entered action types.
func WithMaxSize(maxSize int) Option {
	return func(c *Cache) {
		if maxSize > 0 {
			c.maxSize = maxSize
		}
	}
}

// New creates a resolution cache with configuration options.
func New(opts ...Option) *Cache {
	c := &Cache{
		items:   make(map[string]*list.Element),
		recency: list.New(),
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached resolution for a normalized key, marking it
// most recently used.
func (c *Cache) Get(_ context.Context, key string) (mapper.Resolution, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		metrics.RecordCacheMiss()
		return mapper.Resolution{}, false
	}
	c.recency.MoveToFront(el)
	metrics.RecordCacheHit()
	return el.Value.(*entry).res, true
}

// Put stores a resolution, evicting the least recently used entry when
// the bound is exceeded.
func (c *Cache) Put(_ context.Context, key string, res mapper.Resolution) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry).res = res
		c.recency.MoveToFront(el)
		return
	}

	c.items[key] = c.recency.PushFront(&entry{key: key, res: res})
	c.size.Add(1)

	if c.recency.Len() > c.maxSize {
		oldest := c.recency.Back()
		if oldest != nil {
			c.recency.Remove(oldest)
			delete(c.items, oldest.Value.(*entry).key)
			c.size.Add(-1)
		}
	}
	metrics.UpdateCacheSize(int(c.size.Load()))
}

// Invalidate drops the entry for one normalized key. Called when a
// mapping for that key changes.
func (c *Cache) Invalidate(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.recency.Remove(el)
		delete(c.items, key)
		c.size.Add(-1)
		metrics.UpdateCacheSize(int(c.size.Load()))
	}
}

// InvalidateAll empties the cache. Called on bulk mapping reloads.
func (c *Cache) InvalidateAll(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.recency.Init()
	c.size.Store(0)
	metrics.UpdateCacheSize(0)
}

// Size returns the current number of cached resolutions.
func (c *Cache) Size() int64 {
	return c.size.Load()
}
