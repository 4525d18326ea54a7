// Package repository provides in-memory reference stores for the rating
// catalog, action-type mappings and per-report action sets. Persistent
// storage lives outside this core; these stores are the in-process read
// models the scoring pipeline consumes, and double as test fixtures.
package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pitchmark/pitchmark/internal/domain/mapper"
	"github.com/pitchmark/pitchmark/internal/domain/model"
)

// MemoryCatalog implements mapper.Catalog over an in-memory entry set.
// Read-only from the pipeline's point of view: scoring never mutates it.
type MemoryCatalog struct {
	mu      sync.RWMutex
	byID    map[string]model.RatingEntry
	ordered []string // insertion order for stable listings
	closed  bool
}

// NewMemoryCatalog creates a catalog with configuration options.
func NewMemoryCatalog(opts ...CatalogOption) *MemoryCatalog {
	c := &MemoryCatalog{byID: make(map[string]model.RatingEntry)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Put inserts or replaces a rating entry. Catalog maintenance is an
// external concern; this exists so deployments and tests can seed data.
func (c *MemoryCatalog) Put(entry model.RatingEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byID[entry.ID]; !exists {
		c.ordered = append(c.ordered, entry.ID)
	}
	c.byID[entry.ID] = entry
}

// Close marks the catalog unreachable. Subsequent lookups fail with
// ErrCatalogUnavailable, exercising the upstream-failure path.
func (c *MemoryCatalog) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// LookupByCategory returns entries for a category, optionally narrowed
// to a subcategory, in insertion order.
func (c *MemoryCatalog) LookupByCategory(_ context.Context, category model.Category, subcategory string) ([]model.RatingEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, fmt.Errorf("catalog lookup: %w", mapper.ErrCatalogUnavailable)
	}

	var out []model.RatingEntry
	for _, id := range c.ordered {
		e := c.byID[id]
		if e.Category != category {
			continue
		}
		if subcategory != "" && e.Subcategory != subcategory {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// LookupByIDs returns entries for the id set, preserving the requested
// order. Unknown ids are skipped, not errors: a mapping may pin ratings
// that were since retired from the catalog.
func (c *MemoryCatalog) LookupByIDs(_ context.Context, ids []string) ([]model.RatingEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, fmt.Errorf("catalog lookup: %w", mapper.ErrCatalogUnavailable)
	}

	var out []model.RatingEntry
	for _, id := range ids {
		if e, ok := c.byID[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// Len returns the number of catalog entries.
func (c *MemoryCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}

// InvalidationHook is notified with the normalized action-type key when
// a mapping for that key changes, or with an empty key on bulk change.
type InvalidationHook func(ctx context.Context, key string)

// MemoryMappingStore implements mapper.MappingSource. Mapping writes are
// reference-data maintenance (last-writer-wins is acceptable); every
// write notifies the registered invalidation hooks so resolution caches
// never serve a stale taxonomy.
type MemoryMappingStore struct {
	mu      sync.RWMutex
	byKey   map[string][]model.ActionTypeMapping
	nextSeq int64
	hooks   []InvalidationHook
	closed  bool
}

// NewMemoryMappingStore creates a mapping store with configuration options.
func NewMemoryMappingStore(opts ...MappingOption) *MemoryMappingStore {
	s := &MemoryMappingStore{byKey: make(map[string][]model.ActionTypeMapping)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange registers an invalidation hook.
func (s *MemoryMappingStore) OnChange(hook InvalidationHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// Put stores a mapping under its normalized action-type key, assigning
// the insertion sequence that backs the resolution tie-break.
func (s *MemoryMappingStore) Put(ctx context.Context, m model.ActionTypeMapping) {
	key := mapper.Normalize(m.ActionType)

	s.mu.Lock()
	s.nextSeq++
	m.ActionType = key
	m.Seq = s.nextSeq
	s.byKey[key] = append(s.byKey[key], m)
	hooks := append([]InvalidationHook(nil), s.hooks...)
	s.mu.Unlock()

	for _, hook := range hooks {
		hook(ctx, key)
	}
}

// DeleteAll removes every mapping for an action type.
func (s *MemoryMappingStore) DeleteAll(ctx context.Context, actionType string) {
	key := mapper.Normalize(actionType)

	s.mu.Lock()
	delete(s.byKey, key)
	hooks := append([]InvalidationHook(nil), s.hooks...)
	s.mu.Unlock()

	for _, hook := range hooks {
		hook(ctx, key)
	}
}

// Close marks the store unreachable, like MemoryCatalog.Close.
func (s *MemoryMappingStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// ForActionType returns all mappings for a normalized key ordered by
// (Priority, Seq). An unknown key yields an empty result, not an error;
// the mapper's fallback classifier takes over from there.
func (s *MemoryMappingStore) ForActionType(_ context.Context, key string) ([]model.ActionTypeMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("mapping lookup: %w", mapper.ErrCatalogUnavailable)
	}

	rows := s.byKey[key]
	out := make([]model.ActionTypeMapping, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}
