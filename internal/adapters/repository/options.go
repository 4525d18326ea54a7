package repository

import (
	"context"

	"github.com/pitchmark/pitchmark/internal/domain/model"
)

// CatalogOption applies a configuration option to the MemoryCatalog.
type CatalogOption func(*MemoryCatalog)

// WithEntries seeds the catalog with rating entries.
func WithEntries(entries ...model.RatingEntry) CatalogOption {
	return func(c *MemoryCatalog) {
		for _, e := range entries {
			c.Put(e)
		}
	}
}

// MappingOption applies a configuration option to the MemoryMappingStore.
type MappingOption func(*MemoryMappingStore)

// WithMappings seeds the store with mappings in insertion order.
func WithMappings(mappings ...model.ActionTypeMapping) MappingOption {
	return func(s *MemoryMappingStore) {
		for _, m := range mappings {
			s.Put(context.Background(), m)
		}
	}
}
