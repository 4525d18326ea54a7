// Package mapper resolves free-text action types to rating taxonomy
// positions using stored mapping rules, falling back to keyword
// heuristics when no mapping exists.
package mapper

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pitchmark/pitchmark/internal/domain/model"
)

// Catalog is the rating catalog read API consumed during resolution.
type Catalog interface {
	// LookupByCategory returns entries for a category, optionally
	// narrowed to a subcategory (empty string means category level).
	LookupByCategory(ctx context.Context, category model.Category, subcategory string) ([]model.RatingEntry, error)

	// LookupByIDs returns the entries for the given id set, preserving
	// the requested order. Unknown ids are skipped, not errors.
	LookupByIDs(ctx context.Context, ids []string) ([]model.RatingEntry, error)
}

// MappingSource fetches all stored mappings for a normalized action type.
type MappingSource interface {
	ForActionType(ctx context.Context, key string) ([]model.ActionTypeMapping, error)
}

// Cache memoizes stored-mapping resolutions keyed by normalized action
// type. Purely a performance concern: resolution output is identical
// with or without it.
type Cache interface {
	Get(ctx context.Context, key string) (Resolution, bool)
	Put(ctx context.Context, key string, r Resolution)
}

// Resolution is the outcome of resolving one action type.
type Resolution struct {
	ActionType  string // original text, preserved for display
	Key         string // normalized lookup key
	Category    model.Category
	Subcategory string
	Candidates  []model.RatingEntry

	// FromFallback is true when no stored mapping existed and the
	// keyword classifier produced the category.
	FromFallback bool
}

// Unclassified reports whether resolution fell through to the sentinel.
func (r Resolution) Unclassified() bool { return r.Category == model.CategoryAll }

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithCache installs a resolution cache.
func WithCache(c Cache) Option {
	return func(r *Resolver) {
		if c != nil {
			r.cache = c
		}
	}
}

// Resolver implements the priority-ordered mapping scheme.
type Resolver struct {
	catalog  Catalog
	mappings MappingSource
	cache    Cache
}

// New constructs a Resolver over the given catalog and mapping source.
func New(catalog Catalog, mappings MappingSource, opts ...Option) *Resolver {
	r := &Resolver{
		catalog:  catalog,
		mappings: mappings,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Normalize produces the lookup key for an action type: trimmed,
// internal whitespace collapsed, case-folded. Display code keeps the
// original string.
func Normalize(actionType string) string {
	return strings.ToLower(strings.Join(strings.Fields(actionType), " "))
}

// Resolve maps an action type to a taxonomy position. Deterministic and
// total: any normal string input yields a result; the only error kind is
// ErrCatalogUnavailable from the upstream reads.
func (r *Resolver) Resolve(ctx context.Context, actionType, description string) (Resolution, error) {
	key := Normalize(actionType)

	if r.cache != nil {
		if cached, ok := r.cache.Get(ctx, key); ok {
			cached.ActionType = actionType
			return cached, nil
		}
	}

	rows, err := r.mappings.ForActionType(ctx, key)
	if err != nil {
		return Resolution{}, fmt.Errorf("fetch mappings for %q: %w", key, err)
	}

	if len(rows) == 0 {
		return r.fallback(ctx, actionType, key, description)
	}

	chosen := selectMapping(rows)
	res := Resolution{
		ActionType:  actionType,
		Key:         key,
		Category:    chosen.Category,
		Subcategory: chosen.Subcategory,
	}

	if chosen.Pinned() {
		res.Candidates, err = r.catalog.LookupByIDs(ctx, chosen.SelectedRatingIDs)
	} else {
		res.Candidates, err = r.catalog.LookupByCategory(ctx, chosen.Category, chosen.Subcategory)
	}
	if err != nil {
		return Resolution{}, fmt.Errorf("lookup ratings for %q: %w", key, err)
	}

	if r.cache != nil {
		// Only stored-mapping results are memoized: fallback output
		// depends on the description, which is not part of the key.
		r.cache.Put(ctx, key, res)
	}
	return res, nil
}

// selectMapping picks exactly one mapping, highest priority first:
// a pinned rating set wins, then a subcategory mapping, then the first
// row in (Priority, Seq) order. The explicit ordering replaces the
// incidental storage order the original relied on.
func selectMapping(rows []model.ActionTypeMapping) model.ActionTypeMapping {
	ordered := make([]model.ActionTypeMapping, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority < ordered[j].Priority
		}
		return ordered[i].Seq < ordered[j].Seq
	})

	for _, m := range ordered {
		if m.Pinned() {
			return m
		}
	}
	for _, m := range ordered {
		if m.Subcategory != "" {
			return m
		}
	}
	return ordered[0]
}

// fallback classifies via keyword rules. The sentinel category skips the
// candidate lookup entirely; it has no taxonomy entries to offer.
func (r *Resolver) fallback(ctx context.Context, actionType, key, description string) (Resolution, error) {
	res := Resolution{
		ActionType:   actionType,
		Key:          key,
		Category:     classify(actionType, description),
		FromFallback: true,
	}
	if res.Category == model.CategoryAll {
		return res, nil
	}

	candidates, err := r.catalog.LookupByCategory(ctx, res.Category, "")
	if err != nil {
		return Resolution{}, fmt.Errorf("lookup fallback ratings for %q: %w", key, err)
	}
	res.Candidates = candidates
	return res, nil
}
