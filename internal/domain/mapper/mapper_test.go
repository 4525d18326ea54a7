package mapper_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pitchmark/pitchmark/internal/domain/mapper"
	"github.com/pitchmark/pitchmark/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeCatalog serves canned entries and can simulate unavailability.
type fakeCatalog struct {
	entries []model.RatingEntry
	down    bool
}

func (f *fakeCatalog) LookupByCategory(_ context.Context, category model.Category, subcategory string) ([]model.RatingEntry, error) {
	if f.down {
		return nil, mapper.ErrCatalogUnavailable
	}
	var out []model.RatingEntry
	for _, e := range f.entries {
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

func (f *fakeCatalog) LookupByIDs(_ context.Context, ids []string) ([]model.RatingEntry, error) {
	if f.down {
		return nil, mapper.ErrCatalogUnavailable
	}
	byID := make(map[string]model.RatingEntry, len(f.entries))
	for _, e := range f.entries {
		byID[e.ID] = e
	}
	var out []model.RatingEntry
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeMappings struct {
	rows map[string][]model.ActionTypeMapping
	down bool
}

func (f *fakeMappings) ForActionType(_ context.Context, key string) ([]model.ActionTypeMapping, error) {
	if f.down {
		return nil, mapper.ErrCatalogUnavailable
	}
	return f.rows[key], nil
}

type countingCache struct {
	entries map[string]mapper.Resolution
	hits    int
	puts    int
}

func newCountingCache() *countingCache {
	return &countingCache{entries: map[string]mapper.Resolution{}}
}

func (c *countingCache) Get(_ context.Context, key string) (mapper.Resolution, bool) {
	r, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return r, ok
}

func (c *countingCache) Put(_ context.Context, key string, r mapper.Resolution) {
	c.puts++
	c.entries[key] = r
}

func TestNormalize(t *testing.T) {
	Convey("Given free-text action types", t, func() {
		Convey("When normalizing for lookup", func() {
			So(mapper.Normalize("  Progressive   Pass "), ShouldEqual, "progressive pass")
			So(mapper.Normalize("TACKLE"), ShouldEqual, "tackle")
			So(mapper.Normalize(""), ShouldEqual, "")
		})
	})
}

func TestResolver_PriorityOrdering(t *testing.T) {
	Convey("Given three mappings for the same action type", t, func() {
		catalog := &fakeCatalog{entries: []model.RatingEntry{
			{ID: "r1", Title: "Slide tackle", Category: model.CategoryDefensive, Subcategory: "Tackling", BaseScore: model.ParseBaseScore("0.10")},
			{ID: "r2", Title: "Standing tackle", Category: model.CategoryDefensive, Subcategory: "Tackling", BaseScore: model.ParseBaseScore("0.08")},
			{ID: "r3", Title: "Block", Category: model.CategoryDefensive, BaseScore: model.ParseBaseScore("0.06")},
		}}

		categoryOnly := model.ActionTypeMapping{ActionType: "tackle", Category: model.CategoryDefensive, Seq: 1}
		withSub := model.ActionTypeMapping{ActionType: "tackle", Category: model.CategoryDefensive, Subcategory: "Tackling", Seq: 2}
		pinned := model.ActionTypeMapping{ActionType: "tackle", Category: model.CategoryDefensive, Subcategory: "Tackling", SelectedRatingIDs: []string{"r2"}, Seq: 3}

		Convey("When only a category-only mapping exists", func() {
			mappings := &fakeMappings{rows: map[string][]model.ActionTypeMapping{"tackle": {categoryOnly}}}
			r := mapper.New(catalog, mappings)

			res, err := r.Resolve(context.Background(), "Tackle", "")
			So(err, ShouldBeNil)
			So(res.Category, ShouldEqual, model.CategoryDefensive)
			So(res.Subcategory, ShouldEqual, "")
			So(res.FromFallback, ShouldBeFalse)
			So(len(res.Candidates), ShouldEqual, 3)
		})

		Convey("When a subcategory mapping is added", func() {
			mappings := &fakeMappings{rows: map[string][]model.ActionTypeMapping{"tackle": {categoryOnly, withSub}}}
			r := mapper.New(catalog, mappings)

			res, err := r.Resolve(context.Background(), "Tackle", "")

			Convey("Then the subcategory mapping wins", func() {
				So(err, ShouldBeNil)
				So(res.Subcategory, ShouldEqual, "Tackling")
				So(len(res.Candidates), ShouldEqual, 2)
			})
		})

		Convey("When a pinned mapping is added on top", func() {
			mappings := &fakeMappings{rows: map[string][]model.ActionTypeMapping{"tackle": {categoryOnly, withSub, pinned}}}
			r := mapper.New(catalog, mappings)

			res, err := r.Resolve(context.Background(), "Tackle", "")

			Convey("Then the pinned mapping wins over both", func() {
				So(err, ShouldBeNil)
				So(len(res.Candidates), ShouldEqual, 1)
				So(res.Candidates[0].ID, ShouldEqual, "r2")
			})
		})

		Convey("When rows arrive out of order", func() {
			mappings := &fakeMappings{rows: map[string][]model.ActionTypeMapping{"tackle": {pinned, withSub, categoryOnly}}}
			r := mapper.New(catalog, mappings)

			res, err := r.Resolve(context.Background(), "tackle", "")

			Convey("Then selection is order-independent", func() {
				So(err, ShouldBeNil)
				So(res.Candidates[0].ID, ShouldEqual, "r2")
			})
		})

		Convey("When two category-only mappings tie", func() {
			other := model.ActionTypeMapping{ActionType: "tackle", Category: model.CategoryPressing, Seq: 5}
			mappings := &fakeMappings{rows: map[string][]model.ActionTypeMapping{"tackle": {other, categoryOnly}}}
			r := mapper.New(catalog, mappings)

			res, err := r.Resolve(context.Background(), "tackle", "")

			Convey("Then the lowest sequence wins", func() {
				So(err, ShouldBeNil)
				So(res.Category, ShouldEqual, model.CategoryDefensive)
			})
		})

		Convey("When an explicit priority outranks insertion order", func() {
			urgent := model.ActionTypeMapping{ActionType: "tackle", Category: model.CategoryPressing, Priority: -1, Seq: 9}
			mappings := &fakeMappings{rows: map[string][]model.ActionTypeMapping{"tackle": {categoryOnly, urgent}}}
			r := mapper.New(catalog, mappings)

			res, err := r.Resolve(context.Background(), "tackle", "")
			So(err, ShouldBeNil)
			So(res.Category, ShouldEqual, model.CategoryPressing)
		})
	})
}

func TestResolver_Fallback(t *testing.T) {
	Convey("Given no stored mappings", t, func() {
		catalog := &fakeCatalog{entries: []model.RatingEntry{
			{ID: "p1", Title: "Counter-press win", Category: model.CategoryPressing, BaseScore: model.ParseBaseScore("0.12")},
		}}
		mappings := &fakeMappings{rows: map[string][]model.ActionTypeMapping{}}
		r := mapper.New(catalog, mappings)

		Convey("When the action type matches a keyword", func() {
			res, err := r.Resolve(context.Background(), "High Press", "forced a turnover")
			So(err, ShouldBeNil)
			So(res.Category, ShouldEqual, model.CategoryPressing)
			So(res.FromFallback, ShouldBeTrue)
			So(len(res.Candidates), ShouldEqual, 1)
		})

		Convey("When only the description matches", func() {
			res, err := r.Resolve(context.Background(), "event", "won the header at the far post")
			So(err, ShouldBeNil)
			So(res.Category, ShouldEqual, model.CategoryAerialDuels)
		})

		Convey("When earlier rules shadow later ones", func() {
			// "counter-press" also contains "press"; both land on Pressing,
			// but a defensive keyword after a press keyword must not win.
			res, err := r.Resolve(context.Background(), "counter-press", "then a tackle")
			So(err, ShouldBeNil)
			So(res.Category, ShouldEqual, model.CategoryPressing)
		})

		Convey("When nothing matches", func() {
			res, err := r.Resolve(context.Background(), "zzz", "qqq")

			Convey("Then the sentinel is returned, never an error", func() {
				So(err, ShouldBeNil)
				So(res.Category, ShouldEqual, model.CategoryAll)
				So(res.Unclassified(), ShouldBeTrue)
				So(res.Candidates, ShouldBeEmpty)
			})
		})

		Convey("When the input is empty", func() {
			res, err := r.Resolve(context.Background(), "", "")
			So(err, ShouldBeNil)
			So(res.Category, ShouldEqual, model.CategoryAll)
		})
	})
}

func TestResolver_CatalogFailures(t *testing.T) {
	Convey("Given an unreachable catalog", t, func() {
		catalog := &fakeCatalog{down: true}

		Convey("When the mapping read fails", func() {
			mappings := &fakeMappings{down: true}
			r := mapper.New(catalog, mappings)

			_, err := r.Resolve(context.Background(), "tackle", "")
			So(errors.Is(err, mapper.ErrCatalogUnavailable), ShouldBeTrue)
		})

		Convey("When the rating lookup fails", func() {
			mappings := &fakeMappings{rows: map[string][]model.ActionTypeMapping{
				"tackle": {{ActionType: "tackle", Category: model.CategoryDefensive}},
			}}
			r := mapper.New(catalog, mappings)

			_, err := r.Resolve(context.Background(), "tackle", "")
			So(errors.Is(err, mapper.ErrCatalogUnavailable), ShouldBeTrue)
		})

		Convey("When fallback hits the sentinel", func() {
			mappings := &fakeMappings{rows: map[string][]model.ActionTypeMapping{}}
			r := mapper.New(catalog, mappings)

			Convey("Then no catalog call is made and no error surfaces", func() {
				res, err := r.Resolve(context.Background(), "zzz", "")
				So(err, ShouldBeNil)
				So(res.Category, ShouldEqual, model.CategoryAll)
			})
		})
	})
}

func TestResolver_Caching(t *testing.T) {
	Convey("Given a resolver with a cache", t, func() {
		catalog := &fakeCatalog{entries: []model.RatingEntry{
			{ID: "r1", Category: model.CategoryDefensive},
		}}
		mappings := &fakeMappings{rows: map[string][]model.ActionTypeMapping{
			"tackle": {{ActionType: "tackle", Category: model.CategoryDefensive}},
		}}
		cache := newCountingCache()
		r := mapper.New(catalog, mappings, mapper.WithCache(cache))

		Convey("When resolving the same type twice", func() {
			first, err1 := r.Resolve(context.Background(), "Tackle", "")
			second, err2 := r.Resolve(context.Background(), " tackle ", "")

			Convey("Then the second hit comes from the cache with identical output", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(cache.hits, ShouldEqual, 1)
				So(cache.puts, ShouldEqual, 1)
				So(second.Category, ShouldEqual, first.Category)
				So(second.Key, ShouldEqual, first.Key)
			})

			Convey("And the original display text is preserved per call", func() {
				So(first.ActionType, ShouldEqual, "Tackle")
				So(second.ActionType, ShouldEqual, " tackle ")
			})
		})

		Convey("When resolution falls back to keywords", func() {
			_, err := r.Resolve(context.Background(), "zzz press", "")

			Convey("Then the result is not memoized", func() {
				So(err, ShouldBeNil)
				So(cache.puts, ShouldEqual, 0)
			})
		})
	})
}

func TestResolver_Determinism(t *testing.T) {
	Convey("Given a fixed catalog and mapping snapshot", t, func() {
		catalog := &fakeCatalog{entries: []model.RatingEntry{
			{ID: "r1", Category: model.CategoryOnBallDecisions, Subcategory: "Passing"},
		}}
		mappings := &fakeMappings{rows: map[string][]model.ActionTypeMapping{
			"through ball": {
				{ActionType: "through ball", Category: model.CategoryOnBallDecisions, Seq: 1},
				{ActionType: "through ball", Category: model.CategoryOnBallDecisions, Subcategory: "Passing", Seq: 2},
			},
		}}
		r := mapper.New(catalog, mappings)

		Convey("When resolving repeatedly", func() {
			first, err := r.Resolve(context.Background(), "Through Ball", "line-splitting pass")
			So(err, ShouldBeNil)

			for i := 0; i < 10; i++ {
				again, err := r.Resolve(context.Background(), "Through Ball", "line-splitting pass")
				So(err, ShouldBeNil)
				So(again.Category, ShouldEqual, first.Category)
				So(again.Subcategory, ShouldEqual, first.Subcategory)
				So(len(again.Candidates), ShouldEqual, len(first.Candidates))
			}
		})
	})
}
