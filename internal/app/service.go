// Package service wires the scoring pipeline: action store, resolution
// cache, action-type mapper, zone adjuster and stat aggregator.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/pitchmark/pitchmark/internal/adapters/fanout"
	"github.com/pitchmark/pitchmark/internal/adapters/repository"
	"github.com/pitchmark/pitchmark/internal/domain/adjust"
	"github.com/pitchmark/pitchmark/internal/domain/aggregate"
	"github.com/pitchmark/pitchmark/internal/domain/mapper"
	"github.com/pitchmark/pitchmark/internal/domain/model"
	"github.com/pitchmark/pitchmark/internal/domain/rescache"
	"github.com/pitchmark/pitchmark/pkg/logger"
	"github.com/pitchmark/pitchmark/pkg/metrics"
)

// ActionOutcome is the per-action result of a batch resolution: either
// an annotated action or a per-action failure. Failures never abort the
// batch; the caller decides how to surface flagged actions.
type ActionOutcome struct {
	Adjusted model.AdjustedAction
	Err      error
}

// Service implements the scoring core behind a single facade.
type Service struct {
	mu sync.RWMutex

	// Core components
	actions    *repository.ActionStore
	catalog    mapper.Catalog
	mappings   *repository.MemoryMappingStore
	cache      *rescache.Cache
	resolver   *mapper.Resolver
	adjuster   *adjust.Adjuster
	aggregator *aggregate.Aggregator
	pool       *fanout.Pool

	// Configuration
	workerCount int
	cacheSize   int
	zoneTable   adjust.ZoneMultiplierTable
	defensive   map[model.Category]struct{}

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWorkerCount sets the resolution fan-out worker count.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithCacheSize bounds the resolution cache.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.cacheSize = size
		}
	}
}

// WithZoneTable installs the zone multiplier table.
func WithZoneTable(t adjust.ZoneMultiplierTable) Option {
	return func(s *Service) {
		s.zoneTable = t
	}
}

// WithDefensiveCategories overrides the categories treated as defensive
// by the polarity rule.
func WithDefensiveCategories(set map[model.Category]struct{}) Option {
	return func(s *Service) {
		if set != nil {
			s.defensive = set
		}
	}
}

// WithCatalog sets the rating catalog read API.
func WithCatalog(c mapper.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithMappingStore sets the action-type mapping store.
func WithMappingStore(m *repository.MemoryMappingStore) Option {
	return func(s *Service) {
		if m != nil {
			s.mappings = m
		}
	}
}

// WithActionStore sets the per-report action store.
func WithActionStore(a *repository.ActionStore) Option {
	return func(s *Service) {
		if a != nil {
			s.actions = a
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		cacheSize:   10_000,
		zoneTable:   adjust.UnityTable(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start wires the pipeline components. Idempotent.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.actions == nil {
		s.actions = repository.NewActionStore()
	}
	if s.catalog == nil {
		s.catalog = repository.NewMemoryCatalog()
	}
	if s.mappings == nil {
		s.mappings = repository.NewMemoryMappingStore()
	}

	s.cache = rescache.New(rescache.WithMaxSize(s.cacheSize))
	s.resolver = mapper.New(s.catalog, s.mappings, mapper.WithCache(s.cache))
	s.adjuster = adjust.New(adjust.WithTable(s.zoneTable))
	s.aggregator = aggregate.New()
	s.pool = fanout.NewPool(fanout.WithWorkers(s.workerCount))

	// Mapping writes must never leave stale resolutions behind.
	s.mappings.OnChange(func(ctx context.Context, key string) {
		if key == "" {
			s.cache.InvalidateAll(ctx)
			return
		}
		s.cache.Invalidate(ctx, key)
	})

	s.started = true
	s.logger.Info(ctx, "scoring service started",
		logger.Int("workers", s.workerCount),
		logger.Int("cacheSize", s.cacheSize),
	)
	return nil
}

// Stop releases the pipeline. There are no background goroutines; this
// only resets wiring so a Service can be restarted cleanly.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "scoring service stopped")
}

// NewReport registers an empty report and returns its id.
func (s *Service) NewReport(ctx context.Context) string {
	return s.actions.NewReport(ctx)
}

// AddAction appends an action to a report.
func (s *Service) AddAction(ctx context.Context, reportID string, a model.PerformanceAction) error {
	return s.actions.Append(ctx, reportID, a)
}

// InsertAction inserts an action at a 1-based position.
func (s *Service) InsertAction(ctx context.Context, reportID string, pos int, a model.PerformanceAction) error {
	return s.actions.InsertAt(ctx, reportID, pos, a)
}

// RemoveAction deletes the action with the given number.
func (s *Service) RemoveAction(ctx context.Context, reportID string, actionNumber int) error {
	return s.actions.Remove(ctx, reportID, actionNumber)
}

// MoveAction relocates an action within a report.
func (s *Service) MoveAction(ctx context.Context, reportID string, from, to int) error {
	return s.actions.Move(ctx, reportID, from, to)
}

// UpdateAction replaces an action's fields in place.
func (s *Service) UpdateAction(ctx context.Context, reportID string, a model.PerformanceAction) error {
	return s.actions.Update(ctx, reportID, a)
}

// Actions lists a report's actions ordered by action number.
func (s *Service) Actions(ctx context.Context, reportID string) ([]model.PerformanceAction, error) {
	return s.actions.List(ctx, reportID)
}

// PutMapping stores an action-type mapping and invalidates any cached
// resolution for its key.
func (s *Service) PutMapping(ctx context.Context, m model.ActionTypeMapping) {
	s.mappings.Put(ctx, m)
}

// CandidateRatings resolves one action type and returns its candidate
// rating entries for display.
func (s *Service) CandidateRatings(ctx context.Context, actionType, description string) ([]model.RatingEntry, error) {
	res, err := s.resolver.Resolve(ctx, actionType, description)
	if err != nil {
		return nil, err
	}
	return res.Candidates, nil
}

// ResolveReport resolves every action in a report, fanning out across
// distinct requests. The result has one outcome per action in
// action-number order; per-action failures are flagged, not fatal.
func (s *Service) ResolveReport(ctx context.Context, reportID string) ([]ActionOutcome, error) {
	actions, err := s.actions.List(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("resolve report: %w", err)
	}

	reqs := make([]fanout.Request, len(actions))
	for i, a := range actions {
		reqs[i] = fanout.Request{ActionType: a.ActionType, Description: a.Description}
	}
	resolved := s.pool.ResolveAll(ctx, s.resolver, reqs)

	outcomes := make([]ActionOutcome, len(actions))
	for i, a := range actions {
		outcomes[i] = s.annotate(a, resolved[reqs[i].Key()])
	}
	return outcomes, nil
}

// annotate converts one action's resolution into an ActionOutcome,
// applying the zone/outcome adjustment.
func (s *Service) annotate(a model.PerformanceAction, res fanout.Outcome) ActionOutcome {
	if res.Err != nil {
		if errors.Is(res.Err, mapper.ErrCatalogUnavailable) {
			metrics.RecordCatalogError()
		}
		metrics.RecordResolution(metrics.OutcomeFailed)
		return ActionOutcome{
			Adjusted: model.AdjustedAction{PerformanceAction: a},
			Err:      res.Err,
		}
	}

	switch {
	case res.Resolution.Unclassified():
		metrics.RecordResolution(metrics.OutcomeUnclassified)
	case res.Resolution.FromFallback:
		metrics.RecordResolution(metrics.OutcomeFallback)
	default:
		metrics.RecordResolution(metrics.OutcomeMapped)
	}

	adjusted := model.AdjustedAction{
		PerformanceAction:   a,
		ResolvedCategory:    res.Resolution.Category,
		ResolvedSubcategory: res.Resolution.Subcategory,
	}

	polarity := model.PolarityOf(res.Resolution.Category, s.defensive)
	if polarity == model.PolarityNeutral {
		// Unclassified actions carry no polarity assumption; the raw
		// score stands in for the adjusted one downstream.
		return ActionOutcome{Adjusted: adjusted}
	}

	score, err := s.adjuster.Adjust(a.RawScore, a.Zone, a.IsSuccessful, polarity == model.PolarityDefensive)
	if err != nil {
		if errors.Is(err, adjust.ErrInvalidZone) {
			metrics.RecordInvalidZone()
		}
		return ActionOutcome{Adjusted: adjusted, Err: err}
	}
	if score.Valid() {
		metrics.RecordAdjustment()
	}
	adjusted.AdjustedScore = score
	return ActionOutcome{Adjusted: adjusted}
}

// ScoreReport resolves a report and aggregates the successfully
// resolved subset into ReportMetrics. Failed actions are flagged in the
// outcomes and excluded from the aggregate; they never abort scoring.
// Persisting the returned metrics is the caller's concern.
func (s *Service) ScoreReport(ctx context.Context, reportID string, minutesPlayed float64, stats map[model.StatKey]float64) (model.ReportMetrics, []ActionOutcome, error) {
	outcomes, err := s.ResolveReport(ctx, reportID)
	if err != nil {
		return model.ReportMetrics{}, nil, err
	}

	resolved := make([]model.AdjustedAction, 0, len(outcomes))
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			continue
		}
		resolved = append(resolved, o.Adjusted)
	}

	m := s.aggregator.Aggregate(resolved, minutesPlayed)
	m.PerMinute = s.aggregator.ProjectStats(stats, minutesPlayed)
	metrics.RecordAggregation(len(resolved))

	if failed > 0 {
		s.logger.Warn(ctx, "aggregated with failed actions",
			logger.String("reportID", reportID),
			logger.Int("failed", failed),
			logger.Int("resolved", len(resolved)),
		)
	}
	return m, outcomes, nil
}

// CacheSize returns the current number of cached resolutions.
func (s *Service) CacheSize() int64 {
	if s.cache == nil {
		return 0
	}
	return s.cache.Size()
}
