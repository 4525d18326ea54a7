// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer
//   file and environment on top.
// - External errors are wrapped via this package's sentinel kinds.
package config

import (
	"runtime"

	"github.com/pitchmark/pitchmark/internal/domain/adjust"
	"github.com/pitchmark/pitchmark/internal/domain/model"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// CacheSize bounds the resolution cache (entries).
	CacheSize int `koanf:"cache_size"`

	// ResolveWorkers sets the resolution fan-out worker count.
	ResolveWorkers int `koanf:"resolve_workers"`

	// DefensiveCategories lists taxonomy categories whose actions take
	// the defensive polarity during score adjustment.
	DefensiveCategories []string `koanf:"defensive_categories"`

	// ZoneMultipliers is the 18-zone coefficient table per
	// (defensive, successful) combination. The shipped default is the
	// unity table; production coefficients come from domain experts via
	// the deployment config file.
	ZoneMultipliers adjust.ZoneMultiplierTable `koanf:"zone_multipliers"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		CacheSize:      10_000,
		ResolveWorkers: runtime.NumCPU() * 2,
		DefensiveCategories: []string{
			string(model.CategoryDefensive),
			string(model.CategoryPressing),
			string(model.CategoryAerialDuels),
		},
		ZoneMultipliers: adjust.UnityTable(),
	}
}

// DefensiveSet converts the configured category names into the lookup
// set the polarity rule consumes.
func (c *Config) DefensiveSet() map[model.Category]struct{} {
	out := make(map[model.Category]struct{}, len(c.DefensiveCategories))
	for _, name := range c.DefensiveCategories {
		out[model.Category(name)] = struct{}{}
	}
	return out
}
