// Package adjust computes zone- and outcome-weighted action scores.
package adjust

import (
	"fmt"
	"math"

	"github.com/pitchmark/pitchmark/internal/domain/model"
)

// scoreDecimals is the fixed rounding applied to every adjusted score.
// One rule, applied everywhere: repeated computation never drifts.
const scoreDecimals = 5

// Option applies a configuration option to the Adjuster.
type Option func(*Adjuster)

// WithTable installs a validated multiplier table. Invalid tables are
// ignored; construction keeps the unity default and the caller should
// validate configuration up front.
func WithTable(t ZoneMultiplierTable) Option {
	return func(a *Adjuster) {
		if t.Validate() == nil {
			a.table = t
		}
	}
}

// Adjuster is a pure function over (baseScore, zone, successful,
// defensive): no hidden state, same inputs always yield the same output.
type Adjuster struct {
	table ZoneMultiplierTable
}

// New constructs an Adjuster, defaulting to the unity table.
func New(opts ...Option) *Adjuster {
	a := &Adjuster{table: UnityTable()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Table exposes the active multiplier table as data so deployments can
// inspect what the adjuster was configured with.
func (a *Adjuster) Table() ZoneMultiplierTable { return a.table }

// Adjust applies the zone coefficient for the (defensive, successful)
// combination to the base score, rounded to 5 decimal places.
//
// The no-op branch is defined behavior, not an error: an absent zone or
// absent base score returns an absent score, and the caller falls back
// to the unadjusted raw value (rendered "N/A" downstream). A present
// zone outside [1,18] is an input error and is rejected, not clamped.
func (a *Adjuster) Adjust(baseScore model.Score, zone model.Zone, successful, defensive bool) (model.Score, error) {
	if !zone.Valid() || !baseScore.Valid() {
		return model.AbsentScore(), nil
	}
	if !zone.InBounds() {
		return model.AbsentScore(), fmt.Errorf("%w: %d", ErrInvalidZone, zone.Int())
	}

	coef := a.table.Coefficient(zone.Int(), defensive, successful)
	return model.NewScore(roundTo(baseScore.Float64()*coef, scoreDecimals)), nil
}

// roundTo rounds half away from zero at the given decimal place.
func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
