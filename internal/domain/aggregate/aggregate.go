// Package aggregate normalizes raw and adjusted action scores into
// per-90-minutes report metrics.
package aggregate

import (
	"math"

	"github.com/pitchmark/pitchmark/internal/domain/model"
)

// per90Decimals is the fixed rounding for every per-90 projection.
const per90Decimals = 3

// matchLength is the normalization basis in minutes.
const matchLength = 90.0

// Per90 is the single generic per-90 projection shared by every tracked
// statistic: (v / minutesPlayed) * 90, rounded to 3 decimal places.
// Absent when minutesPlayed is zero or negative, or v is not finite.
// Never a divide-by-zero value, never an error.
func Per90(v, minutesPlayed float64) model.Score {
	if minutesPlayed <= 0 {
		return model.AbsentScore()
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return model.AbsentScore()
	}
	return model.NewScore(roundTo(v/minutesPlayed*matchLength, per90Decimals))
}

// Aggregator computes report-level metrics from an action set. Stateless;
// aggregation is order-independent and never reads ActionNumber.
type Aggregator struct{}

// New constructs an Aggregator.
func New() *Aggregator { return &Aggregator{} }

// Aggregate derives ReportMetrics from the actions and minutes played.
// Absent raw scores contribute 0 to totals; minutesPlayed <= 0 degrades
// every per-90 metric to absent rather than erroring.
func (a *Aggregator) Aggregate(actions []model.AdjustedAction, minutesPlayed float64) model.ReportMetrics {
	m := model.ReportMetrics{ActionCount: len(actions)}

	chainTotal := 0.0
	chainSeen := false
	for _, act := range actions {
		raw := act.RawScore.Or(0)
		m.TotalRawScore += raw
		m.TotalAdjustedScore += act.EffectiveScore().Or(0)

		// Positive-score chain: strictly positive entries only, zero and
		// negative excluded rather than clamped.
		if act.RawScore.Valid() && raw > 0 {
			chainTotal += raw
			chainSeen = true
		}
	}

	m.R90Score = Per90(m.TotalRawScore, minutesPlayed)

	// A chain with no positive entries is absent, not zero: the two
	// drive different display states downstream.
	if chainSeen {
		m.ChainTotal = model.NewScore(chainTotal)
		m.ChainPer90 = Per90(chainTotal, minutesPlayed)
	}

	return m
}

// ProjectStats applies the shared per-90 projection to a typed stat
// dictionary. Non-finite raw values become absent lines; the raw side is
// always echoed back when finite so callers can render both columns.
func (a *Aggregator) ProjectStats(stats map[model.StatKey]float64, minutesPlayed float64) map[model.StatKey]model.StatLine {
	if len(stats) == 0 {
		return nil
	}
	out := make(map[model.StatKey]model.StatLine, len(stats))
	for key, v := range stats {
		out[key] = model.StatLine{
			Raw:   model.NewScore(v),
			Per90: Per90(v, minutesPlayed),
		}
	}
	return out
}

// roundTo rounds half away from zero at the given decimal place.
func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
