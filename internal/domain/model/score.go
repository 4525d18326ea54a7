// Package model contains domain values passed between layers.
package model

import "math"

// Pitch zone bounds. A pitch is divided into 18 location buckets.
const (
	MinZone = 1
	MaxZone = 18
)

// Score is an optional numeric score. The zero value is absent.
// Absent propagates through every derived computation and is distinct
// from 0.000 downstream (it renders as "N/A", not a number).
type Score struct {
	value float64
	valid bool
}

// NewScore returns a present Score. Non-finite values are treated as absent.
func NewScore(v float64) Score {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Score{}
	}
	return Score{value: v, valid: true}
}

// AbsentScore returns an absent Score.
func AbsentScore() Score { return Score{} }

// Valid reports whether the score carries a value.
func (s Score) Valid() bool { return s.valid }

// Float64 returns the numeric value, or 0 when absent.
func (s Score) Float64() float64 {
	if !s.valid {
		return 0
	}
	return s.value
}

// Or returns the score value when present, else the fallback.
func (s Score) Or(fallback float64) float64 {
	if s.valid {
		return s.value
	}
	return fallback
}

// Zone is an optional pitch zone in [MinZone, MaxZone].
// The zero value is absent (no zone recorded for the action).
type Zone struct {
	n     int
	valid bool
}

// NewZone returns a present Zone. Bounds are NOT checked here; the
// adjuster rejects out-of-range zones explicitly rather than clamping.
func NewZone(n int) Zone { return Zone{n: n, valid: true} }

// AbsentZone returns an absent Zone.
func AbsentZone() Zone { return Zone{} }

// Valid reports whether a zone was recorded.
func (z Zone) Valid() bool { return z.valid }

// Int returns the zone number, or 0 when absent.
func (z Zone) Int() int {
	if !z.valid {
		return 0
	}
	return z.n
}

// InBounds reports whether the zone is present and within [MinZone, MaxZone].
func (z Zone) InBounds() bool {
	return z.valid && z.n >= MinZone && z.n <= MaxZone
}
