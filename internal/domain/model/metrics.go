package model

// StatKey names a tracked statistic in the per-minute stat dictionary.
type StatKey string

// StatLine pairs a statistic's raw value with its per-90 projection.
// Either side may be absent; absent is distinct from zero.
type StatLine struct {
	Raw   Score
	Per90 Score
}

// ReportMetrics is the derived report-level view. It is recomputed on
// demand from the action set and minutes played, and must always be
// reproducible bit-for-bit from those inputs.
type ReportMetrics struct {
	TotalRawScore      float64
	TotalAdjustedScore float64

	// R90Score is the raw total normalized to 90 minutes. Absent when
	// minutes played is zero or negative.
	R90Score Score

	// ChainTotal sums only strictly positive raw scores. Absent when no
	// positive entries exist (not zero: the two drive different display
	// states downstream).
	ChainTotal  Score
	ChainPer90  Score
	PerMinute   map[StatKey]StatLine
	ActionCount int
}
