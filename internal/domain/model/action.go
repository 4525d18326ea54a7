package model

// PerformanceAction is one discrete in-match event recorded against a
// player within a report. Mutable until the report is finalized.
type PerformanceAction struct {
	// ActionNumber is a 1-based sequence unique within a report. The
	// store keeps it contiguous across inserts, deletes and reorders.
	// It is a display/identity concern only; aggregation ignores it.
	ActionNumber int

	// Minute is the match clock in minutes.seconds encoding (e.g. 45.30
	// is 45 minutes 30 seconds). Non-negative.
	Minute float64

	RawScore    Score // absent when the reporter left it blank
	ActionType  string
	Description string
	Zone        Zone // absent when no pitch location was recorded

	// IsSuccessful defaults to true for newly recorded actions.
	IsSuccessful bool
}

// NewPerformanceAction returns an action with the reporter defaults applied.
func NewPerformanceAction(actionType, description string) PerformanceAction {
	return PerformanceAction{
		ActionType:   actionType,
		Description:  description,
		IsSuccessful: true,
	}
}

// AdjustedAction is a PerformanceAction annotated with its resolved
// taxonomy position and zone/outcome-adjusted score. Derived, never
// persisted.
type AdjustedAction struct {
	PerformanceAction

	ResolvedCategory    Category
	ResolvedSubcategory string
	AdjustedScore       Score // absent when the no-op branch applies
}

// EffectiveScore returns the adjusted score when defined, else the raw
// score. This is the value aggregation feeds into adjusted totals.
func (a AdjustedAction) EffectiveScore() Score {
	if a.AdjustedScore.Valid() {
		return a.AdjustedScore
	}
	return a.RawScore
}
