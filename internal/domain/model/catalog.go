package model

import "strconv"

// BaseScore is a rating's base value. Catalog maintainers may enter a
// number ("0.15") or a symbolic marker ("xG"); both round-trip without
// loss. Symbolic scores have no numeric value and stay absent through
// every derived computation.
type BaseScore struct {
	text    string
	value   float64
	numeric bool
}

// ParseBaseScore builds a BaseScore from the catalog's raw text.
func ParseBaseScore(text string) BaseScore {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return BaseScore{text: text}
	}
	return BaseScore{text: text, value: v, numeric: true}
}

// NumericBaseScore builds a BaseScore from a plain number.
func NumericBaseScore(v float64) BaseScore {
	return BaseScore{text: strconv.FormatFloat(v, 'f', -1, 64), value: v, numeric: true}
}

// Numeric reports whether the base score has a numeric value.
func (b BaseScore) Numeric() bool { return b.numeric }

// Score returns the numeric value as an optional Score.
func (b BaseScore) Score() Score {
	if !b.numeric {
		return AbsentScore()
	}
	return NewScore(b.value)
}

// String returns the original catalog text, e.g. "0.15" or "xG".
func (b BaseScore) String() string { return b.text }

// RatingEntry is one row of the rating taxonomy. Immutable reference
// data maintained outside this core.
type RatingEntry struct {
	ID          string
	Title       string
	Description string
	Category    Category
	Subcategory string // empty means category-level entry
	BaseScore   BaseScore
}

// ActionTypeMapping binds a normalized action-type key to a taxonomy
// position. Several mappings may exist for the same key; resolution
// selects exactly one (see the mapper's priority rule).
//
// Priority and Seq make the selection tie-break explicit: lower Priority
// wins, then lower Seq (insertion order). The original store relied on
// incidental row order for this.
type ActionTypeMapping struct {
	ActionType        string // normalized key
	Category          Category
	Subcategory       string   // empty means category-only mapping
	SelectedRatingIDs []string // ordered, possibly empty
	Priority          int
	Seq               int64
}

// Pinned reports whether the mapping pins specific rating entries.
func (m ActionTypeMapping) Pinned() bool { return len(m.SelectedRatingIDs) > 0 }
