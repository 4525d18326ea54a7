package model

// Category is a rating taxonomy grouping for comparable actions.
type Category string

// Categories produced by the fallback classifier. Stored mappings may
// reference any catalog category, including ones not listed here.
const (
	CategoryPressing         Category = "Pressing"
	CategoryDefensive        Category = "Defensive"
	CategoryAerialDuels      Category = "Aerial Duels"
	CategoryAttackingCrosses Category = "Attacking Crosses"
	CategoryOnBallDecisions  Category = "On-Ball Decision-Making"
	CategoryOffBallMovement  Category = "Off-Ball Movement"

	// CategoryAll is the unclassified sentinel. It makes resolution total:
	// no keyword match still yields a category, never an error. It carries
	// no zone-polarity assumption, so adjusted score falls back to raw.
	CategoryAll Category = "all"
)

// Polarity says how a successful outcome should weight an action's value.
type Polarity int

const (
	// PolarityNeutral applies to the unclassified sentinel: no
	// zone/outcome adjustment is defined for it.
	PolarityNeutral Polarity = iota
	PolarityOffensive
	PolarityDefensive
)

// defensiveCategories is the default polarity classification. It can be
// overridden per deployment through configuration.
var defensiveCategories = map[Category]struct{}{
	CategoryPressing:    {},
	CategoryDefensive:   {},
	CategoryAerialDuels: {},
}

// PolarityOf classifies a category using the supplied defensive set.
// A nil set falls back to the default classification.
func PolarityOf(c Category, defensive map[Category]struct{}) Polarity {
	if c == CategoryAll {
		return PolarityNeutral
	}
	if defensive == nil {
		defensive = defensiveCategories
	}
	if _, ok := defensive[c]; ok {
		return PolarityDefensive
	}
	return PolarityOffensive
}

// Polarity classifies the category using the default defensive set.
func (c Category) Polarity() Polarity { return PolarityOf(c, nil) }
