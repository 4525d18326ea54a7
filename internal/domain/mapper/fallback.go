package mapper

import (
	"strings"

	"github.com/pitchmark/pitchmark/internal/domain/model"
)

// keywordRule classifies free text into a taxonomy category.
type keywordRule struct {
	keywords []string
	category model.Category
}

// fallbackRules is the ordered keyword classifier used when no stored
// mapping exists for an action type. First match wins; order matters
// ("counter-press" must classify as Pressing, not slip through to a
// later rule).
var fallbackRules = []keywordRule{
	{[]string{"counter-press", "high press", "press"}, model.CategoryPressing},
	{[]string{"tackle", "block", "intercept", "defend", "recovery"}, model.CategoryDefensive},
	{[]string{"aerial", "header", "duel in air"}, model.CategoryAerialDuels},
	{[]string{"cross", "cutback", "delivery"}, model.CategoryAttackingCrosses},
	{[]string{"dribble", "carry", "turn", "1v1", "pass", "shot"}, model.CategoryOnBallDecisions},
	{[]string{"run", "movement", "position", "space", "support"}, model.CategoryOffBallMovement},
}

// classify runs the keyword rules over the action type and description.
// Total: unmatched text yields the unclassified sentinel, never an error.
func classify(actionType, description string) model.Category {
	text := strings.ToLower(actionType + " " + description)
	for _, rule := range fallbackRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.category
			}
		}
	}
	return model.CategoryAll
}
