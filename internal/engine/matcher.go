// internal/engine/matcher.go
package engine

import (
	"strings"

	"glycolog/internal/models"
)

// Match selects the authored rule for a user's category and normalized
// condition set. A rule matches when every factor in its condition set is the
// wildcard, absent from the input, or equal to the input value. Among
// matching rules the one with the most non-wildcard factors actually matched
// wins; ties break on lowest Order. Returns nil when no rule matches, leaving
// the generic fallback message to the caller.
func Match(category models.Category, conditions models.ConditionSet, rules []models.Rule) *models.Rule {
	var best *models.Rule
	bestSpecificity := -1

	for i := range rules {
		rule := &rules[i]
		if rule.Category != category {
			continue
		}

		specificity, ok := matchSpecificity(rule.Conditions, conditions)
		if !ok {
			continue
		}

		if specificity > bestSpecificity || (specificity == bestSpecificity && rule.Order < best.Order) {
			best = rule
			bestSpecificity = specificity
		}
	}

	return best
}

// matchSpecificity reports whether the rule's condition set matches the input
// and how many factors matched exactly (excluding wildcards and factors the
// input omitted).
func matchSpecificity(ruleConditions, input models.ConditionSet) (int, bool) {
	specificity := 0

	for factor, want := range ruleConditions {
		if strings.EqualFold(want, WildcardValue) {
			continue
		}

		got, present := input[factor]
		if !present {
			// Omitted answers match as wildcards but add no specificity.
			continue
		}

		if !strings.EqualFold(strings.TrimSpace(got), strings.TrimSpace(want)) {
			return 0, false
		}
		specificity++
	}

	return specificity, true
}

// NormalizeAndMatch runs questionnaire answers through normalization and rule
// matching in one call.
func NormalizeAndMatch(category models.Category, rawAnswers map[string]any, rules []models.Rule) *models.Rule {
	return Match(category, Normalize(rawAnswers), rules)
}
