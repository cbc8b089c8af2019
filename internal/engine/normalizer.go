// internal/engine/normalizer.go
package engine

import (
	"fmt"
	"strconv"
	"strings"

	"glycolog/internal/models"
)

// Normalize maps raw questionnaire answers into the fixed bucket vocabulary
// used by the rule table. Numeric factors are bucketed by their breakpoint;
// categorical answers are trimmed and lowercased. Factors with missing or
// unusable answers are omitted rather than defaulted, so the matcher treats
// them as wildcards instead of producing false negatives on incomplete
// questionnaires.
func Normalize(raw map[string]any) models.ConditionSet {
	conditions := make(models.ConditionSet, len(raw))

	for factor, value := range raw {
		if breakpoint, ok := numericFactors[factor]; ok {
			n, ok := toNumber(value)
			if !ok {
				continue
			}
			conditions[factor] = bucketLabel(n, breakpoint)
			continue
		}

		s, ok := toCategorical(value)
		if !ok || s == "" {
			continue
		}
		conditions[factor] = s
	}

	return conditions
}

// bucketLabel renders the authored bucket vocabulary for a numeric factor,
// e.g. breakpoint 30 yields "0-30" or "30+".
func bucketLabel(value, breakpoint float64) string {
	if value < breakpoint {
		return fmt.Sprintf("0-%d", int(breakpoint))
	}
	return fmt.Sprintf("%d+", int(breakpoint))
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func toCategorical(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v)), true
	case bool:
		if v {
			return "yes", true
		}
		return "no", true
	default:
		return "", false
	}
}
