// internal/models/rule.go
package models

import "time"

type Category string

const (
	CategoryNonPatient Category = "non_patient"
	CategoryAtRisk     Category = "at_risk"
	CategoryPatient    Category = "patient"
)

// ConditionSet maps questionnaire factor names to normalized bucket values,
// e.g. {"dailyWalking": "0-30", "sugaryDrinks": "yes"}. Factors the user did
// not answer are simply absent.
type ConditionSet map[string]string

// Rule is an authored guidance message selected by matching its condition set
// against a user's normalized questionnaire answers. Rules are static at
// runtime and loaded once per process (load once, match many).
type Rule struct {
	ID         string       `json:"id"`
	Category   Category     `json:"category"`
	Conditions ConditionSet `json:"conditions"`
	Title      string       `json:"title"`
	Summary    string       `json:"summary"`
	Order      int          `json:"order"`
}

// MatchResult is an immutable snapshot of a rule match: which rule fired and
// the exact condition set it was matched against, kept for audit and
// reproducibility.
type MatchResult struct {
	ID         string       `json:"id"`
	UserID     string       `json:"user_id"`
	Category   Category     `json:"category"`
	Conditions ConditionSet `json:"conditions"`
	Matched    bool         `json:"matched"`
	RuleID     string       `json:"rule_id,omitempty"`
	Title      string       `json:"title,omitempty"`
	Summary    string       `json:"summary,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}
