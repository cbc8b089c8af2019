// internal/models/health.go
package models

import (
	"time"
)

type ReadingType string

const (
	ReadingFasting   ReadingType = "fasting"
	ReadingAfterMeal ReadingType = "after_meal"
	ReadingBedtime   ReadingType = "bedtime"
	ReadingRandom    ReadingType = "random"
)

// Reading is a single timestamped glucose measurement. Readings are never
// mutated after being recorded; corrections are logged as new readings.
type Reading struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Value     float64     `json:"value"`
	Unit      string      `json:"unit"`
	Type      ReadingType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	CreatedAt time.Time   `json:"created_at"`
	Source    string      `json:"source"` // "manual", "device_import"
}

// TargetRange is the per-user glucose band used for time-in-range and
// threshold classification.
type TargetRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (t TargetRange) Valid() bool {
	return t.Min < t.Max
}

type Meal struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Name      string     `json:"name"`
	Timestamp time.Time  `json:"timestamp"`
	Items     []MealItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	Source    string     `json:"source"` // "manual", "ai_parsed"
}

// MealItem is a single logged food entry. Macro fields are optional; nil
// means the value was not captured and is treated as zero during analysis.
type MealItem struct {
	Name     string   `json:"name"`
	Quantity float64  `json:"quantity"`
	Unit     string   `json:"unit"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
	Sugar    *float64 `json:"sugar,omitempty"`
	Calories *float64 `json:"calories,omitempty"`
}
