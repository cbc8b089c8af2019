// internal/models/analysis.go
package models

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recommendation is a single piece of actionable guidance produced by the
// analysis engines. Recommendations live only for the analysis call that
// produced them; persisting them is the caller's concern.
type Recommendation struct {
	Priority        Priority `json:"priority"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	SuggestedAction string   `json:"suggested_action,omitempty"`
}

type ReadingStatistics struct {
	ReadingCount int     `json:"reading_count"`
	Average      float64 `json:"average"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	TimeInRange  float64 `json:"time_in_range"`
}

// AnalysisResult bundles reading statistics with the insights and
// recommendations derived from them. InsufficientData marks the degraded
// variant returned when too few readings exist; it is not an error.
type AnalysisResult struct {
	InsufficientData bool              `json:"insufficient_data"`
	Statistics       ReadingStatistics `json:"statistics"`
	Insights         []string          `json:"insights"`
	Recommendations  []Recommendation  `json:"recommendations"`
}

type NutritionalSummary struct {
	TotalCarbs    float64 `json:"total_carbs"`
	TotalProtein  float64 `json:"total_protein"`
	TotalFat      float64 `json:"total_fat"`
	TotalSugar    float64 `json:"total_sugar"`
	TotalCalories float64 `json:"total_calories"`
	MealBalance   string  `json:"meal_balance"`
	SugarContent  string  `json:"sugar_content"`
}

type DiabeticConcerns struct {
	HighGlycemicFoods []string `json:"high_glycemic_foods"`
	LowNutrientFoods  []string `json:"low_nutrient_foods"`
}

// MealAnalysisResult is always well-shaped: on internal failure Error is set
// and every other field carries a safe zero value.
type MealAnalysisResult struct {
	Summary         NutritionalSummary `json:"nutritional_summary"`
	Concerns        DiabeticConcerns   `json:"diabetic_concerns"`
	Recommendations []Recommendation   `json:"recommendations"`
	Error           string             `json:"error,omitempty"`
}

// HealthReport is the combined output of reading and meal analysis with one
// merged, priority-ordered recommendation list.
type HealthReport struct {
	Readings        AnalysisResult     `json:"readings"`
	Meal            MealAnalysisResult `json:"meal"`
	Recommendations []Recommendation   `json:"recommendations"`
}
