// internal/engine/thresholds.go
package engine

// Policy constants for the insights engine. These values are part of the
// product's guidance policy, not tuning parameters; changing any of them
// changes which recommendations users see.
const (
	// MinReadingsForAnalysis is the floor below which reading analysis
	// returns the insufficient-data variant.
	MinReadingsForAnalysis = 5

	// Morning and evening buckets for dawn phenomenon detection, inclusive
	// local hours.
	MorningStartHour = 5
	MorningEndHour   = 9
	EveningStartHour = 18
	EveningEndHour   = 22

	// DawnGapThreshold is the morning-over-evening average gap, in the
	// reading's unit, that flags a dawn phenomenon pattern.
	DawnGapThreshold = 20.0

	// HighReadingPctThreshold and LowReadingPctThreshold flag frequent
	// out-of-range readings as a share of all readings.
	HighReadingPctThreshold = 30.0
	LowReadingPctThreshold  = 15.0

	// Meal classification thresholds, in grams and kcal.
	HighCarbThresholdGrams   = 60.0
	HighSugarThresholdGrams  = 25.0
	LowProteinThresholdGrams = 15.0
	LowProteinCalorieFloor   = 400.0

	// WalkingBreakpointMinutes splits the dailyWalking factor into the
	// "0-30" and "30+" buckets. The bucket labels must match the authored
	// rule vocabulary exactly; matching is by value equality.
	WalkingBreakpointMinutes = 30
)

// WildcardValue in a rule's condition set matches any input value for that
// factor.
const WildcardValue = "Any"

const (
	MealBalanceHighCarb  = "high_carb"
	MealBalanceBalanced  = "balanced"
	SugarContentHigh     = "high"
	SugarContentModerate = "moderate"
)

var (
	// highGlycemicMarkers flags foods likely to spike blood glucose.
	highGlycemicMarkers = []string{"soda", "candy", "cake", "sugar", "syrup", "donut"}

	// lowNutrientMarkers flags low nutrient density foods.
	lowNutrientMarkers = []string{"processed", "fried", "chips"}

	// numericFactors maps questionnaire factors carrying numeric answers to
	// their bucketing breakpoint. Everything else is categorical.
	numericFactors = map[string]float64{
		"dailyWalking": WalkingBreakpointMinutes,
	}
)
