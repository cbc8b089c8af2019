// internal/engine/meals_test.go
package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glycolog/internal/models"
)

func ptr(v float64) *float64 { return &v }

func TestAnalyzeMeal_KeywordClassification(t *testing.T) {
	items := []models.MealItem{
		{Name: "Soda", Carbs: ptr(40)},
		{Name: "Grilled Chicken", Protein: ptr(30)},
	}

	result := AnalyzeMeal(items)

	assert.Equal(t, []string{"Soda"}, result.Concerns.HighGlycemicFoods)
	assert.Equal(t, []string{}, result.Concerns.LowNutrientFoods)
	assert.Empty(t, result.Error)
}

func TestAnalyzeMeal_ItemCanMatchBothMarkerSets(t *testing.T) {
	items := []models.MealItem{
		{Name: "Fried sugar donut"},
		{Name: "Fried chips"},
	}

	result := AnalyzeMeal(items)

	assert.Equal(t, []string{"Fried sugar donut"}, result.Concerns.HighGlycemicFoods)
	// Duplicate marker hits on one name are collected once per list, but
	// multiple matching items all appear.
	assert.Equal(t, []string{"Fried sugar donut", "Fried chips"}, result.Concerns.LowNutrientFoods)
}

func TestAnalyzeMeal_MacroTotals(t *testing.T) {
	items := []models.MealItem{
		{Name: "Rice", Carbs: ptr(45), Protein: ptr(4), Calories: ptr(200)},
		{Name: "Beans", Carbs: ptr(20), Protein: ptr(8), Fat: ptr(1), Calories: ptr(120)},
	}

	result := AnalyzeMeal(items)

	assert.Equal(t, 65.0, result.Summary.TotalCarbs)
	assert.Equal(t, 12.0, result.Summary.TotalProtein)
	assert.Equal(t, 1.0, result.Summary.TotalFat)
	assert.Equal(t, 0.0, result.Summary.TotalSugar)
	assert.Equal(t, 320.0, result.Summary.TotalCalories)
	assert.Equal(t, MealBalanceHighCarb, result.Summary.MealBalance)
	assert.Equal(t, SugarContentModerate, result.Summary.SugarContent)
}

func TestAnalyzeMeal_NilMacrosDoNotPanic(t *testing.T) {
	items := []models.MealItem{
		{Name: "Mystery leftovers"},
	}

	var result models.MealAnalysisResult
	require.NotPanics(t, func() {
		result = AnalyzeMeal(items)
	})

	assert.Equal(t, 0.0, result.Summary.TotalCarbs)
	assert.Equal(t, 0.0, result.Summary.TotalCalories)
	assert.Equal(t, MealBalanceBalanced, result.Summary.MealBalance)
	assert.Empty(t, result.Error)
}

func TestAnalyzeMeal_RecommendationEmissionOrder(t *testing.T) {
	items := []models.MealItem{
		{Name: "Soda", Carbs: ptr(45), Sugar: ptr(40), Calories: ptr(150)},
		{Name: "White rice", Carbs: ptr(50), Protein: ptr(4), Calories: ptr(300)},
	}

	result := AnalyzeMeal(items)

	// High glycemic first, then high carb, then low protein.
	require.Len(t, result.Recommendations, 3)
	assert.Equal(t, "High glycemic foods in this meal", result.Recommendations[0].Title)
	assert.Equal(t, models.PriorityHigh, result.Recommendations[0].Priority)
	assert.Equal(t, "High carbohydrate meal", result.Recommendations[1].Title)
	assert.Equal(t, models.PriorityMedium, result.Recommendations[1].Priority)
	assert.Equal(t, "Low protein for meal size", result.Recommendations[2].Title)
	assert.Equal(t, models.PriorityMedium, result.Recommendations[2].Priority)

	assert.Equal(t, SugarContentHigh, result.Summary.SugarContent)
}

func TestAnalyzeMeal_ThresholdBoundaries(t *testing.T) {
	// Exactly 60g carbs and 25g sugar are not over threshold.
	items := []models.MealItem{
		{Name: "Pasta", Carbs: ptr(60), Sugar: ptr(25), Protein: ptr(20), Calories: ptr(500)},
	}

	result := AnalyzeMeal(items)

	assert.Equal(t, MealBalanceBalanced, result.Summary.MealBalance)
	assert.Equal(t, SugarContentModerate, result.Summary.SugarContent)
	assert.Empty(t, result.Recommendations)
}

func TestAnalyzeMeal_LowProteinNeedsCalorieFloor(t *testing.T) {
	// Low protein alone is not flagged in a small meal.
	small := AnalyzeMeal([]models.MealItem{
		{Name: "Toast", Carbs: ptr(20), Protein: ptr(3), Calories: ptr(150)},
	})
	assert.Empty(t, small.Recommendations)

	large := AnalyzeMeal([]models.MealItem{
		{Name: "Plain noodles", Carbs: ptr(55), Protein: ptr(5), Calories: ptr(450)},
	})
	require.Len(t, large.Recommendations, 1)
	assert.Equal(t, "Low protein for meal size", large.Recommendations[0].Title)
}

func TestAnalyzeMeal_EmptyItems(t *testing.T) {
	result := AnalyzeMeal(nil)

	assert.Empty(t, result.Error)
	assert.Equal(t, MealBalanceBalanced, result.Summary.MealBalance)
	assert.Empty(t, result.Recommendations)
	assert.Equal(t, []string{}, result.Concerns.HighGlycemicFoods)
}

func TestAnalyzeMeal_Idempotent(t *testing.T) {
	items := []models.MealItem{
		{Name: "Soda", Carbs: ptr(40), Sugar: ptr(39)},
		{Name: "Fried chicken", Protein: ptr(25), Fat: ptr(20), Calories: ptr(420)},
	}

	first := AnalyzeMeal(items)
	second := AnalyzeMeal(items)
	assert.Equal(t, first, second)
}
