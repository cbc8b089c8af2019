// internal/engine/meals.go
package engine

import (
	"fmt"
	"strings"

	"glycolog/internal/models"
)

// AnalyzeMeal aggregates macro totals across a meal's items and flags
// diabetic concerns by keyword and threshold heuristics. Missing macro fields
// count as zero. Any internal panic is recovered into a zeroed result with
// the Error field set; meal analysis never crashes the caller.
func AnalyzeMeal(items []models.MealItem) (result models.MealAnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			result = zeroedMealResult(fmt.Sprintf("meal analysis failed: %v", r))
		}
	}()

	var totalCarbs, totalProtein, totalFat, totalSugar, totalCalories float64
	highGlycemic := []string{}
	lowNutrient := []string{}

	for _, item := range items {
		totalCarbs += orZero(item.Carbs)
		totalProtein += orZero(item.Protein)
		totalFat += orZero(item.Fat)
		totalSugar += orZero(item.Sugar)
		totalCalories += orZero(item.Calories)

		name := strings.ToLower(item.Name)
		if matchesAny(name, highGlycemicMarkers) {
			highGlycemic = append(highGlycemic, item.Name)
		}
		if matchesAny(name, lowNutrientMarkers) {
			lowNutrient = append(lowNutrient, item.Name)
		}
	}

	balance := MealBalanceBalanced
	if totalCarbs > HighCarbThresholdGrams {
		balance = MealBalanceHighCarb
	}
	sugarContent := SugarContentModerate
	if totalSugar > HighSugarThresholdGrams {
		sugarContent = SugarContentHigh
	}

	recommendations := []models.Recommendation{}

	if len(highGlycemic) > 0 {
		recommendations = append(recommendations, models.Recommendation{
			Priority:        models.PriorityHigh,
			Title:           "High glycemic foods in this meal",
			Description:     fmt.Sprintf("These items tend to spike blood sugar: %s.", strings.Join(highGlycemic, ", ")),
			SuggestedAction: "Consider lower glycemic swaps or smaller portions for these items.",
		})
	}

	if totalCarbs > HighCarbThresholdGrams {
		recommendations = append(recommendations, models.Recommendation{
			Priority:        models.PriorityMedium,
			Title:           "High carbohydrate meal",
			Description:     fmt.Sprintf("This meal totals %.0fg of carbohydrates.", totalCarbs),
			SuggestedAction: "Pair carbohydrates with protein or fiber to slow glucose absorption.",
		})
	}

	if totalProtein < LowProteinThresholdGrams && totalCalories > LowProteinCalorieFloor {
		recommendations = append(recommendations, models.Recommendation{
			Priority:        models.PriorityMedium,
			Title:           "Low protein for meal size",
			Description:     fmt.Sprintf("Only %.0fg of protein in a %.0f calorie meal.", totalProtein, totalCalories),
			SuggestedAction: "Add a protein source to improve satiety and glucose response.",
		})
	}

	return models.MealAnalysisResult{
		Summary: models.NutritionalSummary{
			TotalCarbs:    totalCarbs,
			TotalProtein:  totalProtein,
			TotalFat:      totalFat,
			TotalSugar:    totalSugar,
			TotalCalories: totalCalories,
			MealBalance:   balance,
			SugarContent:  sugarContent,
		},
		Concerns: models.DiabeticConcerns{
			HighGlycemicFoods: highGlycemic,
			LowNutrientFoods:  lowNutrient,
		},
		Recommendations: recommendations,
	}
}

func zeroedMealResult(errMsg string) models.MealAnalysisResult {
	return models.MealAnalysisResult{
		Summary: models.NutritionalSummary{
			MealBalance:  MealBalanceBalanced,
			SugarContent: SugarContentModerate,
		},
		Concerns: models.DiabeticConcerns{
			HighGlycemicFoods: []string{},
			LowNutrientFoods:  []string{},
		},
		Recommendations: []models.Recommendation{},
		Error:           errMsg,
	}
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func matchesAny(name string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}
