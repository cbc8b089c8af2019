// internal/engine/synthesizer.go
package engine

import (
	"fmt"
	"sort"
	"strings"

	"glycolog/internal/models"
)

// Synthesize merges recommendation groups from the sub-engines into one list
// ordered high > medium > low. The sort is stable so relative emission order
// within a priority is preserved, and overlapping concerns from different
// engines are deliberately not deduplicated.
func Synthesize(groups ...[]models.Recommendation) []models.Recommendation {
	merged := []models.Recommendation{}
	for _, group := range groups {
		merged = append(merged, group...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return priorityRank(merged[i].Priority) < priorityRank(merged[j].Priority)
	})

	return merged
}

func priorityRank(p models.Priority) int {
	switch p {
	case models.PriorityHigh:
		return 0
	case models.PriorityMedium:
		return 1
	case models.PriorityLow:
		return 2
	default:
		return 3
	}
}

// AnalyzeHealth runs reading and meal analysis together and merges their
// recommendations into a single prioritized list.
func AnalyzeHealth(readings []models.Reading, target models.TargetRange, items []models.MealItem) models.HealthReport {
	readingResult := AnalyzeReadings(readings, target)
	mealResult := AnalyzeMeal(items)

	return models.HealthReport{
		Readings:        readingResult,
		Meal:            mealResult,
		Recommendations: Synthesize(readingResult.Recommendations, mealResult.Recommendations),
	}
}

// FormatReport renders a health report as Markdown for display in chat or
// terminal clients.
func FormatReport(report models.HealthReport) string {
	var builder strings.Builder

	builder.WriteString("# Health Summary\n\n")

	builder.WriteString("## Glucose Readings\n")
	if report.Readings.InsufficientData {
		builder.WriteString(fmt.Sprintf("- **Readings logged:** %d\n", report.Readings.Statistics.ReadingCount))
	} else {
		stats := report.Readings.Statistics
		builder.WriteString(fmt.Sprintf("- **Average:** %.0f (range %.0f-%.0f over %d readings)\n",
			stats.Average, stats.Min, stats.Max, stats.ReadingCount))
		builder.WriteString(fmt.Sprintf("- **Time in range:** %.0f%%\n", stats.TimeInRange))
	}
	builder.WriteString("\n")

	if report.Meal.Error == "" {
		summary := report.Meal.Summary
		builder.WriteString("## Meal Analysis\n")
		builder.WriteString(fmt.Sprintf("- **Carbs:** %.0fg (%s)\n", summary.TotalCarbs, summary.MealBalance))
		builder.WriteString(fmt.Sprintf("- **Sugar:** %.0fg (%s)\n", summary.TotalSugar, summary.SugarContent))
		builder.WriteString(fmt.Sprintf("- **Protein:** %.0fg / **Fat:** %.0fg / **Calories:** %.0f\n",
			summary.TotalProtein, summary.TotalFat, summary.TotalCalories))
		if len(report.Meal.Concerns.HighGlycemicFoods) > 0 {
			builder.WriteString(fmt.Sprintf("- **High glycemic items:** %s\n",
				strings.Join(report.Meal.Concerns.HighGlycemicFoods, ", ")))
		}
		builder.WriteString("\n")
	}

	if len(report.Readings.Insights) > 0 {
		builder.WriteString("## Insights\n")
		for _, insight := range report.Readings.Insights {
			builder.WriteString(fmt.Sprintf("- %s\n", insight))
		}
		builder.WriteString("\n")
	}

	if len(report.Recommendations) > 0 {
		builder.WriteString("## Recommendations\n")
		for _, rec := range report.Recommendations {
			builder.WriteString(fmt.Sprintf("- **[%s] %s**: %s\n", rec.Priority, rec.Title, rec.Description))
			if rec.SuggestedAction != "" {
				builder.WriteString(fmt.Sprintf("  *Suggestion:* %s\n", rec.SuggestedAction))
			}
		}
	}

	return builder.String()
}
