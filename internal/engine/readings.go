// internal/engine/readings.go
package engine

import (
	"fmt"

	"glycolog/internal/models"
)

// insufficientDataInsight is the single guidance message returned when too
// few readings exist for meaningful analysis.
const insufficientDataInsight = "Not enough readings to analyze yet. Log at least 5 readings to see trends and recommendations."

// AnalyzeReadings computes descriptive statistics and pattern flags over a
// set of glucose readings against the user's target range. Fewer than
// MinReadingsForAnalysis readings yields the insufficient-data variant rather
// than an error, so callers always get a well-shaped result.
func AnalyzeReadings(readings []models.Reading, target models.TargetRange) models.AnalysisResult {
	if len(readings) < MinReadingsForAnalysis {
		return models.AnalysisResult{
			InsufficientData: true,
			Statistics:       models.ReadingStatistics{ReadingCount: len(readings)},
			Insights:         []string{insufficientDataInsight},
			Recommendations:  []models.Recommendation{},
		}
	}

	var (
		sum      float64
		min      = readings[0].Value
		max      = readings[0].Value
		aboveMax int
		belowMin int
		morning  []float64
		evening  []float64
	)

	for _, r := range readings {
		sum += r.Value
		if r.Value < min {
			min = r.Value
		}
		if r.Value > max {
			max = r.Value
		}
		if r.Value > target.Max {
			aboveMax++
		}
		if r.Value < target.Min {
			belowMin++
		}

		hour := r.Timestamp.Hour()
		if hour >= MorningStartHour && hour <= MorningEndHour {
			morning = append(morning, r.Value)
		}
		if hour >= EveningStartHour && hour <= EveningEndHour {
			evening = append(evening, r.Value)
		}
	}

	total := float64(len(readings))
	average := sum / total
	pctAbove := float64(aboveMax) / total * 100
	pctBelow := float64(belowMin) / total * 100

	stats := models.ReadingStatistics{
		ReadingCount: len(readings),
		Average:      average,
		Min:          min,
		Max:          max,
		TimeInRange:  100 - (pctAbove + pctBelow),
	}

	insights := []string{}
	recommendations := []models.Recommendation{}

	switch {
	case average < target.Min:
		insights = append(insights, fmt.Sprintf("Average reading of %.0f is below your target range (%.0f-%.0f).", average, target.Min, target.Max))
		recommendations = append(recommendations, models.Recommendation{
			Priority:        models.PriorityHigh,
			Title:           "Low average blood sugar",
			Description:     fmt.Sprintf("Your average reading of %.0f is below your target minimum of %.0f.", average, target.Min),
			SuggestedAction: "Review medication dosing and meal timing with your care provider.",
		})
	case average > target.Max:
		insights = append(insights, fmt.Sprintf("Average reading of %.0f is above your target range (%.0f-%.0f).", average, target.Min, target.Max))
		recommendations = append(recommendations, models.Recommendation{
			Priority:        models.PriorityHigh,
			Title:           "High average blood sugar",
			Description:     fmt.Sprintf("Your average reading of %.0f is above your target maximum of %.0f.", average, target.Max),
			SuggestedAction: "Discuss your readings with your care provider and review carbohydrate intake.",
		})
	default:
		insights = append(insights, fmt.Sprintf("Average reading of %.0f is within your target range (%.0f-%.0f).", average, target.Min, target.Max))
	}

	// Dawn phenomenon: compare morning and evening averages only when both
	// buckets have readings; an empty bucket leaves the comparison undefined.
	if len(morning) > 0 && len(evening) > 0 {
		morningAvg := mean(morning)
		eveningAvg := mean(evening)
		if morningAvg > eveningAvg+DawnGapThreshold {
			insights = append(insights, fmt.Sprintf("Morning readings average %.0f versus %.0f in the evening, a pattern consistent with dawn phenomenon.", morningAvg, eveningAvg))
			recommendations = append(recommendations, models.Recommendation{
				Priority:        models.PriorityMedium,
				Title:           "Possible dawn phenomenon",
				Description:     fmt.Sprintf("Your morning readings run %.0f points higher than your evening readings.", morningAvg-eveningAvg),
				SuggestedAction: "Mention this morning pattern to your care provider; timing of medication or evening meals may help.",
			})
		}
	}

	if pctAbove > HighReadingPctThreshold {
		recommendations = append(recommendations, models.Recommendation{
			Priority:        models.PriorityMedium,
			Title:           "Frequent high readings",
			Description:     fmt.Sprintf("%.0f%% of your readings are above your target maximum of %.0f.", pctAbove, target.Max),
			SuggestedAction: "Track which meals precede high readings to spot patterns.",
		})
	}

	if pctBelow > LowReadingPctThreshold {
		recommendations = append(recommendations, models.Recommendation{
			Priority:        models.PriorityHigh,
			Title:           "Frequent low readings",
			Description:     fmt.Sprintf("%.0f%% of your readings are below your target minimum of %.0f.", pctBelow, target.Min),
			SuggestedAction: "Frequent lows can be dangerous; contact your care provider promptly.",
		})
	}

	return models.AnalysisResult{
		Statistics:      stats,
		Insights:        insights,
		Recommendations: recommendations,
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
