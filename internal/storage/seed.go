// internal/storage/seed.go
package storage

import "glycolog/internal/models"

// DefaultRules is the starter rule table applied to fresh databases. Authored
// rules loaded out-of-band take precedence through their own IDs; seeding is
// INSERT OR IGNORE.
func DefaultRules() []models.Rule {
	return []models.Rule{
		{
			ID:         "non-patient-active",
			Category:   models.CategoryNonPatient,
			Conditions: models.ConditionSet{"dailyWalking": "30+", "sugaryDrinks": "no"},
			Title:      "You're on a healthy track",
			Summary:    "Regular walking and limited sugary drinks keep your glucose risk low. Keep it up.",
			Order:      1,
		},
		{
			ID:         "non-patient-sugary",
			Category:   models.CategoryNonPatient,
			Conditions: models.ConditionSet{"sugaryDrinks": "yes"},
			Title:      "Watch the sugary drinks",
			Summary:    "Cutting back on sugary drinks is one of the most effective ways to reduce your diabetes risk.",
			Order:      2,
		},
		{
			ID:         "non-patient-default",
			Category:   models.CategoryNonPatient,
			Conditions: models.ConditionSet{"dailyWalking": "Any"},
			Title:      "Stay ahead of your health",
			Summary:    "Aim for at least 30 minutes of walking a day and a balanced diet to keep glucose in check.",
			Order:      100,
		},
		{
			ID:         "at-risk-sedentary",
			Category:   models.CategoryAtRisk,
			Conditions: models.ConditionSet{"dailyWalking": "0-30"},
			Title:      "Movement matters most right now",
			Summary:    "With elevated risk factors, building up to 30+ minutes of daily walking makes a measurable difference.",
			Order:      1,
		},
		{
			ID:         "at-risk-family-history",
			Category:   models.CategoryAtRisk,
			Conditions: models.ConditionSet{"familyHistory": "yes", "dailyWalking": "Any"},
			Title:      "Family history means earlier screening",
			Summary:    "Given your family history, discuss regular glucose screening with your doctor.",
			Order:      2,
		},
		{
			ID:         "at-risk-default",
			Category:   models.CategoryAtRisk,
			Conditions: models.ConditionSet{"sugaryDrinks": "Any"},
			Title:      "Small changes, big impact",
			Summary:    "You have some elevated risk factors. Focus on diet and daily activity to bring them down.",
			Order:      100,
		},
		{
			ID:         "patient-carb-heavy",
			Category:   models.CategoryPatient,
			Conditions: models.ConditionSet{"carbMeals": "often"},
			Title:      "Rebalance your plate",
			Summary:    "Frequent carb-heavy meals make glucose management harder. Try pairing carbs with protein and fiber.",
			Order:      1,
		},
		{
			ID:         "patient-active",
			Category:   models.CategoryPatient,
			Conditions: models.ConditionSet{"dailyWalking": "30+"},
			Title:      "Your activity is working for you",
			Summary:    "Daily walking improves insulin sensitivity. Log readings around exercise to see the effect.",
			Order:      2,
		},
		{
			ID:         "patient-default",
			Category:   models.CategoryPatient,
			Conditions: models.ConditionSet{"carbMeals": "Any"},
			Title:      "Track consistently",
			Summary:    "Regular readings before and after meals are the foundation of good glucose management.",
			Order:      100,
		},
	}
}
