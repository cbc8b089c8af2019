// internal/storage/sqlite_test.go
package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glycolog/internal/models"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestReadingRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	now := time.Now().UTC().Truncate(time.Second)

	reading := &models.Reading{
		ID:        "r1",
		UserID:    "user-1",
		Value:     120,
		Unit:      "mg/dL",
		Type:      models.ReadingFasting,
		Timestamp: now,
		CreatedAt: now,
		Source:    "manual",
	}
	require.NoError(t, s.SaveReading(reading))

	readings, err := s.GetReadings("user-1", 10)
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Equal(t, *reading, readings[0])

	readings, err = s.GetReadings("someone-else", 10)
	require.NoError(t, err)
	assert.Empty(t, readings)
}

func TestMealRoundTripWithNilMacros(t *testing.T) {
	s := newTestStorage(t)
	now := time.Now().UTC().Truncate(time.Second)
	carbs := 40.0

	meal := &models.Meal{
		ID:        "m1",
		UserID:    "user-1",
		Name:      "Lunch",
		Timestamp: now,
		CreatedAt: now,
		Source:    "manual",
		Items: []models.MealItem{
			{Name: "Soda", Quantity: 1, Unit: "can", Carbs: &carbs},
			{Name: "Mystery side", Quantity: 1, Unit: "serving"},
		},
	}
	require.NoError(t, s.SaveMeal(meal))

	meals, err := s.GetMeals("user-1", 10)
	require.NoError(t, err)
	require.Len(t, meals, 1)
	require.Len(t, meals[0].Items, 2)

	require.NotNil(t, meals[0].Items[0].Carbs)
	assert.Equal(t, 40.0, *meals[0].Items[0].Carbs)
	// Missing macros come back as nil, not zero.
	assert.Nil(t, meals[0].Items[1].Carbs)
	assert.Nil(t, meals[0].Items[1].Protein)
}

func TestRuleSeedAndLoad(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.SeedRules(DefaultRules()))
	rules, err := s.LoadRules()
	require.NoError(t, err)
	assert.Len(t, rules, len(DefaultRules()))

	// Seeding again is a no-op.
	require.NoError(t, s.SeedRules(DefaultRules()))
	rules, err = s.LoadRules()
	require.NoError(t, err)
	assert.Len(t, rules, len(DefaultRules()))

	for _, rule := range rules {
		assert.NotEmpty(t, rule.Conditions, "rule %s lost its conditions", rule.ID)
	}
}

func TestTargetRangeDefaultAndUpsert(t *testing.T) {
	s := newTestStorage(t)

	target, err := s.GetTargetRange("user-1")
	require.NoError(t, err)
	assert.Equal(t, models.TargetRange{Min: 70, Max: 180}, target)

	require.NoError(t, s.SetTargetRange("user-1", models.TargetRange{Min: 80, Max: 160}))
	target, err = s.GetTargetRange("user-1")
	require.NoError(t, err)
	assert.Equal(t, models.TargetRange{Min: 80, Max: 160}, target)

	err = s.SetTargetRange("user-1", models.TargetRange{Min: 200, Max: 100})
	assert.Error(t, err)
}

func TestSaveMatchResult(t *testing.T) {
	s := newTestStorage(t)

	result := &models.MatchResult{
		ID:         "mr1",
		UserID:     "user-1",
		Category:   models.CategoryPatient,
		Conditions: models.ConditionSet{"carbMeals": "often"},
		Matched:    true,
		RuleID:     "patient-carb-heavy",
		Title:      "Rebalance your plate",
		CreatedAt:  time.Now().UTC(),
	}
	assert.NoError(t, s.SaveMatchResult(result))
}
