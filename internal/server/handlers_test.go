// internal/server/handlers_test.go
package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glycolog/internal/models"
)

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &Config{
		Host:          "127.0.0.1",
		Port:          0,
		DBPath:        filepath.Join(t.TempDir(), "test.db"),
		RatePerSecond: 1000,
		RateBurst:     1000,
	}

	srv, err := NewServer(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { srv.storage.Close() })

	return srv, srv.setupRouter()
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	_, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalyzeReadingsEndpoint(t *testing.T) {
	_, router := newTestServer(t)

	readings := make([]map[string]any, 0, 5)
	for i := 0; i < 5; i++ {
		readings = append(readings, map[string]any{
			"value":     100,
			"unit":      "mg/dL",
			"timestamp": fmt.Sprintf("2025-06-10T1%d:00:00Z", i),
		})
	}

	rec := postJSON(t, router, "/api/analysis/readings", map[string]any{
		"readings": readings,
		"target":   map[string]any{"min": 70, "max": 180},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.InsufficientData)
	assert.Equal(t, 100.0, result.Statistics.Average)
	assert.Equal(t, 100.0, result.Statistics.TimeInRange)
}

func TestAnalyzeReadingsEndpoint_InvalidTarget(t *testing.T) {
	_, router := newTestServer(t)

	rec := postJSON(t, router, "/api/analysis/readings", map[string]any{
		"readings": []any{},
		"target":   map[string]any{"min": 200, "max": 100},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeMealEndpoint(t *testing.T) {
	_, router := newTestServer(t)

	rec := postJSON(t, router, "/api/analysis/meal", map[string]any{
		"items": []map[string]any{
			{"name": "Soda", "carbs": 40},
			{"name": "Grilled Chicken", "protein": 30},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.MealAnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, []string{"Soda"}, result.Concerns.HighGlycemicFoods)
	assert.Empty(t, result.Concerns.LowNutrientFoods)
}

func TestMatchRecommendationEndpoint(t *testing.T) {
	srv, router := newTestServer(t)
	srv.setRules([]models.Rule{
		{
			ID:         "patient-wildcard",
			Category:   models.CategoryPatient,
			Conditions: models.ConditionSet{"carbMeals": "Any"},
			Title:      "General guidance",
		},
	})

	rec := postJSON(t, router, "/api/recommendations/match", map[string]any{
		"user_id":  "user-1",
		"category": "patient",
		"answers":  map[string]any{"carbMeals": "often"},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Matched bool         `json:"matched"`
		Rule    *models.Rule `json:"rule"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Matched)
	require.NotNil(t, resp.Rule)
	assert.Equal(t, "patient-wildcard", resp.Rule.ID)
}

func TestMatchRecommendationEndpoint_InvalidCategory(t *testing.T) {
	_, router := newTestServer(t)

	rec := postJSON(t, router, "/api/recommendations/match", map[string]any{
		"category": "wizard",
		"answers":  map[string]any{},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogReadingAndOverview(t *testing.T) {
	_, router := newTestServer(t)

	for i := 0; i < 5; i++ {
		rec := postJSON(t, router, "/api/users/user-1/readings", map[string]any{
			"value": 100 + i,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users/user-1/overview", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var report models.HealthReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.False(t, report.Readings.InsufficientData)
	assert.Equal(t, 5, report.Readings.Statistics.ReadingCount)
}
