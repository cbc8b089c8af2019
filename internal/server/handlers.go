// internal/server/handlers.go
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"glycolog/internal/engine"
	"glycolog/internal/models"
)

type analyzeReadingsRequest struct {
	Readings []models.Reading   `json:"readings"`
	Target   models.TargetRange `json:"target"`
}

type analyzeMealRequest struct {
	Items []models.MealItem `json:"items"`
}

type matchRequest struct {
	UserID   string          `json:"user_id"`
	Category models.Category `json:"category" binding:"required"`
	Answers  map[string]any  `json:"answers"`
}

type logReadingRequest struct {
	Value     float64            `json:"value" binding:"required"`
	Unit      string             `json:"unit"`
	Type      models.ReadingType `json:"type"`
	Timestamp time.Time          `json:"timestamp"`
}

func (s *Server) handleAnalyzeReadings(c *gin.Context) {
	var req analyzeReadingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if !req.Target.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target range min must be below max"})
		return
	}

	c.JSON(http.StatusOK, engine.AnalyzeReadings(req.Readings, req.Target))
}

func (s *Server) handleAnalyzeMeal(c *gin.Context) {
	var req analyzeMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	c.JSON(http.StatusOK, engine.AnalyzeMeal(req.Items))
}

func (s *Server) handleMatchRecommendation(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if !validCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category must be non_patient, at_risk or patient"})
		return
	}

	conditions := engine.Normalize(req.Answers)
	rule := engine.Match(req.Category, conditions, s.rules)

	result := &models.MatchResult{
		ID:         uuid.NewString(),
		UserID:     req.UserID,
		Category:   req.Category,
		Conditions: conditions,
		Matched:    rule != nil,
		CreatedAt:  time.Now().UTC(),
	}
	if rule != nil {
		result.RuleID = rule.ID
		result.Title = rule.Title
		result.Summary = rule.Summary
	}

	// The snapshot is an audit trail; failing to write it must not block
	// guidance from reaching the user.
	if err := s.storage.SaveMatchResult(result); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist match result")
	}

	c.JSON(http.StatusOK, gin.H{
		"result_id": result.ID,
		"matched":   result.Matched,
		"rule":      rule,
	})
}

func (s *Server) handleLogReading(c *gin.Context) {
	var req logReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	now := time.Now().UTC()
	timestamp := req.Timestamp
	if timestamp.IsZero() {
		timestamp = now
	}
	unit := req.Unit
	if unit == "" {
		unit = "mg/dL"
	}
	readingType := req.Type
	if readingType == "" {
		readingType = models.ReadingRandom
	}

	reading := &models.Reading{
		ID:        uuid.NewString(),
		UserID:    c.Param("id"),
		Value:     req.Value,
		Unit:      unit,
		Type:      readingType,
		Timestamp: timestamp,
		CreatedAt: now,
		Source:    "manual",
	}

	if err := s.storage.SaveReading(reading); err != nil {
		s.logger.Error().Err(err).Msg("failed to save reading")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save reading"})
		return
	}

	c.JSON(http.StatusCreated, reading)
}

func (s *Server) handleLogMeal(c *gin.Context) {
	var meal models.Meal
	if err := c.ShouldBindJSON(&meal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	now := time.Now().UTC()
	meal.ID = uuid.NewString()
	meal.UserID = c.Param("id")
	meal.CreatedAt = now
	if meal.Timestamp.IsZero() {
		meal.Timestamp = now
	}
	if meal.Source == "" {
		meal.Source = "manual"
	}

	if err := s.storage.SaveMeal(&meal); err != nil {
		s.logger.Error().Err(err).Msg("failed to save meal")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save meal"})
		return
	}

	c.JSON(http.StatusCreated, meal)
}

func (s *Server) handleSetTargetRange(c *gin.Context) {
	var target models.TargetRange
	if err := c.ShouldBindJSON(&target); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if err := s.storage.SetTargetRange(c.Param("id"), target); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, target)
}

// handleOverview fetches a user's recent readings and meals concurrently,
// runs the combined analysis and returns the merged report.
func (s *Server) handleOverview(c *gin.Context) {
	userID := c.Param("id")

	var (
		readings []models.Reading
		meals    []*models.Meal
		target   models.TargetRange
	)

	g, _ := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		readings, err = s.storage.GetReadings(userID, 100)
		return err
	})
	g.Go(func() error {
		var err error
		meals, err = s.storage.GetMeals(userID, 1)
		return err
	})
	g.Go(func() error {
		var err error
		target, err = s.storage.GetTargetRange(userID)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load overview data")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load data"})
		return
	}

	var items []models.MealItem
	if len(meals) > 0 {
		items = meals[0].Items
	}

	c.JSON(http.StatusOK, engine.AnalyzeHealth(readings, target, items))
}

func validCategory(category models.Category) bool {
	switch category {
	case models.CategoryNonPatient, models.CategoryAtRisk, models.CategoryPatient:
		return true
	default:
		return false
	}
}

// setRules swaps the in-memory rule snapshot; used by tests that exercise
// match handlers against a known table.
func (s *Server) setRules(rules []models.Rule) {
	s.rules = rules
}
