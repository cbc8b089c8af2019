// internal/server/mcp.go
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"glycolog/internal/engine"
	"glycolog/internal/models"
)

type LogReadingParams struct {
	UserID    string  `json:"user_id" description:"User the reading belongs to"`
	Value     float64 `json:"value" description:"Glucose value"`
	Unit      string  `json:"unit,omitempty" description:"Unit, defaults to mg/dL"`
	Type      string  `json:"type,omitempty" description:"Reading type: fasting, after_meal, bedtime, random"`
	Timestamp string  `json:"timestamp,omitempty" description:"ISO timestamp of the reading (defaults to now)"`
}

type AnalyzeReadingsParams struct {
	UserID string  `json:"user_id" description:"User whose readings to analyze"`
	Limit  int     `json:"limit,omitempty" description:"Maximum readings to include (defaults to 100)"`
	Min    float64 `json:"min,omitempty" description:"Target range minimum (defaults to the user's configured range)"`
	Max    float64 `json:"max,omitempty" description:"Target range maximum"`
}

type AnalyzeMealParams struct {
	Items []models.MealItem `json:"items" description:"Meal items with optional macro totals"`
}

type MatchRecommendationParams struct {
	UserID   string         `json:"user_id,omitempty" description:"User to record the match for"`
	Category string         `json:"category" description:"User category: non_patient, at_risk or patient"`
	Answers  map[string]any `json:"answers" description:"Raw questionnaire answers keyed by factor name"`
}

// extractParams safely extracts parameters from the request arguments.
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("failed to unmarshal parameters: %w", err)
	}

	return nil
}

// handleMCP dispatches MCP tool calls over HTTP to the engine, mirroring the
// REST surface for chat clients.
func (s *Server) handleMCP(c *gin.Context) {
	var request protocol.CallToolRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid JSON: %v", err)})
		return
	}

	var result *protocol.CallToolResult
	var err error

	switch request.Name {
	case "log_reading":
		result, err = s.toolLogReading(&request)
	case "analyze_readings":
		result, err = s.toolAnalyzeReadings(&request)
	case "analyze_meal":
		result, err = s.toolAnalyzeMeal(&request)
	case "match_recommendation":
		result, err = s.toolMatchRecommendation(&request)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown tool: %s", request.Name)})
		return
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) toolLogReading(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params LogReadingParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if params.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	now := time.Now().UTC()
	timestamp := now
	if params.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, params.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp format: %w", err)
		}
		timestamp = parsed
	}

	unit := params.Unit
	if unit == "" {
		unit = "mg/dL"
	}
	readingType := models.ReadingType(params.Type)
	if readingType == "" {
		readingType = models.ReadingRandom
	}

	reading := &models.Reading{
		ID:        uuid.NewString(),
		UserID:    params.UserID,
		Value:     params.Value,
		Unit:      unit,
		Type:      readingType,
		Timestamp: timestamp,
		CreatedAt: now,
		Source:    "manual",
	}

	if err := s.storage.SaveReading(reading); err != nil {
		return nil, fmt.Errorf("failed to save reading: %w", err)
	}

	return createJSONResponse(reading)
}

func (s *Server) toolAnalyzeReadings(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params AnalyzeReadingsParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if params.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	if params.Limit <= 0 {
		params.Limit = 100
	}

	readings, err := s.storage.GetReadings(params.UserID, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve readings: %w", err)
	}

	target := models.TargetRange{Min: params.Min, Max: params.Max}
	if !target.Valid() {
		target, err = s.storage.GetTargetRange(params.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to load target range: %w", err)
		}
	}

	return createJSONResponse(engine.AnalyzeReadings(readings, target))
}

func (s *Server) toolAnalyzeMeal(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params AnalyzeMealParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	return createJSONResponse(engine.AnalyzeMeal(params.Items))
}

func (s *Server) toolMatchRecommendation(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params MatchRecommendationParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	category := models.Category(params.Category)
	if !validCategory(category) {
		return nil, fmt.Errorf("category must be non_patient, at_risk or patient")
	}

	conditions := engine.Normalize(params.Answers)
	rule := engine.Match(category, conditions, s.rules)

	result := &models.MatchResult{
		ID:         uuid.NewString(),
		UserID:     params.UserID,
		Category:   category,
		Conditions: conditions,
		Matched:    rule != nil,
		CreatedAt:  time.Now().UTC(),
	}
	if rule != nil {
		result.RuleID = rule.ID
		result.Title = rule.Title
		result.Summary = rule.Summary
	}

	if err := s.storage.SaveMatchResult(result); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist match result")
	}

	return createJSONResponse(map[string]interface{}{
		"result_id": result.ID,
		"matched":   result.Matched,
		"rule":      rule,
	})
}

func createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
