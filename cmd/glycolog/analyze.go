// cmd/glycolog/analyze.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"glycolog/internal/engine"
	"glycolog/internal/models"
	"glycolog/internal/storage"
)

var (
	analyzeUser   string
	analyzeDBPath string
	analyzeLimit  int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a one-shot analysis for a user and print the report",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeUser, "user", "", "User ID to analyze")
	analyzeCmd.Flags().StringVar(&analyzeDBPath, "db-path", "glycolog.db", "Database path")
	analyzeCmd.Flags().IntVar(&analyzeLimit, "limit", 100, "Maximum readings to include")
	_ = analyzeCmd.MarkFlagRequired("user")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	stor, err := storage.NewSQLiteStorage(analyzeDBPath)
	if err != nil {
		return err
	}
	defer stor.Close()

	readings, err := stor.GetReadings(analyzeUser, analyzeLimit)
	if err != nil {
		return fmt.Errorf("failed to load readings: %w", err)
	}
	meals, err := stor.GetMeals(analyzeUser, 1)
	if err != nil {
		return fmt.Errorf("failed to load meals: %w", err)
	}
	target, err := stor.GetTargetRange(analyzeUser)
	if err != nil {
		return fmt.Errorf("failed to load target range: %w", err)
	}

	var items []models.MealItem
	if len(meals) > 0 {
		items = meals[0].Items
	}

	report := engine.AnalyzeHealth(readings, target, items)
	cmd.Print(engine.FormatReport(report))
	return nil
}
