// internal/storage/sqlite.go
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"glycolog/internal/models"
)

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	storage := &SQLiteStorage{db: db}
	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) Ping() error {
	return s.db.Ping()
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS readings (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        value REAL NOT NULL,
        unit TEXT NOT NULL,
        reading_type TEXT NOT NULL,
        timestamp DATETIME NOT NULL,
        created_at DATETIME NOT NULL,
        source TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS meals (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        name TEXT NOT NULL,
        timestamp DATETIME NOT NULL,
        created_at DATETIME NOT NULL,
        source TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS meal_items (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        meal_id TEXT NOT NULL,
        name TEXT NOT NULL,
        quantity REAL NOT NULL,
        unit TEXT NOT NULL,
        carbs REAL,
        protein REAL,
        fat REAL,
        sugar REAL,
        calories REAL,
        FOREIGN KEY (meal_id) REFERENCES meals(id) ON DELETE CASCADE
    );

    CREATE TABLE IF NOT EXISTS rules (
        id TEXT PRIMARY KEY,
        category TEXT NOT NULL,
        conditions TEXT NOT NULL,
        title TEXT NOT NULL,
        summary TEXT NOT NULL,
        sort_order INTEGER NOT NULL
    );

    CREATE TABLE IF NOT EXISTS target_ranges (
        user_id TEXT PRIMARY KEY,
        min REAL NOT NULL,
        max REAL NOT NULL
    );

    CREATE TABLE IF NOT EXISTS match_results (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        category TEXT NOT NULL,
        conditions TEXT NOT NULL,
        matched INTEGER NOT NULL,
        rule_id TEXT,
        title TEXT,
        summary TEXT,
        created_at DATETIME NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_readings_user_timestamp ON readings(user_id, timestamp);
    CREATE INDEX IF NOT EXISTS idx_meals_user_timestamp ON meals(user_id, timestamp);
    CREATE INDEX IF NOT EXISTS idx_meal_items_meal_id ON meal_items(meal_id);
    CREATE INDEX IF NOT EXISTS idx_rules_category ON rules(category);
    CREATE INDEX IF NOT EXISTS idx_match_results_user ON match_results(user_id);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) SaveReading(reading *models.Reading) error {
	query := `
        INSERT INTO readings (id, user_id, value, unit, reading_type, timestamp, created_at, source)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := s.db.Exec(query,
		reading.ID, reading.UserID, reading.Value, reading.Unit,
		string(reading.Type), reading.Timestamp.Format(time.RFC3339),
		reading.CreatedAt.Format(time.RFC3339), reading.Source)
	if err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) GetReadings(userID string, limit int) ([]models.Reading, error) {
	query := `
        SELECT id, user_id, value, unit, reading_type, timestamp, created_at, source
        FROM readings
        WHERE user_id = ?
        ORDER BY timestamp DESC
        LIMIT ?
    `
	rows, err := s.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	var readings []models.Reading
	for rows.Next() {
		var reading models.Reading
		var readingType, timestampStr, createdAtStr string

		err := rows.Scan(&reading.ID, &reading.UserID, &reading.Value, &reading.Unit,
			&readingType, &timestampStr, &createdAtStr, &reading.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}

		if reading.Timestamp, err = time.Parse(time.RFC3339, timestampStr); err != nil {
			return nil, fmt.Errorf("failed to parse timestamp: %w", err)
		}
		if reading.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		reading.Type = models.ReadingType(readingType)

		readings = append(readings, reading)
	}

	return readings, rows.Err()
}

func (s *SQLiteStorage) SaveMeal(meal *models.Meal) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	mealQuery := `
        INSERT INTO meals (id, user_id, name, timestamp, created_at, source)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	_, err = tx.Exec(mealQuery,
		meal.ID, meal.UserID, meal.Name,
		meal.Timestamp.Format(time.RFC3339), meal.CreatedAt.Format(time.RFC3339), meal.Source)
	if err != nil {
		return fmt.Errorf("failed to insert meal: %w", err)
	}

	itemQuery := `
        INSERT INTO meal_items (meal_id, name, quantity, unit, carbs, protein, fat, sugar, calories)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	for _, item := range meal.Items {
		_, err = tx.Exec(itemQuery,
			meal.ID, item.Name, item.Quantity, item.Unit,
			nullable(item.Carbs), nullable(item.Protein), nullable(item.Fat),
			nullable(item.Sugar), nullable(item.Calories))
		if err != nil {
			return fmt.Errorf("failed to insert meal item: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStorage) GetMeals(userID string, limit int) ([]*models.Meal, error) {
	query := `
        SELECT id, user_id, name, timestamp, created_at, source
        FROM meals
        WHERE user_id = ?
        ORDER BY timestamp DESC
        LIMIT ?
    `
	rows, err := s.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query meals: %w", err)
	}
	defer rows.Close()

	var meals []*models.Meal
	for rows.Next() {
		meal := &models.Meal{}
		var timestampStr, createdAtStr string

		err := rows.Scan(&meal.ID, &meal.UserID, &meal.Name, &timestampStr, &createdAtStr, &meal.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}

		if meal.Timestamp, err = time.Parse(time.RFC3339, timestampStr); err != nil {
			return nil, fmt.Errorf("failed to parse timestamp: %w", err)
		}
		if meal.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		if err := s.loadItemsForMeal(meal); err != nil {
			return nil, fmt.Errorf("failed to load items for meal %s: %w", meal.ID, err)
		}

		meals = append(meals, meal)
	}

	return meals, rows.Err()
}

func (s *SQLiteStorage) loadItemsForMeal(meal *models.Meal) error {
	query := `
        SELECT name, quantity, unit, carbs, protein, fat, sugar, calories
        FROM meal_items
        WHERE meal_id = ?
        ORDER BY id
    `
	rows, err := s.db.Query(query, meal.ID)
	if err != nil {
		return fmt.Errorf("failed to query meal items: %w", err)
	}
	defer rows.Close()

	var items []models.MealItem
	for rows.Next() {
		var item models.MealItem
		var carbs, protein, fat, sugar, calories sql.NullFloat64

		err := rows.Scan(&item.Name, &item.Quantity, &item.Unit,
			&carbs, &protein, &fat, &sugar, &calories)
		if err != nil {
			return fmt.Errorf("failed to scan meal item: %w", err)
		}

		item.Carbs = fromNull(carbs)
		item.Protein = fromNull(protein)
		item.Fat = fromNull(fat)
		item.Sugar = fromNull(sugar)
		item.Calories = fromNull(calories)

		items = append(items, item)
	}

	meal.Items = items
	return rows.Err()
}

// LoadRules returns the full rule table ordered by category and sort order.
// Rules are loaded once at startup and matched in memory.
func (s *SQLiteStorage) LoadRules() ([]models.Rule, error) {
	query := `
        SELECT id, category, conditions, title, summary, sort_order
        FROM rules
        ORDER BY category, sort_order
    `
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	var rules []models.Rule
	for rows.Next() {
		var rule models.Rule
		var category, conditionsJSON string

		err := rows.Scan(&rule.ID, &category, &conditionsJSON, &rule.Title, &rule.Summary, &rule.Order)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}

		if err := json.Unmarshal([]byte(conditionsJSON), &rule.Conditions); err != nil {
			return nil, fmt.Errorf("failed to parse conditions for rule %s: %w", rule.ID, err)
		}
		rule.Category = models.Category(category)

		rules = append(rules, rule)
	}

	return rules, rows.Err()
}

// SeedRules inserts rules that are not already present, so a fresh database
// can serve onboarding matches immediately.
func (s *SQLiteStorage) SeedRules(rules []models.Rule) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
        INSERT OR IGNORE INTO rules (id, category, conditions, title, summary, sort_order)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	for _, rule := range rules {
		conditionsJSON, err := json.Marshal(rule.Conditions)
		if err != nil {
			return fmt.Errorf("failed to encode conditions for rule %s: %w", rule.ID, err)
		}
		_, err = tx.Exec(query, rule.ID, string(rule.Category), string(conditionsJSON),
			rule.Title, rule.Summary, rule.Order)
		if err != nil {
			return fmt.Errorf("failed to insert rule %s: %w", rule.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStorage) GetTargetRange(userID string) (models.TargetRange, error) {
	var target models.TargetRange
	err := s.db.QueryRow(`SELECT min, max FROM target_ranges WHERE user_id = ?`, userID).
		Scan(&target.Min, &target.Max)
	if err == sql.ErrNoRows {
		// Standard default band in mg/dL when the user never configured one.
		return models.TargetRange{Min: 70, Max: 180}, nil
	}
	if err != nil {
		return models.TargetRange{}, fmt.Errorf("failed to query target range: %w", err)
	}
	return target, nil
}

func (s *SQLiteStorage) SetTargetRange(userID string, target models.TargetRange) error {
	if !target.Valid() {
		return fmt.Errorf("invalid target range: min %.1f must be below max %.1f", target.Min, target.Max)
	}
	query := `
        INSERT INTO target_ranges (user_id, min, max) VALUES (?, ?, ?)
        ON CONFLICT(user_id) DO UPDATE SET min = excluded.min, max = excluded.max
    `
	if _, err := s.db.Exec(query, userID, target.Min, target.Max); err != nil {
		return fmt.Errorf("failed to upsert target range: %w", err)
	}
	return nil
}

// SaveMatchResult persists the immutable snapshot of a rule match for audit.
func (s *SQLiteStorage) SaveMatchResult(result *models.MatchResult) error {
	conditionsJSON, err := json.Marshal(result.Conditions)
	if err != nil {
		return fmt.Errorf("failed to encode conditions: %w", err)
	}

	query := `
        INSERT INTO match_results (id, user_id, category, conditions, matched, rule_id, title, summary, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err = s.db.Exec(query,
		result.ID, result.UserID, string(result.Category), string(conditionsJSON),
		result.Matched, result.RuleID, result.Title, result.Summary,
		result.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert match result: %w", err)
	}
	return nil
}

func nullable(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func fromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	value := v.Float64
	return &value
}
