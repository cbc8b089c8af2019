// internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"glycolog/internal/models"
	"glycolog/internal/storage"
)

type Config struct {
	Host          string
	Port          int
	DBPath        string
	RatePerSecond float64
	RateBurst     int
}

// LoadConfig reads configuration from the environment, loading a .env file
// first when one exists. Flags set by the CLI override these values.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8011"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	ratePerSecond, err := strconv.ParseFloat(getEnv("RATE_LIMIT_PER_SECOND", "20"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_SECOND: %w", err)
	}

	return &Config{
		Host:          getEnv("HOST", "0.0.0.0"),
		Port:          port,
		DBPath:        getEnv("DB_PATH", "glycolog.db"),
		RatePerSecond: ratePerSecond,
		RateBurst:     40,
	}, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

type Server struct {
	config     *Config
	storage    *storage.SQLiteStorage
	rules      []models.Rule
	httpServer *http.Server
	logger     zerolog.Logger
}

func NewServer(cfg *Config, logger zerolog.Logger) (*Server, error) {
	stor, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := stor.SeedRules(storage.DefaultRules()); err != nil {
		stor.Close()
		return nil, fmt.Errorf("failed to seed rules: %w", err)
	}

	// Rule table snapshot: load once, match many.
	rules, err := stor.LoadRules()
	if err != nil {
		stor.Close()
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	logger.Info().Int("rules", len(rules)).Msg("rule table loaded")

	srv := &Server{
		config:  cfg,
		storage: stor,
		rules:   rules,
		logger:  logger,
	}

	router := srv.setupRouter()
	srv.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return srv, nil
}

func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		s.requestLogger(),
		rateLimit(rate.Limit(s.config.RatePerSecond), s.config.RateBurst),
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/readyz", s.handleReadyz)

	api := router.Group("/api")
	{
		api.POST("/analysis/readings", s.handleAnalyzeReadings)
		api.POST("/analysis/meal", s.handleAnalyzeMeal)
		api.POST("/recommendations/match", s.handleMatchRecommendation)

		api.POST("/users/:id/readings", s.handleLogReading)
		api.POST("/users/:id/meals", s.handleLogMeal)
		api.PUT("/users/:id/target", s.handleSetTargetRange)
		api.GET("/users/:id/overview", s.handleOverview)
	}

	router.POST("/mcp", s.handleMCP)

	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

func rateLimit(limit rate.Limit, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(limit, burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func (s *Server) handleReadyz(c *gin.Context) {
	if err := s.storage.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"db":     fmt.Sprintf("unhealthy: %v", err),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok"})
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("starting glycolog server")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return s.storage.Close()
}
