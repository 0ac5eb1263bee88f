package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string
	DBPath           string
	LogLevel         string
	StatsWorkerCount int
	StatsQueueSize   int
	CORSOrigins      []string
	DefaultPageSize  int
	MaxPageSize      int
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:             envOr("ADDR", ":8080"),
		DBPath:           envOr("DB_PATH", "file:reviewd.db"),
		LogLevel:         envOr("LOG_LEVEL", "INFO"),
		StatsWorkerCount: envIntOr("STATS_WORKER_COUNT", 2),
		StatsQueueSize:   envIntOr("STATS_QUEUE_SIZE", 32),
		CORSOrigins:      envListOr("CORS_ORIGINS", []string{"*"}),
		DefaultPageSize:  envIntOr("DEFAULT_PAGE_SIZE", 20),
		MaxPageSize:      envIntOr("MAX_PAGE_SIZE", 100),
	}
}

// Validate checks the configuration for values the server cannot start with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.StatsWorkerCount <= 0 {
		return fmt.Errorf("STATS_WORKER_COUNT must be positive")
	}
	if c.StatsQueueSize <= 0 {
		return fmt.Errorf("STATS_QUEUE_SIZE must be positive")
	}
	if c.DefaultPageSize <= 0 || c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be in (0, MAX_PAGE_SIZE]")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
