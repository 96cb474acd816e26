package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Embedding providers.
const (
	ProviderOpenAI = "openai"
	ProviderHash   = "hash"
)

// Config holds all configuration for the application.
type Config struct {
	DBDriver    string
	DBPath      string
	DatabaseURL string

	EmbeddingProvider     string
	EmbeddingBaseURL      string
	EmbeddingAPIKey       string
	EmbeddingModel        string
	EmbeddingDimensions   int
	EmbeddingTimeout      time.Duration
	EmbeddingCacheEntries int

	ChunkMaxLen      int
	SearchDefaultTop int

	// QdrantURL enables the vector mirror when set.
	QdrantURL        string
	QdrantCollection string

	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or one of its parents, it is loaded.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		DBDriver:          strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBPath:            getEnv("DB_PATH", "./data/tenant-memory.db"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		EmbeddingProvider: strings.ToLower(getEnv("EMBEDDING_PROVIDER", ProviderOpenAI)),
		EmbeddingBaseURL:  getEnv("EMBEDDING_BASE_URL", "https://api.openai.com"),
		EmbeddingAPIKey:   getEnv("EMBEDDING_API_KEY", ""),
		EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-3-large"),
		QdrantURL:         getEnv("QDRANT_URL", ""),
		QdrantCollection:  getEnv("QDRANT_COLLECTION", "tenant_memory"),
		APIPort:           getEnv("API_PORT", "9000"),
		LogFormat:         strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	var err error

	// EMBEDDING_DIMENSIONS must match the output size of the embedding model.
	// Changing it requires a fresh vector table and mirror collection.
	dimStr := getEnv("EMBEDDING_DIMENSIONS", "")
	if dimStr == "" {
		return nil, fmt.Errorf("EMBEDDING_DIMENSIONS is required")
	}
	if cfg.EmbeddingDimensions, err = strconv.Atoi(dimStr); err != nil {
		return nil, fmt.Errorf("EMBEDDING_DIMENSIONS must be a valid integer: %w", err)
	}
	if cfg.EmbeddingDimensions <= 0 {
		return nil, fmt.Errorf("EMBEDDING_DIMENSIONS must be greater than 0")
	}

	if cfg.EmbeddingTimeout, err = time.ParseDuration(getEnv("EMBEDDING_TIMEOUT", "30s")); err != nil {
		return nil, fmt.Errorf("EMBEDDING_TIMEOUT must be a valid duration: %w", err)
	}
	if cfg.EmbeddingTimeout <= 0 {
		return nil, fmt.Errorf("EMBEDDING_TIMEOUT must be greater than 0")
	}

	if cfg.EmbeddingCacheEntries, err = getInt("EMBEDDING_CACHE_ENTRIES", 10000, 0); err != nil {
		return nil, err
	}
	if cfg.ChunkMaxLen, err = getInt("CHUNK_MAX_LEN", 1500, 1); err != nil {
		return nil, err
	}
	if cfg.SearchDefaultTop, err = getInt("SEARCH_DEFAULT_TOP_K", 8, 1); err != nil {
		return nil, err
	}

	if cfg.LogLevel, err = parseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}

	switch cfg.EmbeddingProvider {
	case ProviderOpenAI:
		if cfg.EmbeddingAPIKey == "" {
			return nil, fmt.Errorf("EMBEDDING_API_KEY is required when EMBEDDING_PROVIDER=%s", ProviderOpenAI)
		}
	case ProviderHash:
	default:
		return nil, fmt.Errorf("EMBEDDING_PROVIDER must be %q or %q, got %q", ProviderOpenAI, ProviderHash, cfg.EmbeddingProvider)
	}

	switch cfg.DBDriver {
	case "sqlite":
		// Create the data directory if it doesn't exist
		dataDir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("DB_DRIVER must be \"sqlite\" or \"postgres\", got %q", cfg.DBDriver)
	}

	return cfg, nil
}

// MirrorEnabled reports whether rows are copied to Qdrant.
func (c *Config) MirrorEnabled() bool {
	return c.QdrantURL != ""
}

// loadDotEnv loads the first .env found in the working directory or up to
// five of its parents. Missing files are ignored.
func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i <= 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return // Reached filesystem root
		}
		dir = parent
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getInt parses an integer variable and checks it against a lower bound.
func getInt(key string, defaultValue, minValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if n < minValue {
		return 0, fmt.Errorf("%s must be at least %d", key, minValue)
	}
	return n, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", s)
	}
}
