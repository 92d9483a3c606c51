// ABOUTME: Centralized configuration for the SQLScout routing core
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the routing core
type Config struct {
	// OpenAI settings
	OpenAIKey      string
	EmbeddingModel string
	QueryPrefix    string
	DocumentPrefix string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Retrieval settings. CacheThreshold is the cosine distance at or
	// below which the semantic cache declares a hit; it is an empirically
	// tuned value, not derived from first principles. TopK bounds each
	// half of the retrieval fan-out.
	CacheThreshold  float64
	TopK            int
	VectorDimension int

	// Self-correction settings. ToolCallCap is a per-session ceiling
	// across all tool invocations; it does not reset per question.
	MaxAttempts      int
	RepetitionWindow int
	ToolCallCap      int

	// Storage settings
	DBPath     string
	CatalogDir string

	// Warehouse settings for the server-side dry-run validator. When
	// WarehouseDSN is empty no validator is wired and callers must report
	// validation outcomes themselves.
	WarehouseDriver string
	WarehouseDSN    string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		EmbeddingModel:   getEnv("SQLSCOUT_EMBEDDING_MODEL", "text-embedding-3-small"),
		QueryPrefix:      os.Getenv("SQLSCOUT_QUERY_PREFIX"),
		DocumentPrefix:   os.Getenv("SQLSCOUT_DOCUMENT_PREFIX"),
		Timeout:          getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:       getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:       getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		CacheThreshold:   getEnvFloat("SQLSCOUT_CACHE_THRESHOLD", 0.10),
		TopK:             getEnvInt("SQLSCOUT_TOP_K", 5),
		VectorDimension:  getEnvInt("SQLSCOUT_VECTOR_DIMENSION", 1536),
		MaxAttempts:      getEnvInt("SQLSCOUT_MAX_ATTEMPTS", 3),
		RepetitionWindow: getEnvInt("SQLSCOUT_REPETITION_WINDOW", 3),
		ToolCallCap:      getEnvInt("SQLSCOUT_TOOL_CALL_CAP", 40),
		DBPath:           os.Getenv("SQLSCOUT_DB_PATH"),
		CatalogDir:       getEnv("SQLSCOUT_CATALOG_DIR", "catalog"),
		WarehouseDriver:  getEnv("SQLSCOUT_WAREHOUSE_DRIVER", "sqlite"),
		WarehouseDSN:     os.Getenv("SQLSCOUT_WAREHOUSE_DSN"),
	}

	return cfg, cfg.Validate()
}

// Validate checks configuration bounds
func (c *Config) Validate() error {
	if c.CacheThreshold < 0 {
		return fmt.Errorf("SQLSCOUT_CACHE_THRESHOLD must be >= 0, got %f", c.CacheThreshold)
	}
	if c.TopK < 1 || c.TopK > 50 {
		return fmt.Errorf("SQLSCOUT_TOP_K must be 1-50, got %d", c.TopK)
	}
	if c.MaxAttempts < 1 || c.MaxAttempts > 10 {
		return fmt.Errorf("SQLSCOUT_MAX_ATTEMPTS must be 1-10, got %d", c.MaxAttempts)
	}
	if c.RepetitionWindow < 2 {
		return fmt.Errorf("SQLSCOUT_REPETITION_WINDOW must be >= 2, got %d", c.RepetitionWindow)
	}
	if c.ToolCallCap < c.MaxAttempts {
		return fmt.Errorf("SQLSCOUT_TOOL_CALL_CAP (%d) must be >= SQLSCOUT_MAX_ATTEMPTS (%d)", c.ToolCallCap, c.MaxAttempts)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.VectorDimension < 1 {
		return fmt.Errorf("SQLSCOUT_VECTOR_DIMENSION must be positive, got %d", c.VectorDimension)
	}
	if c.WarehouseDSN != "" && c.WarehouseDriver == "" {
		return fmt.Errorf("SQLSCOUT_WAREHOUSE_DRIVER must be set when SQLSCOUT_WAREHOUSE_DSN is")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
