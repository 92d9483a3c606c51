// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Environment setup plus small formatting helpers
package commands

import (
	"fmt"

	"github.com/LuisDee/sqlscout/internal/config"
	"github.com/LuisDee/sqlscout/internal/llm"
	"github.com/LuisDee/sqlscout/internal/storage/sqlite"
	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"
)

// environment bundles everything a command needs to touch the indexes
type environment struct {
	cfg      *config.Config
	db       *sqlite.DB
	schemas  *sqlite.SchemaStore
	memories *sqlite.MemoryStore
	embedder llm.Embedder
}

func (e *environment) Close() {
	_ = e.db.Close()
}

// openEnvironment loads config, opens the database, and builds the
// embedding client when an API key is configured
func openEnvironment() (*environment, error) {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = sqlite.DefaultDBPath()
	}
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	env := &environment{
		cfg:      cfg,
		db:       db,
		schemas:  sqlite.NewSchemaStore(db),
		memories: sqlite.NewMemoryStore(db),
	}

	if cfg.OpenAIKey != "" {
		client, err := llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
			APIKey:         cfg.OpenAIKey,
			EmbeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
			Dimension:      cfg.VectorDimension,
			QueryPrefix:    cfg.QueryPrefix,
			DocumentPrefix: cfg.DocumentPrefix,
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			RetryDelay:     cfg.RetryDelay,
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("creating embedding client: %w", err)
		}
		env.embedder = client
	}

	return env, nil
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
