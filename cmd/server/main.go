// ABOUTME: Main entry point for the sqlscout MCP server with stdio transport
// ABOUTME: Initializes storage, retrieval components, and all 6 MCP tools
package main

import (
	"database/sql"
	"log"

	"github.com/LuisDee/sqlscout/internal/config"
	"github.com/LuisDee/sqlscout/internal/core"
	"github.com/LuisDee/sqlscout/internal/llm"
	"github.com/LuisDee/sqlscout/internal/mcp"
	"github.com/LuisDee/sqlscout/internal/storage/sqlite"
	"github.com/LuisDee/sqlscout/internal/warehouse"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	openai "github.com/sashabaranov/go-openai"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = sqlite.DefaultDBPath()
	}
	db, err := sqlite.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	schemas := sqlite.NewSchemaStore(db)
	memories := sqlite.NewMemoryStore(db)

	// Without an API key the server still runs: the cache degrades to
	// misses and sync defers embedding, but nothing crashes
	var embedder llm.Embedder
	if cfg.OpenAIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set - semantic lookup and embedding sync will be degraded")
	} else {
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
			log.Fatalf("Failed to create embedding client: %v", err)
		}
		embedder = client
	}

	// The dry-run validator needs a warehouse connection; without one,
	// callers must report validation outcomes in the tool call
	var validator core.Validator
	if cfg.WarehouseDSN != "" {
		wdb, err := sql.Open(cfg.WarehouseDriver, cfg.WarehouseDSN)
		if err != nil {
			log.Fatalf("Failed to open warehouse connection: %v", err)
		}
		defer wdb.Close()
		validator = warehouse.NewDryRunValidator(wdb, cfg.Timeout)
		log.Printf("Dry-run validation enabled against %s warehouse", cfg.WarehouseDriver)
	} else {
		log.Println("Warning: SQLSCOUT_WAREHOUSE_DSN not set - validation outcomes must be reported by the caller")
	}

	sessions := core.NewManager()
	cache := core.NewSemanticCache(memories, embedder, cfg.CacheThreshold)
	router := core.NewRouter(schemas, memories, embedder, cfg.TopK)
	controller := core.NewController(cfg.MaxAttempts, cfg.RepetitionWindow, cfg.ToolCallCap, validator)
	learner := core.NewLearner(memories, embedder)
	pipeline := core.NewPipeline(schemas, memories, embedder)

	server := mcpserver.NewMCPServer(
		"sqlscout",
		"0.1.0",
	)

	mcp.RegisterTools(server, sessions, cache, router, controller, learner, pipeline, cfg.CatalogDir, cfg.ToolCallCap)

	log.Println("sqlscout MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
