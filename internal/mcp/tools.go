// ABOUTME: MCP tool definitions and registration for the sqlscout server
// ABOUTME: Defines JSON schemas for all 6 retrieval and control tools
package mcp

import (
	"github.com/LuisDee/sqlscout/internal/core"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server. toolCallCap is
// the session-wide invocation ceiling shared with the controller.
func RegisterTools(server *mcpserver.MCPServer, sessions *core.Manager, cache *core.SemanticCache, router *core.Router, controller *core.Controller, learner *core.Learner, pipeline *core.Pipeline, catalogDir string, toolCallCap int) *Handlers {
	handlers := &Handlers{
		sessions:    sessions,
		cache:       cache,
		router:      router,
		controller:  controller,
		learner:     learner,
		pipeline:    pipeline,
		catalogDir:  catalogDir,
		toolCallCap: toolCallCap,
	}

	// 1. check_cache - exact-intent shortcut before any retrieval
	server.AddTool(mcp.Tool{
		Name:        "check_cache",
		Description: "Check whether a semantically equivalent question was already answered. On a hit, reuse the returned SQL directly instead of writing a new query.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Natural-language question to look up",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation session identifier (default: \"default\")",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.CheckCache)

	// 2. route_question - one embedding fanned out to both indexes
	server.AddTool(mcp.Tool{
		Name:        "route_question",
		Description: "Retrieve the schema context for a question: relevant tables, datasets, and routing hints, plus validated example queries, ranked by semantic similarity.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Natural-language question to route",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation session identifier (default: \"default\")",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.RouteQuestion)

	// 3. fetch_examples - the example half only, for few-shot prompting
	server.AddTool(mcp.Tool{
		Name:        "fetch_examples",
		Description: "Fetch validated question-to-SQL examples similar to a question. Served from the session's routing cache when the question was already routed.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Natural-language question to find examples for",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation session identifier (default: \"default\")",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.FetchExamples)

	// 4. record_validation_attempt - every validate call goes through the guards
	server.AddTool(mcp.Tool{
		Name:        "record_validation_attempt",
		Description: "Record one SQL validation attempt. Returns retry with the error detail while attempts remain; returns circuit_open once the attempt cap, a repeated identical attempt, or the session tool ceiling is hit. After circuit_open, explain the failure instead of retrying. Omit success to have the server dry-run the SQL against the warehouse.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question the SQL is answering",
				},
				"sql": map[string]interface{}{
					"type":        "string",
					"description": "Candidate SQL statement (must be read-only)",
				},
				"success": map[string]interface{}{
					"type":        "boolean",
					"description": "Outcome of an externally run validation; omit to validate server-side",
				},
				"error_detail": map[string]interface{}{
					"type":        "string",
					"description": "Validator error text when success is false",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation session identifier (default: \"default\")",
				},
			},
			Required: []string{"question", "sql"},
		},
	}, handlers.RecordValidationAttempt)

	// 5. commit_learning - persist a confirmed pair into the Memory Index
	server.AddTool(mcp.Tool{
		Name:        "commit_learning",
		Description: "Save a validated question-to-SQL pair so future similar questions hit the cache. Call only after the SQL ran successfully and the user confirmed the answer.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "The question as the user asked it",
				},
				"sql": map[string]interface{}{
					"type":        "string",
					"description": "The validated read-only SQL",
				},
				"tables_used": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Fully qualified tables the SQL reads",
				},
				"dataset_name": map[string]interface{}{
					"type":        "string",
					"description": "Dataset the answer lives in",
				},
				"complexity": map[string]interface{}{
					"type":        "string",
					"description": "Rough complexity label (simple, medium, complex)",
				},
				"rationale": map[string]interface{}{
					"type":        "string",
					"description": "Why this SQL answers the question",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Conversation session identifier (default: \"default\")",
				},
			},
			Required: []string{"question", "sql"},
		},
	}, handlers.CommitLearning)

	// 6. resync_indexes - reload the catalog and embed whatever is missing
	server.AddTool(mcp.Tool{
		Name:        "resync_indexes",
		Description: "Reload catalog files and bring both vector indexes up to date. Unchanged content costs nothing; only new or edited rows are embedded.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ResyncIndexes)

	return handlers
}
