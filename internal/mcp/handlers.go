// ABOUTME: MCP tool handler implementations for the sqlscout server
// ABOUTME: Session lookup, argument extraction, and JSON responses for all 6 tools
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/LuisDee/sqlscout/internal/catalog"
	"github.com/LuisDee/sqlscout/internal/core"
	"github.com/LuisDee/sqlscout/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	sessions    *core.Manager
	cache       *core.SemanticCache
	router      *core.Router
	controller  *core.Controller
	learner     *core.Learner
	pipeline    *core.Pipeline
	catalogDir  string
	toolCallCap int
}

// session resolves the per-conversation state container for a request
func (h *Handlers) session(request mcp.CallToolRequest) *core.Session {
	return h.sessions.Get(request.GetString("session_id", "default"))
}

// chargeToolCall counts one invocation against the session-wide ceiling.
// The cap spans every session-bearing tool, so a caller looping on
// retrieval burns it down just like one looping on validation. The
// validation tool is exempt here: the controller charges it itself.
func (h *Handlers) chargeToolCall(sess *core.Session) *mcp.CallToolResult {
	if !sess.CountToolCall(h.toolCallCap) {
		return nil
	}
	reason := fmt.Sprintf("tool call ceiling of %d exceeded", h.toolCallCap)
	sess.TripCircuit(reason)
	return mcp.NewToolResultError(core.CircuitOpenMessage + ": " + reason)
}

// CheckCache handles the check_cache tool
func (h *Handlers) CheckCache(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	sess := h.session(request)
	if stop := h.chargeToolCall(sess); stop != nil {
		return stop, nil
	}

	result := h.cache.Lookup(ctx, sess, question)
	return jsonResult(result)
}

// RouteQuestion handles the route_question tool
func (h *Handlers) RouteQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	sess := h.session(request)
	if stop := h.chargeToolCall(sess); stop != nil {
		return stop, nil
	}

	result, err := h.router.Route(ctx, sess, question)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("routing failed: %v", err)), nil
	}
	return jsonResult(result)
}

// FetchExamples handles the fetch_examples tool
func (h *Handlers) FetchExamples(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	sess := h.session(request)
	if stop := h.chargeToolCall(sess); stop != nil {
		return stop, nil
	}

	examples, err := h.router.FetchExamples(ctx, sess, question)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("example retrieval failed: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{
		"examples": examples,
		"count":    len(examples),
	})
}

// RecordValidationAttempt handles the record_validation_attempt tool
func (h *Handlers) RecordValidationAttempt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}
	sqlText, err := request.RequireString("sql")
	if err != nil {
		return mcp.NewToolResultError("sql argument is required and must be a string"), nil
	}

	// A caller that ran validation itself passes success; otherwise the
	// configured warehouse validator runs the dry-run here
	var outcome *models.ValidationOutcome
	if raw, ok := request.GetArguments()["success"]; ok {
		success, ok := raw.(bool)
		if !ok {
			return mcp.NewToolResultError("success argument must be a boolean"), nil
		}
		outcome = &models.ValidationOutcome{
			Success:     success,
			ErrorDetail: request.GetString("error_detail", ""),
		}
	}

	result, err := h.controller.RecordAttempt(ctx, h.session(request), question, sqlText, outcome)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("attempt not recorded: %v", err)), nil
	}
	return jsonResult(result)
}

// CommitLearning handles the commit_learning tool
func (h *Handlers) CommitLearning(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}
	sqlText, err := request.RequireString("sql")
	if err != nil {
		return mcp.NewToolResultError("sql argument is required and must be a string"), nil
	}

	if stop := h.chargeToolCall(h.session(request)); stop != nil {
		return stop, nil
	}

	req := core.CommitRequest{
		Question:    question,
		SQLText:     sqlText,
		TablesUsed:  extractStringArray(request.GetArguments(), "tables_used"),
		DatasetName: request.GetString("dataset_name", ""),
		Complexity:  request.GetString("complexity", ""),
		Rationale:   request.GetString("rationale", ""),
	}

	result, err := h.learner.Commit(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("commit failed: %v", err)), nil
	}
	return jsonResult(result)
}

// ResyncIndexes handles the resync_indexes tool
func (h *Handlers) ResyncIndexes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := catalog.LoadDir(h.catalogDir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load catalog: %v", err)), nil
	}

	stats, err := h.pipeline.Resync(ctx, doc.Descriptors(), doc.Records())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("resync failed: %v", err)), nil
	}
	return jsonResult(stats)
}

// jsonResult marshals a response payload into a text tool result
func jsonResult(payload interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// extractStringArray extracts a string array from an arguments map
func extractStringArray(args map[string]interface{}, key string) []string {
	if val, ok := args[key]; ok {
		if arr, ok := val.([]interface{}); ok {
			result := make([]string, 0, len(arr))
			for _, item := range arr {
				if str, ok := item.(string); ok {
					result = append(result, str)
				}
			}
			return result
		}
	}
	return nil
}
