// ABOUTME: CLI command to query the semantic cache
// ABOUTME: Shows whether a question would be answered from memory
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/LuisDee/sqlscout/internal/core"
	"github.com/spf13/cobra"
)

var cacheThreshold float64

// NewCacheCmd creates the cache command
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache <question>",
		Short: "Check the semantic cache for a question",
		Long: `Check whether a semantically equivalent question already has
validated SQL in the Memory Index, and at what distance.

Examples:
  sqlscout cache "total revenue last month"
  sqlscout cache --threshold 0.2 "monthly revenue total"`,
		Args: cobra.ExactArgs(1),
		RunE: runCache,
	}

	cmd.Flags().Float64Var(&cacheThreshold, "threshold", -1, "Hit threshold override (default: SQLSCOUT_CACHE_THRESHOLD)")

	return cmd
}

func runCache(cmd *cobra.Command, args []string) error {
	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	if env.embedder == nil {
		return fmt.Errorf("OPENAI_API_KEY not set, cannot embed the question")
	}

	threshold := cacheThreshold
	if threshold < 0 {
		threshold = env.cfg.CacheThreshold
	}

	question := args[0]
	cache := core.NewSemanticCache(env.memories, env.embedder, threshold)
	sess := core.NewManager().Get("cli")

	result := cache.Lookup(cmd.Context(), sess, question)

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if !result.Hit {
		fmt.Fprintf(cmd.OutOrStdout(), "Miss (threshold %.3f)\n", threshold)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Hit (distance %.3f)\n", result.Distance)
	fmt.Fprintf(cmd.OutOrStdout(), "Matched: %s\n", result.MatchedQuestion)
	fmt.Fprintf(cmd.OutOrStdout(), "SQL:     %s\n", result.SQL)
	return nil
}
