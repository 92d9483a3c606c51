// ABOUTME: CLI command to preview retrieval for a question
// ABOUTME: Routes one question and prints ranked tables and examples
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/LuisDee/sqlscout/internal/core"
	"github.com/spf13/cobra"
)

var searchTopK int

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <question>",
		Short: "Preview retrieval for a question",
		Long: `Route a question against both vector indexes and show what an
agent would receive: relevant tables and datasets from the Schema
Index, and similar validated queries from the Memory Index.

Examples:
  sqlscout search "total revenue by region last quarter"
  sqlscout search --top-k 10 "active users"
  sqlscout search --format json "churn rate"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchTopK, "top-k", 0, "Results per index half (default: SQLSCOUT_TOP_K)")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	if env.embedder == nil {
		return fmt.Errorf("OPENAI_API_KEY not set, cannot embed the question")
	}

	topK := searchTopK
	if topK == 0 {
		topK = env.cfg.TopK
	}
	if err := validatePositiveInt(topK, "top-k"); err != nil {
		return err
	}

	question := args[0]
	router := core.NewRouter(env.schemas, env.memories, env.embedder, topK)
	sess := core.NewManager().Get("cli")

	result, err := router.Route(cmd.Context(), sess, question)
	if err != nil {
		return fmt.Errorf("routing failed: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if len(result.Tables) == 0 && len(result.Examples) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No matches for question: %s\n", question)
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	if len(result.Tables) > 0 {
		fmt.Fprintf(w, "DISTANCE\tKIND\tSOURCE\tDESCRIPTION\n")
		fmt.Fprintf(w, "--------\t----\t------\t-----------\n")
		for _, m := range result.Tables {
			source := m.Descriptor.DatasetName
			if m.Descriptor.TableName != "" {
				source = fmt.Sprintf("%s.%s", m.Descriptor.DatasetName, m.Descriptor.TableName)
			}
			fmt.Fprintf(w, "%.3f\t%s\t%s\t%s\n",
				m.Distance,
				m.Descriptor.SourceKind,
				source,
				truncate(m.Descriptor.Description, 60))
		}
		fmt.Fprintln(w)
	}
	if len(result.Examples) > 0 {
		fmt.Fprintf(w, "DISTANCE\tQUESTION\tSQL\n")
		fmt.Fprintf(w, "--------\t--------\t---\n")
		for _, m := range result.Examples {
			fmt.Fprintf(w, "%.3f\t%s\t%s\n",
				m.Distance,
				truncate(m.Record.Question, 40),
				truncate(m.Record.SQLText, 60))
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if result.Partial && !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "Warning: one index half failed, results are partial")
	}
	return nil
}
