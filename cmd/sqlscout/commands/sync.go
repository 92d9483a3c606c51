// ABOUTME: Sync command running the embedding pipeline over the catalog
// ABOUTME: Upserts catalog content and embeds whatever is missing a vector
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/LuisDee/sqlscout/internal/catalog"
	"github.com/LuisDee/sqlscout/internal/core"
	"github.com/spf13/cobra"
)

var syncCatalogDir string

// NewSyncCmd creates the sync command
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync catalog files into the vector indexes",
		Long: `Load catalog YAML files and bring both vector indexes up to date.

Unchanged content costs nothing: only rows whose text is new or edited
are (re)embedded. Safe to run as often as you like.

Examples:
  sqlscout sync
  sqlscout sync --catalog ./warehouse-docs`,
		RunE: runSync,
	}

	cmd.Flags().StringVar(&syncCatalogDir, "catalog", "", "Catalog directory (default: SQLSCOUT_CATALOG_DIR)")

	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	dir := syncCatalogDir
	if dir == "" {
		dir = env.cfg.CatalogDir
	}

	doc, err := catalog.LoadDir(dir)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	pipeline := core.NewPipeline(env.schemas, env.memories, env.embedder)

	// Without an API key only the upsert phase runs; embedding waits for
	// a sync with a key configured
	var stats core.SyncStats
	if env.embedder == nil {
		upserted, err := pipeline.Sync(doc.Descriptors(), doc.Records())
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		stats = core.SyncStats{Upserted: upserted}
	} else {
		var err error
		stats, err = pipeline.Resync(cmd.Context(), doc.Descriptors(), doc.Records())
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Upserted: %d\n", stats.Upserted)
		fmt.Fprintf(cmd.OutOrStdout(), "Embedded: %d\n", stats.Embedded)
		if stats.Failed > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Failed:   %d (will retry on next sync)\n", stats.Failed)
		}
		if env.embedder == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Note: OPENAI_API_KEY not set, embedding deferred")
		}

		if schemaTotal, schemaEmbedded, err := env.schemas.Counts(); err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Schema index: %d rows (%d embedded)\n", schemaTotal, schemaEmbedded)
		}
		if memTotal, memEmbedded, err := env.memories.Count(); err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Memory index: %d rows (%d embedded)\n", memTotal, memEmbedded)
		}
	}
	return nil
}
