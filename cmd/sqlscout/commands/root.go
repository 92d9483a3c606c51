// ABOUTME: Root CLI command with global flags
// ABOUTME: Wires subcommands and the verbose/quiet/format flag trio
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
███████╗ ██████╗ ██╗     ███████╗ ██████╗ ██████╗ ██╗   ██╗████████╗
██╔════╝██╔═══██╗██║     ██╔════╝██╔════╝██╔═══██╗██║   ██║╚══██╔══╝
███████╗██║   ██║██║     ███████╗██║     ██║   ██║██║   ██║   ██║
╚════██║██║▄▄ ██║██║     ╚════██║██║     ██║   ██║██║   ██║   ██║
███████║╚██████╔╝███████╗███████║╚██████╗╚██████╔╝╚██████╔╝   ██║
╚══════╝ ╚══▀▀═╝ ╚══════╝╚══════╝ ╚═════╝ ╚═════╝  ╚═════╝    ╚═╝
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sqlscout",
		Short: "Schema retrieval and query memory for natural-language SQL",
		Long: banner + `
sqlscout keeps two vector indexes over your warehouse: schema context
(tables, datasets, routing hints) and validated question-to-SQL pairs.
The CLI manages the indexes; the MCP server exposes them to agents.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format (auto, table, json)")

	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewCacheCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
