// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Global flags: --verbose, --quiet (mutually exclusive), --format
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
 █████╗ ██╗██╗  ██╗██╗   ██╗██████╗
██╔══██╗██║██║  ██║██║   ██║██╔══██╗
███████║██║███████║██║   ██║██████╔╝
██╔══██║██║██╔══██║██║   ██║██╔══██╗
██║  ██║██║██║  ██║╚██████╔╝██████╔╝
╚═╝  ╚═╝╚═╝╚═╝  ╚═╝ ╚═════╝ ╚═════╝
`

// NewRootCmd creates the root command with all subcommands
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aihub",
		Short: "Local history for AI conversations",
		Long: banner + `
AIHub keeps captured AI conversations in a local SQLite database with
full-text and semantic search. Nothing leaves your machine unless you
configure an API for summaries or embeddings.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewSaveCmd(),
		NewRecentCmd(),
		NewSearchCmd(),
		NewSemanticCmd(),
		NewHistoryCmd(),
		NewShowCmd(),
		NewDeleteCmd(),
		NewClearCmd(),
		NewSitesCmd(),
		NewProjectsCmd(),
		NewSummarizeCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
