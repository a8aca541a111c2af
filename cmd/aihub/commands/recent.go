// ABOUTME: CLI command listing the most recently saved conversations
// ABOUTME: Shows previews newest first in a table or as JSON
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aihub/aihub/internal/models"
)

var recentLimit int

// NewRecentCmd creates recent command
func NewRecentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recent conversations",
		Long: `List the most recently saved conversations, newest first.

Examples:
  aihub recent
  aihub recent --limit 50
  aihub recent --format json`,
		RunE: runRecent,
	}

	cmd.Flags().IntVar(&recentLimit, "limit", 20, "Maximum conversations to show (1-50)")

	return cmd
}

func runRecent(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(recentLimit, "limit"); err != nil {
		return err
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	previews, err := store.Recent(cmd.Context(), recentLimit)
	if err != nil {
		return fmt.Errorf("listing conversations: %w", err)
	}

	if jsonOutput() {
		if previews == nil {
			previews = []models.Preview{}
		}
		return printJSON(cmd.OutOrStdout(), previews)
	}

	if len(previews) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No conversations saved yet")
		}
		return nil
	}

	printPreviewTable(cmd, previews)
	return nil
}

// printPreviewTable renders previews in the shared table layout.
func printPreviewTable(cmd *cobra.Command, previews []models.Preview) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tSITE\tWHEN\tPREVIEW\n")
	fmt.Fprintf(w, "--\t----\t----\t-------\n")
	for _, p := range previews {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			p.ID,
			truncate(p.SiteName, 16),
			formatTime(p.CreatedAt),
			truncate(p.Snippet, 60))
	}
	_ = w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d conversation(s)\n", len(previews))
	}
}
