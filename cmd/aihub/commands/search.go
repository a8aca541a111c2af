// ABOUTME: CLI command for full-text search over saved conversations
// ABOUTME: Tokenizes the query like the index does, so CJK queries just work
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSearchCmd creates search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search conversations",
		Long: `Full-text search over saved conversations.

Every word in the query must match; words match as prefixes. Chinese,
Japanese, and Korean text is segmented per character, so CJK queries
need no spaces. Returns up to 50 results, best match first.

Examples:
  aihub search "goroutine scheduling"
  aihub search 连接池
  aihub search --format json "rate limit"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	previews, err := store.SearchKeyword(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("searching conversations: %w", err)
	}

	if jsonOutput() {
		if previews == nil {
			return printJSON(cmd.OutOrStdout(), []struct{}{})
		}
		return printJSON(cmd.OutOrStdout(), previews)
	}

	if len(previews) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No conversations found for query: %s\n", query)
		}
		return nil
	}

	printPreviewTable(cmd, previews)
	return nil
}
