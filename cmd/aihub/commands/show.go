// ABOUTME: CLI command showing one conversation in full
// ABOUTME: Prints untruncated content; --markdown prefers the markdown rendition
package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var showMarkdown bool

// NewShowCmd creates show command
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a conversation in full",
		Long: `Show one conversation with its complete, untruncated content.

Examples:
  aihub show 42
  aihub show 42 --markdown
  aihub show 42 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}

	cmd.Flags().BoolVar(&showMarkdown, "markdown", false, "Print the markdown rendition when present")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[:1])
	if err != nil {
		return err
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	conv, err := store.Get(cmd.Context(), ids[0])
	if err != nil {
		return fmt.Errorf("fetching conversation: %w", err)
	}
	if conv == nil {
		return fmt.Errorf("conversation %d not found", ids[0])
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), conv)
	}

	out := cmd.OutOrStdout()
	if !quiet {
		fmt.Fprintf(out, "ID:      %d\n", conv.ID)
		fmt.Fprintf(out, "Site:    %s\n", conv.SiteName)
		if conv.URL != "" {
			fmt.Fprintf(out, "URL:     %s\n", conv.URL)
		}
		if conv.TabID != "" {
			fmt.Fprintf(out, "Tab:     %s\n", conv.TabID)
		}
		fmt.Fprintf(out, "Saved:   %s\n\n", time.Unix(conv.CreatedAt, 0).Format("2006-01-02 15:04:05"))
	}

	if showMarkdown && conv.Markdown != "" {
		fmt.Fprintln(out, conv.Markdown)
	} else {
		fmt.Fprintln(out, conv.Content)
	}
	return nil
}
