// ABOUTME: CLI command generating a portable summary of text or a saved conversation
// ABOUTME: Renders the configured prompt template and calls the chat API
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	summarizeID     int64
	summarizeSiteID string
	summarizeSaveTo string
)

// NewSummarizeCmd creates summarize command
func NewSummarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize [text]",
		Short: "Summarize text or a saved conversation",
		Long: `Generate a portable context summary using the configured prompt
template and chat API.

Input comes from the argument, stdin, or --id to summarize a saved
conversation. Site prompt overrides apply when --site-id is given.
With --save-to the summary is written into a project context.

Examples:
  aihub summarize --id 42
  cat notes.txt | aihub summarize
  aihub summarize --id 42 --save-to proj_1a2b3c4d`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSummarize,
	}

	cmd.Flags().Int64Var(&summarizeID, "id", 0, "Summarize a saved conversation by id")
	cmd.Flags().StringVar(&summarizeSiteID, "site-id", "", "Apply this site's prompt override")
	cmd.Flags().StringVar(&summarizeSaveTo, "save-to", "", "Store the summary in this project")

	return cmd
}

func runSummarize(cmd *cobra.Command, args []string) error {
	var text string
	switch {
	case summarizeID > 0:
		store, err := openStorage()
		if err != nil {
			return err
		}
		conv, err := store.Get(cmd.Context(), summarizeID)
		cerr := store.Close()
		if err != nil {
			return fmt.Errorf("fetching conversation: %w", err)
		}
		if cerr != nil {
			return cerr
		}
		if conv == nil {
			return fmt.Errorf("conversation %d not found", summarizeID)
		}
		text = conv.Content
	case len(args) > 0:
		text = args[0]
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("no text to summarize")
	}

	client, appCfg, err := newLLMClient()
	if err != nil {
		return fmt.Errorf("summarization needs a chat API: %w", err)
	}

	summary, err := client.Summarize(appCfg.SummaryPromptFor(summarizeSiteID), appCfg.Language, text)
	if err != nil {
		return fmt.Errorf("summarizing: %w", err)
	}

	if summarizeSaveTo != "" {
		m := newProjectManager()
		current, err := m.Get(summarizeSaveTo)
		if err != nil {
			return err
		}
		if err := m.Update(summarizeSaveTo, "", current.Notes, summary); err != nil {
			return fmt.Errorf("saving summary to project: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Summary saved to project %s\n", summarizeSaveTo)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), summary)
	return nil
}
