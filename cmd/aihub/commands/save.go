// ABOUTME: CLI command to save a captured conversation
// ABOUTME: Takes content from an argument, file, or stdin; upserts by tab id
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aihub/aihub/internal/storage"
)

var (
	saveSite     string
	saveURL      string
	saveTabID    string
	saveMarkdown string
	saveFile     string
)

// NewSaveCmd creates save command
func NewSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save [text]",
		Short: "Save a conversation",
		Long: `Save a captured AI conversation to local history.

Content comes from the argument, --file, or stdin. When --tab-id matches
a previously saved conversation, that conversation is updated in place.

Examples:
  aihub save --site ChatGPT "Q: how do goroutines work ..."
  aihub save --site DeepSeek --tab-id tab-42 --file transcript.txt
  pbpaste | aihub save --site 豆包 --url https://www.doubao.com/chat/`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSave,
	}

	cmd.Flags().StringVar(&saveSite, "site", "", "Name of the AI site (required)")
	cmd.Flags().StringVar(&saveURL, "url", "", "Page URL the conversation came from")
	cmd.Flags().StringVar(&saveTabID, "tab-id", "", "Stable tab identifier used as the upsert key")
	cmd.Flags().StringVar(&saveMarkdown, "markdown-file", "", "Read a markdown rendition from file")
	cmd.Flags().StringVar(&saveFile, "file", "", "Read conversation content from file")
	_ = cmd.MarkFlagRequired("site")

	return cmd
}

func runSave(cmd *cobra.Command, args []string) error {
	var content string
	if saveFile != "" {
		data, err := os.ReadFile(saveFile)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		content = string(data)
	} else if len(args) > 0 {
		content = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		content = string(data)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("no content provided")
	}

	var markdown string
	if saveMarkdown != "" {
		data, err := os.ReadFile(saveMarkdown)
		if err != nil {
			return fmt.Errorf("reading markdown file: %w", err)
		}
		markdown = string(data)
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	attachEmbedder(store)

	conv, err := store.Save(cmd.Context(), storage.SaveInput{
		TabID:    saveTabID,
		SiteName: saveSite,
		URL:      saveURL,
		Content:  content,
		Markdown: markdown,
	})
	if err != nil {
		return fmt.Errorf("saving conversation: %w", err)
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), conv)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved conversation %d (%s)\n", conv.ID, conv.SiteName)
	}
	return nil
}
