// ABOUTME: CLI command for embedding-based semantic search
// ABOUTME: Embeds the query via the configured API and ranks by cosine similarity
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewSemanticCmd creates semantic command
func NewSemanticCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "semantic <query>",
		Short: "Search conversations by meaning",
		Long: `Search saved conversations by meaning using embedding similarity.

Requires an embedding API: set OPENAI_API_KEY (or configure a key in the
app config) first. Only conversations saved with an embedding of the same
dimension participate.

Examples:
  aihub semantic "that chat about connection pooling"
  aihub semantic --format json "debugging the race condition"`,
		Args: cobra.ExactArgs(1),
		RunE: runSemantic,
	}

	return cmd
}

func runSemantic(cmd *cobra.Command, args []string) error {
	query := args[0]

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	client, _, err := newLLMClient()
	if err != nil {
		return fmt.Errorf("semantic search needs an embedding API: %w", err)
	}
	store.SetEmbedder(client)

	results, err := store.SearchSemanticText(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("semantic search: %w", err)
	}

	if jsonOutput() {
		if results == nil {
			return printJSON(cmd.OutOrStdout(), []struct{}{})
		}
		return printJSON(cmd.OutOrStdout(), results)
	}

	if len(results) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No conversations found for query: %s\n", query)
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SCORE\tID\tSITE\tPREVIEW\n")
	fmt.Fprintf(w, "-----\t--\t----\t-------\n")
	for _, r := range results {
		fmt.Fprintf(w, "%.3f\t%d\t%s\t%s\n",
			r.Similarity,
			r.ID,
			truncate(r.SiteName, 16),
			truncate(r.Snippet, 60))
	}
	_ = w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d result(s)\n", len(results))
	}
	return nil
}
