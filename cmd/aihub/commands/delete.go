// ABOUTME: CLI commands removing saved conversations
// ABOUTME: delete removes by id; clear wipes the whole history after confirmation
package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var clearYes bool

// NewDeleteCmd creates delete command
func NewDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id> [id...]",
		Short: "Delete conversations",
		Long: `Delete conversations by id, including their search index entries and
embeddings. Unknown ids are ignored.

Examples:
  aihub delete 42
  aihub delete 1 2 3
  aihub delete 1,2,3`,
		Args: cobra.MinimumNArgs(1),
		RunE: runDelete,
	}

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Delete(cmd.Context(), ids); err != nil {
		return fmt.Errorf("deleting conversations: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %d conversation(s)\n", len(ids))
	}
	return nil
}

// NewClearCmd creates clear command
func NewClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete ALL conversations",
		Long: `Delete every saved conversation. This cannot be undone.

Examples:
  aihub clear
  aihub clear --yes`,
		RunE: runClear,
	}

	cmd.Flags().BoolVar(&clearYes, "yes", false, "Skip the confirmation prompt")

	return cmd
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		fmt.Fprint(cmd.OutOrStdout(), "Delete ALL saved conversations? This cannot be undone. [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
			return nil
		}
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}

	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ History cleared")
	}
	return nil
}
