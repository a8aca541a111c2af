// ABOUTME: CLI command for filtered, paginated history browsing
// ABOUTME: Combines keyword, site, time range, and code-only filters with a total count
package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aihub/aihub/internal/storage/sqlite"
)

var (
	historyKeyword string
	historySite    string
	historyFrom    string
	historyTo      string
	historyCode    bool
	historyLimit   int
	historyOffset  int
)

// NewHistoryCmd creates history command
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse conversation history",
		Long: `Browse saved conversations with filters and pagination.

All filters combine with AND. Time bounds accept YYYY-MM-DD dates or
RFC 3339 timestamps and are inclusive. The footer shows the total number
of matches regardless of page size.

Examples:
  aihub history --site ChatGPT
  aihub history --keyword "docker compose" --code-only
  aihub history --from 2026-01-01 --to 2026-06-30 --limit 50
  aihub history --offset 20 --format json`,
		RunE: runHistory,
	}

	cmd.Flags().StringVar(&historyKeyword, "keyword", "", "Full-text filter; all words must match")
	cmd.Flags().StringVar(&historySite, "site", "", "Only conversations from this site")
	cmd.Flags().StringVar(&historyFrom, "from", "", "Inclusive start date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&historyTo, "to", "", "Inclusive end date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().BoolVar(&historyCode, "code-only", false, "Only conversations containing a fenced code block")
	cmd.Flags().IntVar(&historyLimit, "limit", 20, "Page size (1-50)")
	cmd.Flags().IntVar(&historyOffset, "offset", 0, "Rows to skip")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(historyLimit, "limit"); err != nil {
		return err
	}
	if historyOffset < 0 {
		return fmt.Errorf("offset must not be negative, got %d", historyOffset)
	}

	filter := sqlite.HistoryFilter{
		Keyword:  historyKeyword,
		SiteName: historySite,
		CodeOnly: historyCode,
		Limit:    historyLimit,
		Offset:   historyOffset,
	}
	var err error
	if filter.CreatedFrom, err = parseTimeBound(historyFrom, false); err != nil {
		return err
	}
	if filter.CreatedTo, err = parseTimeBound(historyTo, true); err != nil {
		return err
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	page, err := store.History(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("listing history: %w", err)
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), page)
	}

	if len(page.Conversations) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No conversations match the given filters")
		}
		return nil
	}

	printPreviewTable(cmd, page.Conversations)
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%d match(es) total\n", page.Total)
	}
	return nil
}

// parseTimeBound parses a date or timestamp into unix seconds. A bare date
// used as an end bound covers the whole day.
func parseTimeBound(s string, endOfDay bool) (int64, error) {
	if s == "" {
		return 0, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Unix(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: use YYYY-MM-DD or RFC 3339", s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t.Unix(), nil
}
