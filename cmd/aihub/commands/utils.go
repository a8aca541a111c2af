// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Output helpers, id parsing, and store/client construction
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/aihub/aihub/internal/config"
	"github.com/aihub/aihub/internal/llm"
	"github.com/aihub/aihub/internal/storage"
)

// truncate shortens a string to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a unix timestamp for display
func formatTime(unix int64) string {
	t := time.Unix(unix, 0)
	diff := time.Since(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	} else if diff < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	} else if diff < 7*24*time.Hour {
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
	return t.Format("2006-01-02")
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}

// parseIDs converts id arguments to int64s
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid id %q", part)
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no ids given")
	}
	return ids, nil
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintf(w, "%s\n", data)
	return nil
}

// jsonOutput reports whether the user asked for JSON
func jsonOutput() bool {
	return outputFormat == "json"
}

// openStorage opens the history store using env configuration.
func openStorage() (*storage.Storage, error) {
	_ = godotenv.Load()

	settings, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	store, err := storage.New(settings.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, nil
}

// newLLMClient builds an API client from the app config and environment.
// The app config's key and endpoint win over environment values.
func newLLMClient() (*llm.Client, *config.AppConfig, error) {
	_ = godotenv.Load()

	settings, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}
	appCfg, err := config.LoadApp(config.DefaultConfigPath())
	if err != nil {
		return nil, nil, fmt.Errorf("loading app config: %w", err)
	}

	clientCfg := llm.ConfigFromSettings(settings)
	if appCfg.AIAPIKey != "" {
		clientCfg.APIKey = appCfg.AIAPIKey
	}
	if appCfg.AIAPIBaseURL != "" {
		clientCfg.BaseURL = appCfg.AIAPIBaseURL
	}
	if appCfg.AIAPIModel != "" {
		clientCfg.ChatModel = appCfg.AIAPIModel
	}

	client, err := llm.NewClient(clientCfg)
	if err != nil {
		return nil, nil, err
	}
	return client, appCfg, nil
}

// attachEmbedder wires an embedder onto the store when an API key is
// configured. Without one the store stays fully usable for keyword search.
func attachEmbedder(store *storage.Storage) {
	client, _, err := newLLMClient()
	if err != nil {
		return
	}
	store.SetEmbedder(client)
}
