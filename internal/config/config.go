// ABOUTME: Centralized configuration for the AIHub history tools
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the OpenAI-compatible endpoint used when none is configured.
const DefaultBaseURL = "https://api.openai.com/v1"

// Settings holds environment-driven configuration. API settings in the app
// config file take precedence; these are the fallbacks and tuning knobs.
type Settings struct {
	// AI API settings
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Storage settings
	DBPath string
}

// Load reads configuration from environment variables
func Load() (*Settings, error) {
	s := &Settings{
		// Defaults
		APIKey:         os.Getenv("OPENAI_API_KEY"),
		BaseURL:        NormalizeBaseURL(getEnv("AIHUB_API_BASE_URL", DefaultBaseURL)),
		ChatModel:      getEnv("AIHUB_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel: getEnv("AIHUB_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:        getEnvDuration("AIHUB_API_TIMEOUT", 30*time.Second),
		MaxRetries:     getEnvInt("AIHUB_API_MAX_RETRIES", 3),
		RetryDelay:     getEnvDuration("AIHUB_API_RETRY_DELAY", 2*time.Second),
		DBPath:         os.Getenv("AIHUB_DB_PATH"),
	}

	return s, s.Validate()
}

func (s *Settings) Validate() error {
	if s.MaxRetries < 0 || s.MaxRetries > 10 {
		return fmt.Errorf("AIHUB_API_MAX_RETRIES must be 0-10, got %d", s.MaxRetries)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("AIHUB_API_TIMEOUT must be positive, got %v", s.Timeout)
	}
	return nil
}

// NormalizeBaseURL trims whitespace and trailing slashes, falling back to the
// default endpoint when the result is empty.
func NormalizeBaseURL(u string) string {
	u = strings.TrimRight(strings.TrimSpace(u), "/")
	if u == "" {
		return DefaultBaseURL
	}
	return u
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
