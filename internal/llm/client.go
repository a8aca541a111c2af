// ABOUTME: OpenAI-compatible client for conversation summaries and embeddings
// ABOUTME: Supports custom base URLs so self-hosted and proxy endpoints work
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/aihub/aihub/internal/config"
	"github.com/aihub/aihub/internal/util"
)

const (
	// DefaultChatModel is the default model for summaries
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = openai.SmallEmbedding3

	systemPrompt = "你是一个擅长提炼上下文与约束的助手。"

	// Summaries should stay faithful to the source text.
	summaryTemperature = 0.2
)

// ClientConfig holds configuration for the API client
type ClientConfig struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel openai.EmbeddingModel
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// ConfigFromSettings builds a client configuration from env settings.
func ConfigFromSettings(s *config.Settings) *ClientConfig {
	chatModel := s.ChatModel
	if chatModel == "" {
		chatModel = DefaultChatModel
	}
	embeddingModel := openai.EmbeddingModel(s.EmbeddingModel)
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}
	return &ClientConfig{
		APIKey:         s.APIKey,
		BaseURL:        s.BaseURL,
		ChatModel:      chatModel,
		EmbeddingModel: embeddingModel,
		Timeout:        s.Timeout,
		MaxRetries:     s.MaxRetries,
		RetryDelay:     s.RetryDelay,
	}
}

// Client wraps the OpenAI-compatible API with retry logic
type Client struct {
	api            *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	timeout        time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

// NewClient creates a client for the configured endpoint.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if base := config.NormalizeBaseURL(cfg.BaseURL); base != "" {
		apiCfg.BaseURL = base
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		api:            openai.NewClientWithConfig(apiCfg),
		chatModel:      cfg.ChatModel,
		embeddingModel: cfg.EmbeddingModel,
		timeout:        timeout,
		maxRetries:     cfg.MaxRetries,
		retryDelay:     cfg.RetryDelay,
	}, nil
}

// Summarize renders the prompt template against the captured text and asks
// the chat model for a portable summary. Empty responses are an error.
func (c *Client) Summarize(template, languageCode, text string) (string, error) {
	prompt := BuildSummaryPrompt(template, LanguageLabel(languageCode), text)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(c.retryDelay, attempt))
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			Temperature: summaryTemperature,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("attempt %d: no completion choices returned", attempt+1)
			continue
		}
		content := resp.Choices[0].Message.Content
		if strings.TrimSpace(content) == "" {
			lastErr = fmt.Errorf("attempt %d: empty completion", attempt+1)
			continue
		}
		return content, nil
	}

	return "", fmt.Errorf("failed to summarize after %d attempts: %w", c.maxRetries+1, lastErr)
}

// GenerateEmbedding generates an embedding vector for text.
func (c *Client) GenerateEmbedding(text string) ([]float64, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(c.retryDelay, attempt))
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: c.embeddingModel,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Data) == 0 {
			lastErr = fmt.Errorf("attempt %d: no embeddings returned", attempt+1)
			continue
		}

		// Convert []float32 to []float64
		embedding32 := resp.Data[0].Embedding
		embedding64 := make([]float64, len(embedding32))
		for i, v := range embedding32 {
			embedding64[i] = float64(v)
		}
		return embedding64, nil
	}

	return nil, fmt.Errorf("failed to generate embedding after %d attempts: %w", c.maxRetries+1, lastErr)
}
