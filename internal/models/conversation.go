// ABOUTME: Conversation is a captured AI-chat transcript tied to a site and tab
// ABOUTME: Preview is the truncated read-only projection used by listings and search
package models

import (
	"strings"
	"unicode/utf8"
)

// PreviewSnippetLen caps the content snippet carried by a Preview, in runes.
const PreviewSnippetLen = 200

// Conversation is one captured transcript. TabID is optional; when present it
// is unique across rows and acts as the upsert key.
type Conversation struct {
	ID        int64  `json:"id"`
	TabID     string `json:"tab_id,omitempty"`
	SiteName  string `json:"site_name"`
	URL       string `json:"url"`
	Content   string `json:"content"`
	Markdown  string `json:"markdown,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// Preview is a derived projection of a Conversation for listings and search
// results. It is never persisted.
type Preview struct {
	ID        int64  `json:"id"`
	SiteName  string `json:"site_name"`
	URL       string `json:"url"`
	Snippet   string `json:"snippet"`
	CreatedAt int64  `json:"created_at"`
}

// HasCode reports whether the conversation's markdown carries a fenced code block.
func (c *Conversation) HasCode() bool {
	return strings.Contains(c.Markdown, "```")
}

// Preview builds the read-only projection for this conversation.
func (c *Conversation) Preview() Preview {
	return Preview{
		ID:        c.ID,
		SiteName:  c.SiteName,
		URL:       c.URL,
		Snippet:   Snippet(c.Content),
		CreatedAt: c.CreatedAt,
	}
}

// Snippet collapses whitespace and truncates text to PreviewSnippetLen runes.
func Snippet(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= PreviewSnippetLen {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:PreviewSnippetLen]))
}
