// ABOUTME: JSON app configuration: site catalog, navigation state, prompt settings
// ABOUTME: Loading normalizes stale data (dup sites, dangling ids) and writes the repair back
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/aihub/aihub/internal/models"
)

// DefaultSummaryPromptTemplate renders with {language} and {text}.
const DefaultSummaryPromptTemplate = "请把以下内容总结成可迁移的上下文（输出语言：{language}）：\n\n要求：\n1) 1段简短摘要（<=120字）\n2) 5-10条要点列表\n3) 关键约束/偏好（如有）\n\n输出为纯文本，结构：\n摘要: ...\n要点: - ...\n约束: - ...\n\n内容：\n{text}"

// maxRecentSites caps the most-recent-first recents list.
const maxRecentSites = 10

// AppConfig is the persisted application configuration.
type AppConfig struct {
	Sites                 []models.AiSite `json:"sites"`
	SiteOrder             []string        `json:"site_order"`
	PinnedSiteIDs         []string        `json:"pinned_site_ids"`
	RecentSiteIDs         []string        `json:"recent_site_ids"`
	Theme                 string          `json:"theme"`
	Language              string          `json:"language"`
	SummaryPromptTemplate string          `json:"summary_prompt_template"`
	AIAPIBaseURL          string          `json:"ai_api_base_url"`
	AIAPIModel            string          `json:"ai_api_model"`
	AIAPIKey              string          `json:"ai_api_key"`
	ActiveProjectID       string          `json:"active_project_id"`
}

// BuiltinSites returns the sites that ship with the app. Builtins can be
// reordered and pinned but never removed.
func BuiltinSites() []models.AiSite {
	return []models.AiSite{
		{ID: "deepseek", Name: "DeepSeek", URL: "https://chat.deepseek.com", Icon: "deepseek", Builtin: true},
		{ID: "doubao", Name: "豆包", URL: "https://www.doubao.com/chat/", Icon: "doubao", Builtin: true},
		{ID: "openai", Name: "ChatGPT", URL: "https://chatgpt.com", Icon: "openai", Builtin: true},
		{ID: "qianwen", Name: "通义千问", URL: "https://tongyi.aliyun.com/qianwen/", Icon: "qianwen", Builtin: true},
	}
}

// DefaultAppConfig returns a fresh configuration with the builtin sites.
func DefaultAppConfig() *AppConfig {
	sites := BuiltinSites()
	order := make([]string, len(sites))
	for i, s := range sites {
		order[i] = s.ID
	}
	return &AppConfig{
		Sites:                 sites,
		SiteOrder:             order,
		PinnedSiteIDs:         []string{},
		RecentSiteIDs:         []string{},
		Theme:                 "dark",
		Language:              "zh-CN",
		SummaryPromptTemplate: DefaultSummaryPromptTemplate,
		AIAPIBaseURL:          DefaultBaseURL,
	}
}

// DefaultConfigDir returns the config directory following XDG conventions.
func DefaultConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".config", "aihub")
	}
	return filepath.Join(base, "aihub")
}

// DefaultConfigPath returns the app config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// LoadApp reads the app config at path. A missing or unparseable file yields
// the default configuration so a damaged config never locks the user out.
// Loaded configs are normalized and written back so stale data does not keep
// resurfacing.
func LoadApp(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultAppConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultAppConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		log.Printf("app config: parse failed, using defaults: %v", err)
		cfg = DefaultAppConfig()
	}
	cfg.Normalize()
	if err := SaveApp(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveApp writes the app config to path, creating parent directories.
func SaveApp(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Normalize repairs a loaded configuration: duplicate sites collapse, missing
// builtins come back, and site order, pins, and recents drop unknown or
// repeated ids while keeping their relative order.
func (c *AppConfig) Normalize() {
	seen := make(map[string]bool)
	sites := c.Sites[:0:0]
	for _, s := range c.Sites {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		sites = append(sites, s)
	}
	c.Sites = sites

	for _, builtin := range BuiltinSites() {
		if !seen[builtin.ID] {
			c.Sites = append(c.Sites, builtin)
			c.SiteOrder = append(c.SiteOrder, builtin.ID)
			seen[builtin.ID] = true
		}
	}

	known := make(map[string]bool, len(c.Sites))
	for _, s := range c.Sites {
		known[s.ID] = true
	}

	// Order keeps every known site exactly once, appending any the stored
	// order missed.
	inOrder := make(map[string]bool)
	order := make([]string, 0, len(c.Sites))
	for _, id := range c.SiteOrder {
		if known[id] && !inOrder[id] {
			inOrder[id] = true
			order = append(order, id)
		}
	}
	for _, s := range c.Sites {
		if !inOrder[s.ID] {
			inOrder[s.ID] = true
			order = append(order, s.ID)
		}
	}
	c.SiteOrder = order

	c.PinnedSiteIDs = pruneIDs(c.PinnedSiteIDs, known)
	c.RecentSiteIDs = pruneIDs(c.RecentSiteIDs, known)

	c.AIAPIBaseURL = NormalizeBaseURL(c.AIAPIBaseURL)
	if strings.TrimSpace(c.SummaryPromptTemplate) == "" {
		c.SummaryPromptTemplate = DefaultSummaryPromptTemplate
	}
	if strings.TrimSpace(c.Language) == "" {
		c.Language = "zh-CN"
	}
}

func pruneIDs(ids []string, known map[string]bool) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !known[id] || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Site returns the site with the given id, or nil.
func (c *AppConfig) Site(id string) *models.AiSite {
	for i := range c.Sites {
		if c.Sites[i].ID == id {
			return &c.Sites[i]
		}
	}
	return nil
}

// AddCustomSite appends a user-defined site and returns it.
func (c *AppConfig) AddCustomSite(name, url, icon string) models.AiSite {
	site := models.AiSite{
		ID:      "custom_" + strings.SplitN(uuid.New().String(), "-", 2)[0],
		Name:    name,
		URL:     url,
		Icon:    icon,
		Builtin: false,
	}
	c.Sites = append(c.Sites, site)
	c.SiteOrder = append(c.SiteOrder, site.ID)
	return site
}

// RemoveSite deletes a custom site and scrubs it from order, pins, and
// recents. Builtin sites cannot be removed.
func (c *AppConfig) RemoveSite(id string) error {
	site := c.Site(id)
	if site == nil {
		return fmt.Errorf("site %s not found", id)
	}
	if site.Builtin {
		return fmt.Errorf("site %s is builtin and cannot be removed", id)
	}

	sites := c.Sites[:0:0]
	for _, s := range c.Sites {
		if s.ID != id {
			sites = append(sites, s)
		}
	}
	c.Sites = sites

	drop := func(ids []string) []string {
		out := ids[:0:0]
		for _, v := range ids {
			if v != id {
				out = append(out, v)
			}
		}
		return out
	}
	c.SiteOrder = drop(c.SiteOrder)
	c.PinnedSiteIDs = drop(c.PinnedSiteIDs)
	c.RecentSiteIDs = drop(c.RecentSiteIDs)
	return nil
}

// SetPinned pins or unpins a site. Pinning moves it to the front.
func (c *AppConfig) SetPinned(id string, pinned bool) error {
	if c.Site(id) == nil {
		return fmt.Errorf("site %s not found", id)
	}
	ids := make([]string, 0, len(c.PinnedSiteIDs)+1)
	for _, v := range c.PinnedSiteIDs {
		if v != id {
			ids = append(ids, v)
		}
	}
	if pinned {
		ids = append([]string{id}, ids...)
	}
	c.PinnedSiteIDs = ids
	return nil
}

// TouchRecent records a site visit: most recent first, capped, no duplicates.
func (c *AppConfig) TouchRecent(id string) {
	if c.Site(id) == nil {
		return
	}
	ids := make([]string, 0, len(c.RecentSiteIDs)+1)
	ids = append(ids, id)
	for _, v := range c.RecentSiteIDs {
		if v != id {
			ids = append(ids, v)
		}
	}
	if len(ids) > maxRecentSites {
		ids = ids[:maxRecentSites]
	}
	c.RecentSiteIDs = ids
}

// SummaryPromptFor returns the prompt template for a site, preferring the
// site's override.
func (c *AppConfig) SummaryPromptFor(siteID string) string {
	if site := c.Site(siteID); site != nil && strings.TrimSpace(site.SummaryPromptOverride) != "" {
		return site.SummaryPromptOverride
	}
	return c.SummaryPromptTemplate
}
