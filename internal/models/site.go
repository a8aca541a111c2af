// ABOUTME: AiSite describes one AI chat site shown in the AIHub sidebar
// ABOUTME: Builtin sites ship with the app; custom sites are user-added
package models

// AiSite is one AI chat site. Builtin sites cannot be removed.
type AiSite struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	URL                   string `json:"url"`
	Icon                  string `json:"icon"`
	Builtin               bool   `json:"builtin"`
	SummaryPromptOverride string `json:"summary_prompt_override,omitempty"`
}
