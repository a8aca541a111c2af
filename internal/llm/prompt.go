// ABOUTME: Summary prompt rendering: template placeholders and language labels
// ABOUTME: Templates use {language} and {text}; missing placeholders are appended
package llm

import "strings"

// LanguageLabel maps a BCP-47-ish language code to the label injected into
// summary prompts. Unknown codes fall back to English.
func LanguageLabel(code string) string {
	switch code {
	case "zh-CN", "zh":
		return "中文"
	case "en", "en-US", "en-GB":
		return "English"
	case "ja", "ja-JP":
		return "日本語"
	case "ko", "ko-KR":
		return "한국어"
	case "es", "es-ES", "es-AR":
		return "Español"
	case "fr", "fr-FR":
		return "Français"
	default:
		return "English"
	}
}

// BuildSummaryPrompt renders a summary template. {language} and {text} are
// substituted; when the template lacks a placeholder, the value is appended
// so neither the language hint nor the source text can be lost.
func BuildSummaryPrompt(template, language, text string) string {
	rendered := strings.ReplaceAll(template, "{language}", language)
	rendered = strings.ReplaceAll(rendered, "{text}", text)
	if !strings.Contains(template, "{language}") {
		rendered += "\n\nLanguage: " + language
	}
	if !strings.Contains(template, "{text}") {
		rendered += "\n\n" + text
	}
	return rendered
}
