// ABOUTME: ProjectContext holds the notes and summary captured for one project
// ABOUTME: ProjectSummary is the lightweight listing form
package models

// ProjectContext is a portable context bundle: raw notes extracted from a chat
// page plus the generated summary.
type ProjectContext struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Notes     string `json:"notes"`
	Summary   string `json:"summary"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// ProjectSummary is what project listings return.
type ProjectSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	UpdatedAt int64  `json:"updated_at"`
}
