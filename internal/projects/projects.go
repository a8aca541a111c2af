// ABOUTME: Project-context persistence: portable note/summary bundles in contexts.json
// ABOUTME: A Manager owns one JSON file and the active-project pointer in the app config
package projects

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aihub/aihub/internal/config"
	"github.com/aihub/aihub/internal/models"
)

// DefaultTitle is used when a project is created without a title.
const DefaultTitle = "默认项目"

// ErrNotFound marks lookups of unknown project ids.
var ErrNotFound = fmt.Errorf("project not found")

// Manager reads and writes the project-context file. The active-project
// pointer lives in the app config, so the manager carries both paths.
type Manager struct {
	contextsPath string
	configPath   string
	now          func() int64
}

// NewManager creates a manager over the given contexts file and app config.
func NewManager(contextsPath, configPath string) *Manager {
	return &Manager{
		contextsPath: contextsPath,
		configPath:   configPath,
		now:          func() int64 { return time.Now().Unix() },
	}
}

// DefaultContextsPath returns the contexts file path next to the app config.
func DefaultContextsPath() string {
	return filepath.Join(config.DefaultConfigDir(), "contexts.json")
}

// List returns project summaries, most recently updated first.
func (m *Manager) List() ([]models.ProjectSummary, error) {
	projects, err := m.load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].UpdatedAt > projects[j].UpdatedAt
	})
	summaries := make([]models.ProjectSummary, len(projects))
	for i, p := range projects {
		summaries[i] = models.ProjectSummary{ID: p.ID, Title: p.Title, UpdatedAt: p.UpdatedAt}
	}
	return summaries, nil
}

// Get returns the full project context for id.
func (m *Manager) Get(id string) (*models.ProjectContext, error) {
	projects, err := m.load()
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if projects[i].ID == id {
			return &projects[i], nil
		}
	}
	return nil, ErrNotFound
}

// Create adds a new project and makes it active. An empty title falls back to
// the default.
func (m *Manager) Create(title string) (*models.ProjectContext, error) {
	projects, err := m.load()
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}
	ts := m.now()
	project := models.ProjectContext{
		ID:        newProjectID(),
		Title:     title,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	projects = append(projects, project)
	if err := m.save(projects); err != nil {
		return nil, err
	}
	if err := m.setActive(project.ID); err != nil {
		return nil, err
	}
	return &project, nil
}

// Update rewrites a project's title, notes, and summary. An empty title keeps
// the existing one.
func (m *Manager) Update(id, title, notes, summary string) error {
	projects, err := m.load()
	if err != nil {
		return err
	}
	for i := range projects {
		if projects[i].ID != id {
			continue
		}
		if t := strings.TrimSpace(title); t != "" {
			projects[i].Title = t
		}
		projects[i].Notes = notes
		projects[i].Summary = summary
		projects[i].UpdatedAt = m.now()
		return m.save(projects)
	}
	return ErrNotFound
}

// Delete removes a project. When it was the active project, the active
// pointer is cleared.
func (m *Manager) Delete(id string) error {
	projects, err := m.load()
	if err != nil {
		return err
	}
	kept := projects[:0:0]
	for _, p := range projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(projects) {
		return ErrNotFound
	}
	if err := m.save(kept); err != nil {
		return err
	}

	cfg, err := config.LoadApp(m.configPath)
	if err != nil {
		return err
	}
	if cfg.ActiveProjectID == id {
		cfg.ActiveProjectID = ""
		return config.SaveApp(m.configPath, cfg)
	}
	return nil
}

// EnsureActive returns the active project id, adopting the first stored
// project or creating a default one when nothing is active yet.
func (m *Manager) EnsureActive() (string, error) {
	cfg, err := config.LoadApp(m.configPath)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(cfg.ActiveProjectID) != "" {
		return cfg.ActiveProjectID, nil
	}

	projects, err := m.load()
	if err != nil {
		return "", err
	}
	if len(projects) > 0 {
		cfg.ActiveProjectID = projects[0].ID
		if err := config.SaveApp(m.configPath, cfg); err != nil {
			return "", err
		}
		return projects[0].ID, nil
	}

	project, err := m.Create("")
	if err != nil {
		return "", err
	}
	return project.ID, nil
}

func (m *Manager) setActive(id string) error {
	cfg, err := config.LoadApp(m.configPath)
	if err != nil {
		return err
	}
	cfg.ActiveProjectID = id
	return config.SaveApp(m.configPath, cfg)
}

func (m *Manager) load() ([]models.ProjectContext, error) {
	data, err := os.ReadFile(m.contextsPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read contexts: %w", err)
	}
	var projects []models.ProjectContext
	if err := json.Unmarshal(data, &projects); err != nil {
		// An unreadable file behaves like an empty one; the next save
		// replaces it.
		log.Printf("project contexts: parse failed, starting empty: %v", err)
		return nil, nil
	}
	return projects, nil
}

func (m *Manager) save(projects []models.ProjectContext) error {
	if err := os.MkdirAll(filepath.Dir(m.contextsPath), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if projects == nil {
		projects = []models.ProjectContext{}
	}
	data, err := json.MarshalIndent(projects, "", "  ")
	if err != nil {
		return fmt.Errorf("encode contexts: %w", err)
	}
	if err := os.WriteFile(m.contextsPath, data, 0o600); err != nil {
		return fmt.Errorf("write contexts: %w", err)
	}
	return nil
}

func newProjectID() string {
	return "proj_" + strings.SplitN(uuid.New().String(), "-", 2)[0]
}
