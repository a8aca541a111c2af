// ABOUTME: CLI commands managing project contexts
// ABOUTME: list/create/show/update/delete over contexts.json
package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aihub/aihub/internal/config"
	"github.com/aihub/aihub/internal/projects"
)

var (
	projectTitle     string
	projectNotesFile string
	projectSummary   string
)

func newProjectManager() *projects.Manager {
	return projects.NewManager(projects.DefaultContextsPath(), config.DefaultConfigPath())
}

// NewProjectsCmd creates the projects command group
func NewProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage project contexts",
		Long: `Manage project contexts: portable bundles of notes and summaries
that travel between AI sites.`,
	}

	cmd.AddCommand(
		newProjectsListCmd(),
		newProjectsCreateCmd(),
		newProjectsShowCmd(),
		newProjectsUpdateCmd(),
		newProjectsDeleteCmd(),
	)
	return cmd
}

func newProjectsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects, most recently updated first",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := newProjectManager()
			summaries, err := m.List()
			if err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(cmd.OutOrStdout(), summaries)
			}
			if len(summaries) == 0 {
				if !quiet {
					fmt.Fprintln(cmd.OutOrStdout(), "No projects yet")
				}
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ID\tTITLE\tUPDATED\n")
			fmt.Fprintf(w, "--\t-----\t-------\n")
			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, truncate(s.Title, 30), formatTime(s.UpdatedAt))
			}
			return w.Flush()
		},
	}
}

func newProjectsCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create [title]",
		Short: "Create a project and make it active",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := ""
			if len(args) > 0 {
				title = args[0]
			}
			p, err := newProjectManager().Create(title)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(cmd.OutOrStdout(), p)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Created project %s (%s)\n", p.Title, p.ID)
			}
			return nil
		},
	}
}

func newProjectsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a project's notes and summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newProjectManager().Get(args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(cmd.OutOrStdout(), p)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title:   %s\n", p.Title)
			fmt.Fprintf(out, "Updated: %s\n", formatTime(p.UpdatedAt))
			if p.Summary != "" {
				fmt.Fprintf(out, "\nSummary:\n%s\n", p.Summary)
			}
			if p.Notes != "" {
				fmt.Fprintf(out, "\nNotes:\n%s\n", p.Notes)
			}
			return nil
		},
	}
}

func newProjectsUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a project's title, notes, or summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := newProjectManager()
			current, err := m.Get(args[0])
			if err != nil {
				return err
			}

			notes := current.Notes
			if projectNotesFile != "" {
				data, err := os.ReadFile(projectNotesFile)
				if err != nil {
					return fmt.Errorf("reading notes file: %w", err)
				}
				notes = string(data)
			}
			summary := current.Summary
			if cmd.Flags().Changed("summary") {
				summary = projectSummary
			}

			if err := m.Update(args[0], projectTitle, notes, summary); err != nil {
				return err
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated project %s\n", args[0])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&projectTitle, "title", "", "New title (empty keeps the current one)")
	cmd.Flags().StringVar(&projectNotesFile, "notes-file", "", "Replace notes with file contents")
	cmd.Flags().StringVar(&projectSummary, "summary", "", "Replace the summary text")
	return cmd
}

func newProjectsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newProjectManager().Delete(args[0]); err != nil {
				return err
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted project %s\n", args[0])
			}
			return nil
		},
	}
}
