// ABOUTME: CLI commands managing the AI site catalog
// ABOUTME: list/add/remove/pin operate on the JSON app config
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aihub/aihub/internal/config"
)

var (
	siteAddURL  string
	siteAddIcon string
	siteUnpin   bool
)

// NewSitesCmd creates the sites command group
func NewSitesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sites",
		Short: "Manage the AI site catalog",
		Long: `Manage the catalog of AI sites conversations are attributed to.

Builtin sites (DeepSeek, 豆包, ChatGPT, 通义千问) cannot be removed.`,
	}

	cmd.AddCommand(newSitesListCmd(), newSitesAddCmd(), newSitesRemoveCmd(), newSitesPinCmd())
	return cmd
}

func newSitesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured sites",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadApp(config.DefaultConfigPath())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(cmd.OutOrStdout(), cfg.Sites)
			}

			pinned := make(map[string]bool, len(cfg.PinnedSiteIDs))
			for _, id := range cfg.PinnedSiteIDs {
				pinned[id] = true
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ID\tNAME\tURL\tFLAGS\n")
			fmt.Fprintf(w, "--\t----\t---\t-----\n")
			for _, id := range cfg.SiteOrder {
				site := cfg.Site(id)
				if site == nil {
					continue
				}
				var flags []byte
				if site.Builtin {
					flags = append(flags, 'b')
				}
				if pinned[site.ID] {
					flags = append(flags, 'p')
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", site.ID, site.Name, truncate(site.URL, 40), flags)
			}
			return w.Flush()
		},
	}
}

func newSitesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if siteAddURL == "" {
				return fmt.Errorf("--url is required")
			}
			path := config.DefaultConfigPath()
			cfg, err := config.LoadApp(path)
			if err != nil {
				return err
			}
			site := cfg.AddCustomSite(args[0], siteAddURL, siteAddIcon)
			if err := config.SaveApp(path, cfg); err != nil {
				return err
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Added site %s (%s)\n", site.Name, site.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&siteAddURL, "url", "", "Site URL (required)")
	cmd.Flags().StringVar(&siteAddIcon, "icon", "", "Icon name")
	return cmd
}

func newSitesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a custom site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultConfigPath()
			cfg, err := config.LoadApp(path)
			if err != nil {
				return err
			}
			if err := cfg.RemoveSite(args[0]); err != nil {
				return err
			}
			if err := config.SaveApp(path, cfg); err != nil {
				return err
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed site %s\n", args[0])
			}
			return nil
		},
	}
}

func newSitesPinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin <id>",
		Short: "Pin a site to the front of the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultConfigPath()
			cfg, err := config.LoadApp(path)
			if err != nil {
				return err
			}
			if err := cfg.SetPinned(args[0], !siteUnpin); err != nil {
				return err
			}
			if err := config.SaveApp(path, cfg); err != nil {
				return err
			}
			if !quiet {
				verb := "Pinned"
				if siteUnpin {
					verb = "Unpinned"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s site %s\n", verb, args[0])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&siteUnpin, "unpin", false, "Unpin instead of pinning")
	return cmd
}
