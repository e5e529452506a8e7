package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stacklume/stacklume/pkg/dashboard"
)

// dashboardCommand creates the dashboard management command.
func (c *CLI) dashboardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Manage dashboards",
	}

	cmd.AddCommand(c.dashboardListCommand())
	cmd.AddCommand(c.dashboardShowCommand())
	cmd.AddCommand(c.dashboardCreateCommand())
	cmd.AddCommand(c.dashboardImportCommand())
	cmd.AddCommand(c.dashboardDeleteCommand())

	return cmd
}

// dashboardListCommand creates the "dashboard list" subcommand.
func (c *CLI) dashboardListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all dashboards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, _, err := c.openEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			list, err := env.Store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list dashboards: %w", err)
			}
			if len(list) == 0 {
				printInfo("No dashboards yet")
				printNextStep("Create one", "stacklume dashboard create \"My Dashboard\"")
				return nil
			}

			for _, d := range list {
				printKeyValue(d.Title, d.ID)
				printDetail("%d widgets · updated %s", len(d.Widgets), d.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

// dashboardShowCommand creates the "dashboard show" subcommand.
func (c *CLI) dashboardShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <dashboard-id>",
		Short: "Show a dashboard and its canonical arrangement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, _, err := c.openEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			d, err := env.Store.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load dashboard %s: %w", args[0], err)
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(d)
			}

			fmt.Println(StyleTitle.Render(d.Title))
			printKeyValue("id", d.ID)
			printKeyValue("owner", d.Owner)
			printKeyValue("widgets", fmt.Sprintf("%d", len(d.Widgets)))
			canonical := d.EffectiveProfiles().Canonical()
			printKeyValue("grid", fmt.Sprintf("%d columns (%s)", canonical.Columns, canonical.Name))
			printNewline()
			for _, p := range d.Canonical {
				kind := ""
				if w, ok := d.Widget(p.ID); ok {
					kind = w.Kind
				}
				printDetail("%-16s %-10s x:%d y:%d w:%d h:%d", p.ID, kind, p.X, p.Y, p.W, p.H)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the dashboard as JSON")
	return cmd
}

// dashboardCreateCommand creates the "dashboard create" subcommand.
func (c *CLI) dashboardCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <title>",
		Short: "Create an empty dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, cfg, err := c.openEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			d := dashboard.New(args[0])
			d.Profiles = cfg.ProfileSet()
			if err := d.Validate(); err != nil {
				return err
			}
			if err := env.Store.Save(cmd.Context(), d); err != nil {
				return fmt.Errorf("save dashboard: %w", err)
			}

			printSuccess("Created %q", d.Title)
			printKeyValue("id", d.ID)
			printNextStep("Add widgets", "stacklume dashboard import "+d.ID+" widgets.json")
			return nil
		},
	}
}

// dashboardImportCommand creates the "dashboard import" subcommand.
// It replaces a dashboard's widgets and canonical arrangement from a
// JSON file, keeping identity fields intact.
func (c *CLI) dashboardImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <dashboard-id> <file.json>",
		Short: "Import widgets and arrangement from a JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, _, err := c.openEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			existing, err := env.Store.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load dashboard %s: %w", args[0], err)
			}

			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[1], err)
			}
			var next dashboard.Dashboard
			if err := json.Unmarshal(data, &next); err != nil {
				return fmt.Errorf("parse %s: %w", args[1], err)
			}

			next.ID = existing.ID
			next.Owner = existing.Owner
			next.CreatedAt = existing.CreatedAt
			if next.Title == "" {
				next.Title = existing.Title
			}
			if len(next.Profiles) == 0 {
				next.Profiles = existing.Profiles
			}

			if err := next.Validate(); err != nil {
				return err
			}
			if err := env.Store.Save(cmd.Context(), &next); err != nil {
				return fmt.Errorf("save dashboard: %w", err)
			}

			printSuccess("Imported %d widgets into %q", len(next.Widgets), next.Title)
			printNextStep("Derive layouts", "stacklume layout derive "+next.ID)
			return nil
		},
	}
}

// dashboardDeleteCommand creates the "dashboard delete" subcommand.
func (c *CLI) dashboardDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <dashboard-id>",
		Short: "Delete a dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, _, err := c.openEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.Store.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete dashboard %s: %w", args[0], err)
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

// openEnv loads config and opens the backends for a one-shot command.
func (c *CLI) openEnv(cmd *cobra.Command) (*runnerEnv, *Config, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	noCache, _ := cmd.Flags().GetBool("no-cache")
	env, err := c.newRunner(cmd.Context(), cfg, noCache)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize backends: %w", err)
	}
	return env, cfg, nil
}
