package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/stacklume/stacklume/pkg/grid"
	"github.com/stacklume/stacklume/pkg/layouts"
)

// layoutCommand creates the layout command group.
func (c *CLI) layoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Derive and edit breakpoint layouts",
	}

	cmd.AddCommand(c.layoutDeriveCommand())
	cmd.AddCommand(c.layoutCurrentCommand())
	cmd.AddCommand(c.layoutSaveCommand())

	return cmd
}

// layoutDeriveCommand creates the "layout derive" subcommand.
func (c *CLI) layoutDeriveCommand() *cobra.Command {
	var (
		output     string
		breakpoint string
		refresh    bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "derive <dashboard-id>",
		Short: "Derive layouts for every breakpoint",
		Long: `Derive layouts for every breakpoint.

The canonical arrangement is scaled down to each configured breakpoint,
resolving collisions and compacting vertically. Results are cached by
content hash, so unchanged dashboards derive instantly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayoutDerive(cmd, args[0], output, breakpoint, refresh, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the full result as JSON to this file")
	cmd.Flags().StringVarP(&breakpoint, "breakpoint", "b", "", "print only this breakpoint")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "rederive even on a cache hit")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runLayoutDerive(cmd *cobra.Command, id, output, breakpoint string, refresh, noCache bool) error {
	ctx := cmd.Context()

	env, _, err := c.openEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	spinner := newSpinnerWithContext(ctx, "Deriving layouts...")
	spinner.Start()

	result, err := env.Runner.DeriveAll(ctx, id, layouts.Options{Refresh: refresh})
	if err != nil {
		spinner.StopWithError("Derivation failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if output != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		if err := os.WriteFile(output, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
		printSuccess("Derivation complete")
		printFile(output)
		printStats(result.Stats.WidgetCount, result.Stats.Breakpoints, result.CacheInfo.LayoutHit)
		return nil
	}

	if breakpoint != "" {
		arr, ok := result.Layouts[breakpoint]
		if !ok {
			return fmt.Errorf("no layout for breakpoint %q", breakpoint)
		}
		profile, _ := result.Profiles.ByName(breakpoint)
		printArrangement(profile, arr)
		return nil
	}

	printSuccess("Derivation complete")
	printStats(result.Stats.WidgetCount, result.Stats.Breakpoints, result.CacheInfo.LayoutHit)
	printNewline()

	for _, profile := range sortedProfiles(result.Profiles) {
		printArrangement(profile, result.Layouts[profile.Name])
		printNewline()
	}
	return nil
}

// layoutCurrentCommand creates the "layout current" subcommand.
func (c *CLI) layoutCurrentCommand() *cobra.Command {
	var viewport int

	cmd := &cobra.Command{
		Use:   "current <dashboard-id>",
		Short: "Print the layout matching a viewport width",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, _, err := c.openEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			profile, arr, err := env.Runner.Current(cmd.Context(), args[0], viewport, layouts.Options{})
			if err != nil {
				return err
			}
			printArrangement(profile, arr)
			return nil
		},
	}

	cmd.Flags().IntVar(&viewport, "viewport", 1280, "viewport width in pixels")
	return cmd
}

// layoutSaveCommand creates the "layout save" subcommand.
func (c *CLI) layoutSaveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <dashboard-id> <breakpoint> <arrangement.json>",
		Short: "Save an edited breakpoint layout back to the canonical grid",
		Long: `Save an edited breakpoint layout back to the canonical grid.

The arrangement file holds placements in the coordinate space of the
given breakpoint. They are scaled back up to the canonical grid and
persisted; every other breakpoint rederives from the new canonical
arrangement on the next request.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, _, err := c.openEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			data, err := os.ReadFile(args[2])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[2], err)
			}
			var edited grid.Arrangement
			if err := json.Unmarshal(data, &edited); err != nil {
				return fmt.Errorf("parse %s: %w", args[2], err)
			}

			d, err := env.Runner.SaveEdited(cmd.Context(), args[0], args[1], edited, layouts.Options{})
			if err != nil {
				return err
			}

			printSuccess("Saved %q layout for %q", args[1], d.Title)
			printDetail("canonical hash: %s", d.CanonicalHash())
			return nil
		},
	}

	return cmd
}

// printArrangement prints one breakpoint's placements.
func printArrangement(profile grid.Profile, arr grid.Arrangement) {
	header := fmt.Sprintf("%s (%d columns, min %dpx)", profile.Name, profile.Columns, profile.MinWidthPx)
	fmt.Println(StyleHighlight.Render(header))
	for _, p := range arr {
		lock := ""
		if p.Locked {
			lock = " locked"
		}
		printDetail("%-16s x:%d y:%d w:%d h:%d%s", p.ID, p.X, p.Y, p.W, p.H, lock)
	}
}

// sortedProfiles returns profiles widest first for stable output.
func sortedProfiles(set grid.ProfileSet) []grid.Profile {
	out := make([]grid.Profile, len(set))
	copy(out, set)
	sort.Slice(out, func(i, j int) bool { return out[i].Columns > out[j].Columns })
	return out
}
