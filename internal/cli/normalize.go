package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stacklume/stacklume/pkg/grid"
)

// normalizeCommand creates the normalize command. It is the dry-run
// counterpart of "layout save": the edited arrangement is scaled back to
// canonical coordinates and printed, but nothing is persisted.
func (c *CLI) normalizeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "normalize <dashboard-id> <breakpoint> <arrangement.json>",
		Short: "Scale an edited breakpoint layout to canonical coordinates",
		Long: `Scale an edited breakpoint layout to canonical coordinates.

Reads placements in the coordinate space of the given breakpoint and
prints them rescaled onto the canonical grid. Vertical positions pass
through unchanged and overlaps are not resolved; use "layout save" to
persist an edit with full collision handling.`,
		Args: cobra.ExactArgs(3),
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

			profiles := d.EffectiveProfiles()
			profile, ok := profiles.ByName(args[1])
			if !ok {
				return fmt.Errorf("no breakpoint %q on dashboard %q", args[1], d.Title)
			}
			canonical := profiles.Canonical()

			data, err := os.ReadFile(args[2])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[2], err)
			}
			var edited grid.Arrangement
			if err := json.Unmarshal(data, &edited); err != nil {
				return fmt.Errorf("parse %s: %w", args[2], err)
			}

			normalized := grid.Normalize(edited, profile.Columns, canonical.Columns)

			if output != "" {
				out, err := json.MarshalIndent(normalized, "", "  ")
				if err != nil {
					return fmt.Errorf("encode arrangement: %w", err)
				}
				if err := os.WriteFile(output, append(out, '\n'), 0o644); err != nil {
					return fmt.Errorf("write output %s: %w", output, err)
				}
				printSuccess("Normalized %d placements to %d columns", len(normalized), canonical.Columns)
				printFile(output)
				return nil
			}

			printArrangement(canonical, normalized)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the normalized arrangement as JSON to this file")
	return cmd
}
