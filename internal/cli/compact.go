package cli

import (
	"github.com/spf13/cobra"

	"github.com/stacklume/stacklume/pkg/layouts"
)

// compactCommand creates the compact command.
func (c *CLI) compactCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compact <dashboard-id>",
		Short: "Close vertical gaps in the canonical arrangement",
		Long: `Close vertical gaps in the canonical arrangement.

Widgets slide up as far as the occupied cells above them allow. Column
positions never change. The compacted arrangement is persisted, so all
breakpoint layouts rederive from it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, _, err := c.openEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			moved, err := env.Runner.CompactCanonical(cmd.Context(), args[0], layouts.Options{})
			if err != nil {
				return err
			}

			if moved == 0 {
				printInfo("Already compact")
				return nil
			}
			printSuccess("Moved %d widgets up", moved)
			return nil
		},
	}

	return cmd
}
