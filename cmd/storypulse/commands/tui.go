package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
	"github.com/Sumatoshi-tech/storypulse/pkg/tui"
)

// NewTUICommand creates the interactive terminal dashboard command.
func NewTUICommand(globals *GlobalOptions) *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Explore the dashboard in the terminal",
		Long: `Explore the dashboard in the terminal.

Keys: tab or 1/2 switch views, d/w/m/y toggle the 1D/1W/1M/1Y range,
c clears it, left/right or the mouse move the tooltip, ? shows help, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := globals.loadConfig()
			if err != nil {
				return err
			}

			opts, err := cfg.DatasetOptions()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("seed") {
				opts.Seed = seed
			}

			ds, err := storypoints.NewDataset(opts)
			if err != nil {
				return err
			}

			return tui.Run(cmd.Context(), ds, tui.RunOptions{
				Input:  cmd.InOrStdin(),
				Output: cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", storypoints.DefaultSeed, "generator seed (default: dashboard.seed)")

	return cmd
}
