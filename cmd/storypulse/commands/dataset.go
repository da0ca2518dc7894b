package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/storypulse/pkg/config"
	"github.com/Sumatoshi-tech/storypulse/pkg/dashboard"
	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
	"github.com/Sumatoshi-tech/storypulse/pkg/timefilter"
)

// datasetFlags selects the view, the time filter and the generator seed.
type datasetFlags struct {
	view   string
	filter string
	seed   uint64
}

func (f *datasetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.view, "view", string(storypoints.ViewAssigned), "view: assigned or reportee")
	cmd.Flags().StringVar(&f.filter, "filter", "", "time range: 1D, 1W, 1M or 1Y (default: full history)")
	cmd.Flags().Uint64Var(&f.seed, "seed", storypoints.DefaultSeed, "generator seed (default: dashboard.seed)")
}

// resolve parses the flags and generates the dataset. The seed flag wins over
// the configured seed only when set.
func (f *datasetFlags) resolve(cmd *cobra.Command, cfg *config.Config) (dashboard.State, *storypoints.Dataset, error) {
	view, err := storypoints.ParseView(f.view)
	if err != nil {
		return dashboard.State{}, nil, err
	}

	filter, err := timefilter.Parse(f.filter)
	if err != nil {
		return dashboard.State{}, nil, err
	}

	opts, err := cfg.DatasetOptions()
	if err != nil {
		return dashboard.State{}, nil, err
	}

	if cmd.Flags().Changed("seed") {
		opts.Seed = f.seed
	}

	ds, err := storypoints.NewDataset(opts)
	if err != nil {
		return dashboard.State{}, nil, err
	}

	return dashboard.State{Tab: view, Filter: filter}, ds, nil
}
