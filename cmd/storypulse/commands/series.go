package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/storypulse/pkg/chart"
	"github.com/Sumatoshi-tech/storypulse/pkg/dashboard"
	"github.com/Sumatoshi-tech/storypulse/pkg/export"
	"github.com/Sumatoshi-tech/storypulse/pkg/terminal"
)

const seriesFormatTable = "table"

// ErrNegativeTail is returned when --tail is below zero.
var ErrNegativeTail = errors.New("--tail must not be negative")

type seriesOptions struct {
	datasetFlags

	format  string
	noColor bool
	tail    int
}

// NewSeriesCommand creates the series command.
func NewSeriesCommand(globals *GlobalOptions) *cobra.Command {
	opts := &seriesOptions{}

	cmd := &cobra.Command{
		Use:   "series",
		Short: "Print the daily story point series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := globals.loadConfig()
			if err != nil {
				return err
			}

			if opts.tail < 0 {
				return ErrNegativeTail
			}

			state, ds, err := opts.resolve(cmd, cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if !strings.EqualFold(opts.format, seriesFormatTable) {
				format, formatErr := export.ParseFormat(opts.format)
				if formatErr != nil {
					return formatErr
				}

				doc, docErr := export.NewDocument(ds, state)
				if docErr != nil {
					return docErr
				}

				return export.Encode(out, doc, format)
			}

			profile, err := ds.Profile(state.View())
			if err != nil {
				return err
			}

			series, err := dashboard.VisibleSeries(ds, state)
			if err != nil {
				return err
			}

			var week *chart.Range

			if !state.Filter.Active() {
				current := chart.CurrentWeek(ds.Reference)
				week = &current
			}

			termCfg := terminal.NewConfig()
			termCfg.NoColor = termCfg.NoColor || opts.noColor

			err = terminal.WriteSummary(out, terminal.Summary{
				Profile: profile,
				View:    state.View(),
				Filter:  state.Filter,
				Series:  series,
				Week:    week,
			}, termCfg)
			if err != nil {
				return err
			}

			if globals.Quiet {
				return nil
			}

			_, err = fmt.Fprintln(out)
			if err != nil {
				return fmt.Errorf("write series: %w", err)
			}

			return terminal.WriteSeriesTable(out, series, terminal.TableOptions{Week: week, Tail: opts.tail}, termCfg)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", seriesFormatTable, "format: table, json or yaml")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	cmd.Flags().IntVar(&opts.tail, "tail", 0, "show only the last N days in the table (0 = all)")

	return cmd
}
