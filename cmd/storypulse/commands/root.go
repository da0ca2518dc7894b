// Package commands implements the storypulse CLI commands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/storypulse/pkg/config"
	"github.com/Sumatoshi-tech/storypulse/pkg/observability"
	"github.com/Sumatoshi-tech/storypulse/pkg/version"
)

// GlobalOptions holds the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	Verbose    bool
	Quiet      bool
}

// NewRootCommand builds the storypulse command tree.
func NewRootCommand() *cobra.Command {
	globals := &GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "storypulse",
		Short: "Story point analytics dashboard",
		Long: `Storypulse renders a story point analytics dashboard from generated data.

Commands:
  serve     HTTP dashboard with hover tooltips, JSON API and metrics
  render    Write the dashboard as HTML, a static site, SVG, PNG, JSON, YAML or echarts
  series    Print the daily series as a table, JSON or YAML
  tui       Interactive terminal dashboard
  mcp       MCP server for AI agents
  validate  Check an exported JSON or YAML document`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&globals.Verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&globals.Quiet, "quiet", "q", false, "suppress output")
	rootCmd.PersistentFlags().StringVar(&globals.ConfigPath, "config", "", "config file (default: storypulse.yaml)")

	rootCmd.AddCommand(
		NewServeCommand(globals),
		NewRenderCommand(globals),
		NewSeriesCommand(globals),
		NewTUICommand(globals),
		NewMCPCommand(globals),
		NewValidateCommand(globals),
		NewVersionCommand(),
	)

	return rootCmd
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "storypulse %s\n", version.Get())
		},
	}
}

func (g *GlobalOptions) loadConfig() (*config.Config, error) {
	return config.LoadConfig(g.ConfigPath)
}

// observabilityConfig applies the verbosity flags on top of the configured
// logging level. Logs go to errOut.
func (g *GlobalOptions) observabilityConfig(
	cfg *config.Config, mode observability.AppMode, errOut io.Writer,
) observability.Config {
	obsCfg := cfg.Observability(mode, version.Version)
	obsCfg.LogOutput = errOut

	switch {
	case g.Quiet:
		obsCfg.LogLevel = slog.LevelError
	case g.Verbose:
		obsCfg.LogLevel = slog.LevelDebug
	}

	return obsCfg
}

// telemetry bundles the initialized providers with the instruments built on them.
type telemetry struct {
	providers observability.Providers
	red       *observability.REDMetrics
	renders   *observability.RenderMetrics
}

func initTelemetry(obsCfg observability.Config) (*telemetry, error) {
	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	red, err := observability.NewREDMetrics(providers.Meter)
	if err != nil {
		return nil, errors.Join(err, providers.Shutdown(context.Background()))
	}

	renders, err := observability.NewRenderMetrics(providers.Meter)
	if err != nil {
		return nil, errors.Join(err, providers.Shutdown(context.Background()))
	}

	return &telemetry{providers: providers, red: red, renders: renders}, nil
}

func (t *telemetry) shutdown() {
	shutdownErr := t.providers.Shutdown(context.Background())
	if shutdownErr != nil {
		t.providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
	}
}
