package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/storypulse/pkg/mcp"
	"github.com/Sumatoshi-tech/storypulse/pkg/observability"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand(globals *GlobalOptions) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes the dashboard as tools that AI agents can discover
and invoke:
  - storypulse_profile: profile and completion rate of a view
  - storypulse_series: daily series of a view as an export document
  - storypulse_hover: tooltip for a pointer position over the chart`,
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

			layout, err := cfg.Layout()
			if err != nil {
				return err
			}

			// Stdout carries the protocol, so logs are JSON on stderr.
			obsCfg := globals.observabilityConfig(cfg, observability.ModeMCP, cmd.ErrOrStderr())
			obsCfg.LogJSON = true

			if debug {
				obsCfg.LogLevel = slog.LevelDebug
			}

			tel, err := initTelemetry(obsCfg)
			if err != nil {
				return err
			}

			defer tel.shutdown()

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:  tel.providers.Logger,
				Metrics: tel.red,
				Renders: tel.renders,
				Tracer:  tel.providers.Tracer,
				Options: opts,
				Layout:  layout,
			})

			tel.providers.Logger.InfoContext(cmd.Context(), "mcp server starting", "tools", srv.ListToolNames())

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")

	return cmd
}
