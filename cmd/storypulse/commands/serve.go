package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/storypulse/pkg/config"
	"github.com/Sumatoshi-tech/storypulse/pkg/observability"
	"github.com/Sumatoshi-tech/storypulse/pkg/server"
)

// NewServeCommand creates the HTTP server command.
func NewServeCommand(globals *GlobalOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		Long: `Serve the dashboard over HTTP until interrupted.

Routes:
  /             dashboard page (query: tab, filter, seed)
  /chart.svg    chart as SVG
  /chart.png    chart as PNG
  /echarts      interactive echarts page
  /api/profile  profile JSON
  /api/series   export document JSON
  /api/hover    tooltip JSON (x, w, cx, cy, vw)
  /healthz, /readyz, /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := globals.loadConfig()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port

				validateErr := cfg.Validate()
				if validateErr != nil {
					return validateErr
				}
			}

			return runServe(cmd, globals, cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", config.DefaultPort, "port to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, globals *GlobalOptions, cfg *config.Config) error {
	tel, err := initTelemetry(globals.observabilityConfig(cfg, observability.ModeServe, cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	defer tel.shutdown()

	srv, err := server.New(cfg, server.Deps{
		Logger:         tel.providers.Logger,
		Tracer:         tel.providers.Tracer,
		Metrics:        tel.red,
		Renders:        tel.renders,
		MetricsHandler: tel.providers.MetricsHandler,
	})
	if err != nil {
		return err
	}

	return srv.Run(cmd.Context())
}
