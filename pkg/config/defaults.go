package config

import (
	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/storypulse/pkg/chart"
	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
)

// Server defaults.
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8080
	DefaultReadTimeout     = "15s"
	DefaultWriteTimeout    = "30s"
	DefaultIdleTimeout     = "60s"
	DefaultShutdownTimeout = "10s"
)

// Dashboard defaults.
const (
	DefaultTheme = "light"
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = logFormatText
)

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("server.host", DefaultHost)
	viperCfg.SetDefault("server.port", DefaultPort)
	viperCfg.SetDefault("server.read_timeout", DefaultReadTimeout)
	viperCfg.SetDefault("server.write_timeout", DefaultWriteTimeout)
	viperCfg.SetDefault("server.idle_timeout", DefaultIdleTimeout)
	viperCfg.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)

	viperCfg.SetDefault("dashboard.seed", storypoints.DefaultSeed)
	viperCfg.SetDefault("dashboard.start_date", storypoints.DefaultStart.Format(storypoints.DateLayout))
	viperCfg.SetDefault("dashboard.reference_date", storypoints.DefaultReference.Format(storypoints.DateLayout))
	viperCfg.SetDefault("dashboard.theme", DefaultTheme)
	viperCfg.SetDefault("dashboard.width", chart.DefaultWidth)
	viperCfg.SetDefault("dashboard.height", chart.DefaultHeight)
	viperCfg.SetDefault("dashboard.padding", chart.DefaultPadding)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.environment", "")
	viperCfg.SetDefault("telemetry.sample_ratio", 0.0)
	viperCfg.SetDefault("telemetry.prometheus", true)
}
