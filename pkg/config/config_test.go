package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/storypulse/pkg/chart"
	"github.com/Sumatoshi-tech/storypulse/pkg/config"
	"github.com/Sumatoshi-tech/storypulse/pkg/observability"
	"github.com/Sumatoshi-tech/storypulse/pkg/plotpage"
	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "storypulse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFile_UsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultPort, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, storypoints.DefaultSeed, cfg.Dashboard.Seed)
	assert.Equal(t, "2024-07-15", cfg.Dashboard.ReferenceDate)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.True(t, cfg.Telemetry.Prometheus)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())

	opts, err := cfg.DatasetOptions()
	require.NoError(t, err)
	assert.Equal(t, storypoints.DefaultOptions(), opts)

	layout, err := cfg.Layout()
	require.NoError(t, err)
	assert.Equal(t, chart.DefaultCanvas(), layout.Canvas)
	assert.Equal(t, plotpage.ThemeLight, layout.Theme)
}

func TestLoadConfig_ValidFile_Unmarshals(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `server:
  host: 127.0.0.1
  port: 9090
  read_timeout: 5s
dashboard:
  seed: 42
  start_date: "2024-06-01"
  reference_date: "2024-06-30"
  theme: dark
  width: 1200
  height: 400
  padding: 50
logging:
  level: debug
  format: json
telemetry:
  otlp_endpoint: "collector:4317"
  otlp_headers: "x-team=dash, x-env = dev"
  otlp_insecure: true
  sample_ratio: 0.25
  environment: staging
  prometheus: false
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Address())
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)

	opts, err := cfg.DatasetOptions()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), opts.Seed)
	assert.Equal(t, storypoints.Day(2024, time.June, 1), opts.Start)
	assert.Equal(t, storypoints.Day(2024, time.June, 30), opts.Reference)

	layout, err := cfg.Layout()
	require.NoError(t, err)
	assert.Equal(t, chart.Canvas{Width: 1200, Height: 400, Padding: 50}, layout.Canvas)
	assert.Equal(t, plotpage.ThemeDark, layout.Theme)

	obs := cfg.Observability(observability.ModeServe, "1.0.0")
	assert.Equal(t, observability.ModeServe, obs.Mode)
	assert.Equal(t, "1.0.0", obs.ServiceVersion)
	assert.Equal(t, "collector:4317", obs.OTLPEndpoint)
	assert.Equal(t, map[string]string{"x-team": "dash", "x-env": "dev"}, obs.OTLPHeaders)
	assert.True(t, obs.OTLPInsecure)
	assert.InDelta(t, 0.25, obs.SampleRatio, 1e-9)
	assert.Equal(t, "staging", obs.Environment)
	assert.False(t, obs.Prometheus)
	assert.True(t, obs.LogJSON)
	assert.Equal(t, slog.LevelDebug, obs.LogLevel)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"port zero", "server:\n  port: 0\n", config.ErrInvalidPort},
		{"port too large", "server:\n  port: 70000\n", config.ErrInvalidPort},
		{"timeout", "server:\n  idle_timeout: 0s\n", config.ErrInvalidTimeout},
		{"bad date", "dashboard:\n  start_date: yesterday\n", config.ErrInvalidDate},
		{"reversed range", "dashboard:\n  start_date: \"2024-08-01\"\n", storypoints.ErrInvalidDateRange},
		{"theme", "dashboard:\n  theme: neon\n", plotpage.ErrUnknownTheme},
		{"canvas", "dashboard:\n  padding: 500\n", chart.ErrInvalidCanvas},
		{"log format", "logging:\n  format: xml\n", config.ErrInvalidLogFormat},
		{"sample ratio", "telemetry:\n  sample_ratio: 1.5\n", config.ErrInvalidSampleRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoadConfig_BadLogLevel(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "logging:\n  level: loud\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, "server:\n  port: [oops\n"))
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

//nolint:paralleltest // t.Setenv forbids t.Parallel.
func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("STORYPULSE_SERVER_PORT", "9999")
	t.Setenv("STORYPULSE_DASHBOARD_SEED", "7")
	t.Setenv("STORYPULSE_DASHBOARD_THEME", "dark")

	cfg, err := config.LoadConfig(writeConfig(t, "server:\n  port: 8081\n"))
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, uint64(7), cfg.Dashboard.Seed)
	assert.Equal(t, "dark", cfg.Dashboard.Theme)
}
