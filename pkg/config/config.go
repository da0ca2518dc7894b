// Package config loads storypulse configuration from an optional YAML file and
// STORYPULSE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/storypulse/pkg/chart"
	"github.com/Sumatoshi-tech/storypulse/pkg/dashboard"
	"github.com/Sumatoshi-tech/storypulse/pkg/observability"
	"github.com/Sumatoshi-tech/storypulse/pkg/plotpage"
	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
)

// Sentinel validation errors.
var (
	ErrInvalidPort        = errors.New("invalid server port")
	ErrInvalidTimeout     = errors.New("server timeouts must be positive")
	ErrInvalidDate        = errors.New("invalid dashboard date")
	ErrInvalidLogFormat   = errors.New("invalid log format")
	ErrInvalidSampleRatio = errors.New("sample ratio must be within [0, 1]")
)

// EnvPrefix prefixes every environment override, e.g. STORYPULSE_SERVER_PORT.
const EnvPrefix = "STORYPULSE"

const (
	configName = "storypulse"
	maxPort    = 65535

	logFormatJSON = "json"
	logFormatText = "text"
)

// Config holds all configuration for storypulse.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Port            int           `mapstructure:"port"`
}

// DashboardConfig controls the generated data and the chart surface.
type DashboardConfig struct {
	Seed          uint64  `mapstructure:"seed"`
	StartDate     string  `mapstructure:"start_date"`
	ReferenceDate string  `mapstructure:"reference_date"`
	Theme         string  `mapstructure:"theme"`
	Width         float64 `mapstructure:"width"`
	Height        float64 `mapstructure:"height"`
	Padding       float64 `mapstructure:"padding"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry export configuration.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	Environment  string  `mapstructure:"environment"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	Prometheus   bool    `mapstructure:"prometheus"`
}

// LoadConfig loads configuration from configPath, or from storypulse.yaml in
// the working directory, ./config or /etc/storypulse when configPath is empty.
// A missing default file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/storypulse")
	}

	viperCfg.SetEnvPrefix(EnvPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := config.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// Default returns the configuration LoadConfig yields with no file and no
// environment overrides.
func Default() *Config {
	viperCfg := viper.New()
	setDefaults(viperCfg)

	var config Config

	// Defaults always decode.
	_ = viperCfg.Unmarshal(&config)

	return &config
}

// Validate checks every section.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.IdleTimeout <= 0 ||
		c.Server.ShutdownTimeout <= 0 {
		return ErrInvalidTimeout
	}

	_, optsErr := c.DatasetOptions()
	if optsErr != nil {
		return optsErr
	}

	_, layoutErr := c.Layout()
	if layoutErr != nil {
		return layoutErr
	}

	_, levelErr := observability.ParseLevel(c.Logging.Level)
	if levelErr != nil {
		return levelErr
	}

	if c.Logging.Format != logFormatJSON && c.Logging.Format != logFormatText {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, c.Telemetry.SampleRatio)
	}

	return nil
}

// Address is the host:port the HTTP server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// DatasetOptions converts the dashboard section to generator options.
func (c *Config) DatasetOptions() (storypoints.Options, error) {
	start, startErr := parseDate("start_date", c.Dashboard.StartDate)
	if startErr != nil {
		return storypoints.Options{}, startErr
	}

	reference, refErr := parseDate("reference_date", c.Dashboard.ReferenceDate)
	if refErr != nil {
		return storypoints.Options{}, refErr
	}

	opts := storypoints.Options{Seed: c.Dashboard.Seed, Start: start, Reference: reference}

	validateErr := opts.Validate()
	if validateErr != nil {
		return storypoints.Options{}, validateErr
	}

	return opts, nil
}

// Layout converts the dashboard section to a page layout.
func (c *Config) Layout() (dashboard.Layout, error) {
	theme, themeErr := plotpage.ParseTheme(c.Dashboard.Theme)
	if themeErr != nil {
		return dashboard.Layout{}, themeErr
	}

	layout := dashboard.DefaultLayout()
	layout.Theme = theme
	layout.Canvas = chart.Canvas{Width: c.Dashboard.Width, Height: c.Dashboard.Height, Padding: c.Dashboard.Padding}

	validateErr := layout.Canvas.Validate()
	if validateErr != nil {
		return dashboard.Layout{}, validateErr
	}

	return layout, nil
}

// Observability converts the logging and telemetry sections for the given mode.
func (c *Config) Observability(mode observability.AppMode, serviceVersion string) observability.Config {
	cfg := observability.DefaultConfig()
	cfg.Mode = mode
	cfg.ServiceVersion = serviceVersion
	cfg.Environment = c.Telemetry.Environment
	cfg.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(c.Telemetry.OTLPHeaders)
	cfg.OTLPInsecure = c.Telemetry.OTLPInsecure
	cfg.SampleRatio = c.Telemetry.SampleRatio
	cfg.Prometheus = c.Telemetry.Prometheus
	cfg.LogJSON = c.Logging.Format == logFormatJSON

	if level, err := observability.ParseLevel(c.Logging.Level); err == nil {
		cfg.LogLevel = level
	}

	return cfg
}

func parseDate(key, value string) (time.Time, error) {
	day, err := time.Parse(storypoints.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q", ErrInvalidDate, key, value)
	}

	return day, nil
}
