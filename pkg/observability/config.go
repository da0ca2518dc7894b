// Package observability provides OpenTelemetry tracing and metrics, structured
// logging with trace context, HTTP middleware and health endpoints for every
// storypulse surface (CLI, TUI, MCP, HTTP server).
package observability

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// AppMode identifies how the binary was launched.
type AppMode string

const (
	// ModeCLI is a one-shot command such as render or series.
	ModeCLI AppMode = "cli"
	// ModeTUI is the interactive terminal dashboard.
	ModeTUI AppMode = "tui"
	// ModeMCP is the MCP stdio server.
	ModeMCP AppMode = "mcp"
	// ModeServe is the HTTP server.
	ModeServe AppMode = "serve"
)

const (
	defaultServiceName        = "storypulse"
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	// Environment is the deployment environment (e.g. "production", "dev").
	Environment string
	Mode        AppMode

	// OTLPEndpoint is the OTLP gRPC collector address (e.g. "localhost:4317").
	// Empty disables OTLP export.
	OTLPEndpoint string
	OTLPHeaders  map[string]string
	OTLPInsecure bool

	// SampleRatio is the root trace sampling ratio. Zero samples everything.
	SampleRatio float64

	// Prometheus attaches a Prometheus reader to the meter provider and
	// exposes it as Providers.MetricsHandler.
	Prometheus bool

	LogLevel slog.Level
	LogJSON  bool
	// LogOutput receives log records. Nil writes to stderr.
	LogOutput io.Writer

	ShutdownTimeoutSec int
}

// DefaultConfig returns a Config for zero-config startup: text logs at info,
// no exporters.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}

// ParseLevel converts a level name (debug, info, warn, error) to an slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(strings.TrimSpace(name)))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level %q: %w", name, err)
	}

	return level, nil
}
