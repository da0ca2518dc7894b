// Package mcp implements a Model Context Protocol server exposing dashboard
// queries (profile, series, hover) as MCP tools over stdio.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/storypulse/pkg/cache"
	"github.com/Sumatoshi-tech/storypulse/pkg/dashboard"
	"github.com/Sumatoshi-tech/storypulse/pkg/observability"
	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
	"github.com/Sumatoshi-tech/storypulse/pkg/version"
)

const (
	serverName       = "storypulse"
	toolCount        = 3
	datasetCacheSize = 16
)

// ServerDeps holds injectable dependencies for the MCP server.
// Zero-value fields use production defaults.
type ServerDeps struct {
	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Metrics records RED metrics per tool call when set.
	Metrics *observability.REDMetrics

	// Renders counts served series when set.
	Renders *observability.RenderMetrics

	// Tracer creates a span per tool call when set.
	Tracer trace.Tracer

	// Options are the dataset defaults; a zero value uses storypoints.DefaultOptions.
	Options storypoints.Options

	// Layout is the chart geometry hover requests are resolved against; a zero
	// canvas uses dashboard.DefaultLayout.
	Layout dashboard.Layout
}

// Server wraps the MCP SDK server with the storypulse tools.
type Server struct {
	inner    *mcpsdk.Server
	mu       sync.RWMutex
	tools    []string
	metrics  *observability.REDMetrics
	renders  *observability.RenderMetrics
	tracer   trace.Tracer
	opts     storypoints.Options
	layout   dashboard.Layout
	datasets *cache.LRU[uint64, *storypoints.Dataset]
}

// NewServer creates a server with every tool registered.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{}
	if deps.Logger != nil {
		opts.Logger = deps.Logger
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: version.Version,
		},
		opts,
	)

	srv := &Server{
		inner:    inner,
		tools:    make([]string, 0, toolCount),
		metrics:  deps.Metrics,
		renders:  deps.Renders,
		tracer:   deps.Tracer,
		opts:     deps.Options,
		layout:   deps.Layout,
		datasets: cache.NewLRU[uint64, *storypoints.Dataset](datasetCacheSize),
	}

	if srv.opts.Start.IsZero() || srv.opts.Reference.IsZero() {
		srv.opts = storypoints.DefaultOptions()
	}

	if srv.layout.Canvas == (dashboard.Layout{}).Canvas {
		srv.layout = dashboard.DefaultLayout()
	}

	srv.registerTools()

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run serves on stdio until ctx is canceled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.RunWithTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunWithTransport serves on transport until ctx is canceled or the
// connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameProfile,
		Description: profileToolDescription,
	}, withMetrics(s.metrics, ToolNameProfile, withTracing(s.tracer, ToolNameProfile, s.handleProfile)))
	s.trackTool(ToolNameProfile)

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameSeries,
		Description: seriesToolDescription,
	}, withMetrics(s.metrics, ToolNameSeries, withTracing(s.tracer, ToolNameSeries, s.handleSeries)))
	s.trackTool(ToolNameSeries)

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameHover,
		Description: hoverToolDescription,
	}, withMetrics(s.metrics, ToolNameHover, withTracing(s.tracer, ToolNameHover, s.handleHover)))
	s.trackTool(ToolNameHover)
}

const (
	mcpSpanPrefix  = "mcp."
	traceIDMetaKey = "trace_id"
)

// withTracing opens a span per call and appends the trace id to the result
// when the span is sampled.
func withTracing[Input any](
	tracer trace.Tracer,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", toolName)),
		)
		defer span.End()

		result, output, err := handler(ctx, req, input)

		sc := span.SpanContext()
		if sc.IsSampled() && result != nil {
			result.Content = append(result.Content,
				&mcpsdk.TextContent{Text: fmt.Sprintf("%s=%s", traceIDMetaKey, sc.TraceID().String())})
		}

		return result, output, err
	}
}

// withMetrics records RED metrics per call. Error results count as errors.
func withMetrics[Input any](
	metrics *observability.REDMetrics,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if metrics == nil {
		return handler
	}

	op := mcpSpanPrefix + toolName

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		start := time.Now()

		decInflight := metrics.TrackInflight(ctx, op)
		defer decInflight()

		result, output, err := handler(ctx, req, input)

		status := observability.StatusOK
		if err != nil || (result != nil && result.IsError) {
			status = observability.StatusError
		}

		metrics.RecordRequest(ctx, op, status, time.Since(start))

		return result, output, err
	}
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

const (
	profileToolDescription = "Return the mock story point profile (name, designation, totals, completion rate) " +
		"of the assigned or reportee view."

	seriesToolDescription = "Return the daily story point series of a view as a schema-validated export document. " +
		"Accepts an optional time range (1D, 1W, 1M, 1Y) and generator seed."

	hoverToolDescription = "Resolve a pointer position over the dashboard chart to the hovered day and the " +
		"tooltip position, exactly as the web chart does."
)
