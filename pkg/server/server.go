// Package server serves the dashboard over HTTP: the page, its chart in SVG
// and PNG, the interactive echarts view, the JSON API and the health and
// metrics endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/storypulse/pkg/cache"
	"github.com/Sumatoshi-tech/storypulse/pkg/config"
	"github.com/Sumatoshi-tech/storypulse/pkg/dashboard"
	"github.com/Sumatoshi-tech/storypulse/pkg/observability"
	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
)

// Route patterns.
const (
	RouteDashboard = "GET /{$}"
	RouteSVG       = "GET /chart.svg"
	RoutePNG       = "GET /chart.png"
	RouteECharts   = "GET /echarts"
	RouteProfile   = "GET /api/profile"
	RouteSeries    = "GET /api/series"
	RouteHover     = "GET /api/hover"
	RouteSchema    = "GET /api/schema"
	RouteHealth    = "GET /healthz"
	RouteReady     = "GET /readyz"
	RouteMetrics   = "GET /metrics"
)

// datasetCacheSize bounds the generated datasets kept per seed.
const datasetCacheSize = 32

// Deps holds the observability collaborators of the server. Nil fields are
// replaced by no-ops.
type Deps struct {
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.REDMetrics
	Renders *observability.RenderMetrics
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
}

// Server is the dashboard HTTP server.
type Server struct {
	cfg      config.ServerConfig
	addr     string
	opts     storypoints.Options
	layout   dashboard.Layout
	logger   *slog.Logger
	renders  *observability.RenderMetrics
	datasets *cache.LRU[uint64, *storypoints.Dataset]
	handler  http.Handler
}

// New builds a server from the configuration. The dashboard section is
// validated here so that bad dates or canvases fail at startup.
func New(cfg *config.Config, deps Deps) (*Server, error) {
	opts, optsErr := cfg.DatasetOptions()
	if optsErr != nil {
		return nil, optsErr
	}

	layout, layoutErr := cfg.Layout()
	if layoutErr != nil {
		return nil, layoutErr
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tracer := deps.Tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("storypulse")
	}

	srv := &Server{
		cfg:      cfg.Server,
		addr:     cfg.Address(),
		opts:     opts,
		layout:   layout,
		logger:   logger,
		renders:  deps.Renders,
		datasets: cache.NewLRU[uint64, *storypoints.Dataset](datasetCacheSize),
	}

	mux := http.NewServeMux()
	srv.routes(mux, deps.MetricsHandler)

	var handler http.Handler = mux
	if deps.Metrics != nil {
		handler = observability.MetricsMiddleware(deps.Metrics, handler)
	}

	srv.handler = observability.HTTPMiddleware(tracer, handler)

	return srv, nil
}

// Handler returns the root handler with tracing and metrics applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

func (s *Server) routes(mux *http.ServeMux, metrics http.Handler) {
	mux.HandleFunc(RouteDashboard, s.handleDashboard)
	mux.HandleFunc(RouteSVG, s.handleSVG)
	mux.HandleFunc(RoutePNG, s.handlePNG)
	mux.HandleFunc(RouteECharts, s.handleECharts)
	mux.HandleFunc(RouteProfile, s.handleProfile)
	mux.HandleFunc(RouteSeries, s.handleSeries)
	mux.HandleFunc(RouteHover, s.handleHover)
	mux.HandleFunc(RouteSchema, s.handleSchema)
	mux.Handle(RouteHealth, observability.HealthHandler())
	mux.Handle(RouteReady, observability.ReadyHandler(s.ready))

	if metrics != nil {
		mux.Handle(RouteMetrics, metrics)
	}
}

// CacheStats reports the hit rate and size of the per-seed dataset cache.
func (s *Server) CacheStats() cache.Stats {
	return s.datasets.Stats()
}

// ready regenerates the default dataset and checks the canvas.
func (s *Server) ready(_ context.Context) error {
	_, err := storypoints.NewDataset(s.opts)
	if err != nil {
		return err
	}

	return s.layout.Canvas.Validate()
}

// Run listens on the configured address until ctx is canceled, then shuts
// down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- httpServer.Serve(ln)
	}()

	s.logger.InfoContext(ctx, "dashboard server listening", "addr", "http://"+ln.Addr().String())

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.InfoContext(ctx, "dashboard server shutting down")

	shutdownErr := httpServer.Shutdown(shutdownCtx)
	if shutdownErr != nil {
		return fmt.Errorf("shutdown: %w", shutdownErr)
	}

	<-serveErr

	stats := s.datasets.Stats()
	s.logger.InfoContext(ctx, "dataset cache",
		"hits", stats.Hits, "misses", stats.Misses, "entries", stats.Entries, "hit_rate", stats.HitRate())

	return nil
}
