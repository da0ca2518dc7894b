package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/storypulse/pkg/chart"
	"github.com/Sumatoshi-tech/storypulse/pkg/config"
	"github.com/Sumatoshi-tech/storypulse/pkg/dashboard"
	"github.com/Sumatoshi-tech/storypulse/pkg/export"
	"github.com/Sumatoshi-tech/storypulse/pkg/observability"
	"github.com/Sumatoshi-tech/storypulse/pkg/server"
)

func newServer(t *testing.T, deps server.Deps) *server.Server {
	t.Helper()

	srv, err := server.New(config.Default(), deps)
	require.NoError(t, err)

	return srv
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	rec := get(t, newServer(t, server.Deps{}).Handler(), "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	html := rec.Body.String()
	assert.Contains(t, html, "Performance Analytics Suite")
	assert.Contains(t, html, "My Performance")
	assert.Contains(t, html, "Jul 14 - Jul 20")
	assert.Contains(t, html, `data-hover-endpoint="/api/hover?tab=assigned"`)
}

func TestDashboard_CarriesSeed(t *testing.T) {
	t.Parallel()

	rec := get(t, newServer(t, server.Deps{}).Handler(), "/?tab=reportee&filter=1w&seed=7")

	require.Equal(t, http.StatusOK, rec.Code)

	html := rec.Body.String()
	assert.Contains(t, html, "Team Leadership")
	assert.Contains(t, html, `data-hover-endpoint="/api/hover?filter=1W&amp;seed=7&amp;tab=reportee"`)
	assert.Contains(t, html, `href="/?filter=1W&amp;seed=7&amp;tab=assigned"`)
	assert.NotContains(t, html, "Current week is highlighted")
}

func TestDashboard_HoverFallback(t *testing.T) {
	t.Parallel()

	rec := get(t, newServer(t, server.Deps{}).Handler(), "/?filter=1W&x=400&cx=100&cy=300&vw=1280")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Fri, Jul 12, 2024")
}

func TestBadQueries(t *testing.T) {
	t.Parallel()

	handler := newServer(t, server.Deps{}).Handler()

	tests := []struct {
		target string
		want   string
	}{
		{"/?tab=boss", "unknown view"},
		{"/chart.svg?filter=2W", "unknown filter"},
		{"/api/series?seed=-1", "invalid seed"},
		{"/api/hover", "invalid pointer"},
		{"/api/hover?x=left", "invalid pointer"},
		{"/?x=abc", "invalid pointer"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			t.Parallel()

			rec := get(t, handler, tt.target)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	rec := get(t, newServer(t, server.Deps{}).Handler(), "/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChartSVG(t *testing.T) {
	t.Parallel()

	handler := newServer(t, server.Deps{}).Handler()

	rec := get(t, handler, "/chart.svg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")
	assert.Contains(t, rec.Body.String(), `viewBox="0 0 800 300"`)

	rec = get(t, handler, "/chart.svg?filter=1D")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), chart.NoDataMessage)
}

func TestChartPNG(t *testing.T) {
	t.Parallel()

	rec := get(t, newServer(t, server.Deps{}).Handler(), "/chart.png?filter=1M")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestECharts(t *testing.T) {
	t.Parallel()

	rec := get(t, newServer(t, server.Deps{}).Handler(), "/echarts?tab=reportee")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "echarts")
	assert.Contains(t, rec.Body.String(), "Performance Trends &amp; Analytics")
}

func TestECharts_RecordsVisiblePoints(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	renders, err := observability.NewRenderMetrics(mp.Meter("test"))
	require.NoError(t, err)

	handler := newServer(t, server.Deps{Renders: renders}).Handler()
	require.Equal(t, http.StatusOK, get(t, handler, "/echarts?filter=1W").Code)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var points *metricdata.Histogram[int64]

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if hist, ok := m.Data.(metricdata.Histogram[int64]); ok && m.Name == "storypulse.dashboard.series.points" {
				points = &hist
			}
		}
	}

	require.NotNil(t, points)
	require.Len(t, points.DataPoints, 1)
	assert.Equal(t, int64(7), points.DataPoints[0].Sum)
}

func TestAPIProfile(t *testing.T) {
	t.Parallel()

	rec := get(t, newServer(t, server.Deps{}).Handler(), "/api/profile?tab=assigned")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body server.ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "assigned", body.View)
	assert.Equal(t, "Sarah Chen", body.Profile.Name)
	assert.Equal(t, 1247, body.Profile.TotalStoryPoints)
	assert.Equal(t, 87, body.Profile.CompletionRate)
}

func TestAPISeries(t *testing.T) {
	t.Parallel()

	handler := newServer(t, server.Deps{}).Handler()

	rec := get(t, handler, "/api/series?tab=reportee&filter=1W")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc export.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.NoError(t, export.Validate(doc))

	assert.Equal(t, "reportee", doc.View)
	require.Len(t, doc.Series, 7)
	assert.Equal(t, "2024-07-09", doc.Series[0].Date)

	seeded := get(t, handler, "/api/series?seed=99")
	require.Equal(t, http.StatusOK, seeded.Code)

	var other export.Document
	require.NoError(t, json.Unmarshal(seeded.Body.Bytes(), &other))
	assert.Equal(t, uint64(99), other.Seed)
}

func TestAPIHover(t *testing.T) {
	t.Parallel()

	handler := newServer(t, server.Deps{}).Handler()

	rec := get(t, handler, "/api/hover?filter=1W&x=200&w=400&cx=1200&cy=50&vw=1280")
	require.Equal(t, http.StatusOK, rec.Code)

	var tip dashboard.TooltipView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tip))

	assert.True(t, tip.Visible)
	assert.Equal(t, "2024-07-12", tip.Date)
	assert.InDelta(t, 1000.0, tip.X, 1e-9)
	assert.InDelta(t, 70.0, tip.Y, 1e-9)

	rec = get(t, handler, "/api/hover?x=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"visible":false}`, rec.Body.String())
}

func TestAPIHover_FirstPointWithoutViewport(t *testing.T) {
	t.Parallel()

	rec := get(t, newServer(t, server.Deps{}).Handler(), "/api/hover?filter=1W&x=40&cx=5&cy=300")
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Contains(t, raw, "index")
	assert.InDelta(t, 0.0, raw["index"], 1e-9)
	assert.Equal(t, "2024-07-09", raw["date"])
	assert.InDelta(t, 5.0, raw["x"], 1e-9)
	assert.InDelta(t, 290.0, raw["y"], 1e-9)
}

func TestAPISchema(t *testing.T) {
	t.Parallel()

	rec := get(t, newServer(t, server.Deps{}).Handler(), "/api/schema")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/schema+json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, string(export.Schema()), rec.Body.String())
}

func TestServer_CachesDatasetsPerSeed(t *testing.T) {
	t.Parallel()

	srv := newServer(t, server.Deps{})
	handler := srv.Handler()

	for _, target := range []string{"/api/profile", "/api/profile?tab=reportee", "/api/series?seed=7"} {
		require.Equal(t, http.StatusOK, get(t, handler, target).Code, target)
	}

	stats := srv.CacheStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.Equal(t, 2, stats.Entries)
	assert.InDelta(t, 1.0/3.0, stats.HitRate(), 1e-9)
}

func TestHealthAndReady(t *testing.T) {
	t.Parallel()

	handler := newServer(t, server.Deps{}).Handler()

	for _, target := range []string{"/healthz", "/readyz"} {
		rec := get(t, handler, target)

		require.Equal(t, http.StatusOK, rec.Code, target)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	}

	assert.Equal(t, http.StatusNotFound, get(t, handler, "/metrics").Code)
}

func TestNew_InvalidDashboard(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Dashboard.StartDate = "2025-01-01"

	_, err := server.New(cfg, server.Deps{})
	require.Error(t, err)

	cfg = config.Default()
	cfg.Dashboard.Padding = 200

	_, err = server.New(cfg, server.Deps{})
	require.ErrorIs(t, err, chart.ErrInvalidCanvas)
}

func TestObservabilityWiring(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	renders, err := observability.NewRenderMetrics(mp.Meter("test"))
	require.NoError(t, err)

	handler := newServer(t, server.Deps{
		Tracer:         tp.Tracer("test"),
		Metrics:        red,
		Renders:        renders,
		MetricsHandler: http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(rw, "scrape") }),
	}).Handler()

	require.Equal(t, http.StatusOK, get(t, handler, "/chart.svg").Code)
	assert.Equal(t, "scrape", get(t, handler, "/metrics").Body.String())

	require.NotEmpty(t, exporter.GetSpans())

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	names := map[string]bool{}

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}

	assert.True(t, names["storypulse.requests.total"])
	assert.True(t, names["storypulse.dashboard.renders.total"])
}

func TestServe_GracefulShutdown(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer

	srv := newServer(t, server.Deps{Logger: slog.New(slog.NewTextHandler(&logs, nil))})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)

	go func() {
		done <- srv.Serve(ctx, ln)
	}()

	url := "http://" + ln.Addr().String() + "/healthz"

	require.Eventually(t, func() bool {
		resp, getErr := http.Get(url) //nolint:noctx // test probe.
		if getErr != nil {
			return false
		}

		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)

		return resp.StatusCode == http.StatusOK && bytes.Contains(body, []byte("ok"))
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case serveErr := <-done:
		require.NoError(t, serveErr)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	assert.Contains(t, logs.String(), "dataset cache")
	assert.Contains(t, logs.String(), "hit_rate=")
}
