package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRendersTotal = "storypulse.dashboard.renders.total"
	metricSeriesPoints = "storypulse.dashboard.series.points"

	attrFormat = "format"
	attrView   = "view"
	attrFilter = "filter"
)

var pointBucketBoundaries = []float64{0, 1, 2, 7, 31, 90, 180, 366, 731}

// RenderMetrics counts dashboard renditions and the size of the plotted series.
type RenderMetrics struct {
	renders metric.Int64Counter
	points  metric.Int64Histogram
}

// RenderStats describes one rendition.
type RenderStats struct {
	Format string
	View   string
	Filter string
	Points int
}

// NewRenderMetrics creates the rendering instruments from the given meter.
func NewRenderMetrics(mt metric.Meter) (*RenderMetrics, error) {
	renders, err := mt.Int64Counter(metricRendersTotal,
		metric.WithDescription("Dashboard renditions by format, view and filter"),
		metric.WithUnit("{render}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRendersTotal, err)
	}

	points, err := mt.Int64Histogram(metricSeriesPoints,
		metric.WithDescription("Days plotted per rendition"),
		metric.WithUnit("{day}"),
		metric.WithExplicitBucketBoundaries(pointBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricSeriesPoints, err)
	}

	return &RenderMetrics{renders: renders, points: points}, nil
}

// Record records one rendition. Safe to call on a nil receiver.
func (rm *RenderMetrics) Record(ctx context.Context, stats RenderStats) {
	if rm == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrFormat, stats.Format),
		attribute.String(attrView, stats.View),
		attribute.String(attrFilter, stats.Filter),
	)

	rm.renders.Add(ctx, 1, attrs)
	rm.points.Record(ctx, int64(stats.Points), metric.WithAttributes(attribute.String(attrFormat, stats.Format)))
}
