package export

import (
	"fmt"
	"io"
	"time"

	"github.com/samber/lo"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Sumatoshi-tech/storypulse/pkg/chart"
	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
)

const (
	lineWidth      = 3
	highlightWidth = 6
	singlePointPad = 12 * time.Hour
)

var (
	totalColor     = drawing.ColorFromHex("3B82F6")
	totalFillColor = drawing.ColorFromHex("3B82F6").WithAlpha(60)
	closedColor    = drawing.ColorFromHex("22C55E")
	weekColor      = drawing.ColorFromHex("FBBF24")
	weekStyle      = gochart.Style{
		StrokeColor: weekColor,
		StrokeWidth: highlightWidth,
		DotColor:    weekColor,
		DotWidth:    highlightWidth,
	}
)

// PNGOptions controls the raster rendition of the chart.
type PNGOptions struct {
	Canvas chart.Canvas
	// Week draws the entries inside the range as a thick amber overlay when set.
	Week *chart.Range
}

// RenderPNG draws the total and closed lines of series as a PNG image.
func RenderPNG(w io.Writer, series []storypoints.StoryPointData, opts PNGOptions) error {
	validateErr := opts.Canvas.Validate()
	if validateErr != nil {
		return validateErr
	}

	if len(series) == 0 {
		return chart.ErrEmptySeries
	}

	dates := lo.Map(series, func(d storypoints.StoryPointData, _ int) time.Time { return d.Date })
	totals := lo.Map(series, func(d storypoints.StoryPointData, _ int) float64 { return float64(d.Total) })
	closed := lo.Map(series, func(d storypoints.StoryPointData, _ int) float64 { return float64(d.Closed) })

	pad := int(opts.Canvas.Padding)
	peak := lo.Max(totals)

	graph := gochart.Chart{
		Width:      int(opts.Canvas.Width),
		Height:     int(opts.Canvas.Height),
		Background: gochart.Style{Padding: gochart.Box{Top: pad, Left: pad, Right: pad, Bottom: pad}},
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeValueFormatterWithFormat("Jan 2"),
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: max(peak, 1)},
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    "Total Story Points",
				Style:   gochart.Style{StrokeColor: totalColor, FillColor: totalFillColor, StrokeWidth: lineWidth},
				XValues: dates,
				YValues: totals,
			},
			gochart.TimeSeries{
				Name:    "Closed Story Points",
				Style:   gochart.Style{StrokeColor: closedColor, StrokeWidth: lineWidth},
				XValues: dates,
				YValues: closed,
			},
		},
	}

	if len(series) == 1 {
		graph.XAxis.Range = &gochart.ContinuousRange{
			Min: gochart.TimeToFloat64(dates[0].Add(-singlePointPad)),
			Max: gochart.TimeToFloat64(dates[0].Add(singlePointPad)),
		}
	}

	if opts.Week != nil {
		if idx := chart.WeekIndices(series, *opts.Week); len(idx) > 0 {
			first, last := idx[0], idx[len(idx)-1]+1
			graph.Series = append(graph.Series, gochart.TimeSeries{
				Name:    "Current Week",
				Style:   weekStyle,
				XValues: dates[first:last],
				YValues: totals[first:last],
			})
		}
	}

	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	renderErr := graph.Render(gochart.PNG, w)
	if renderErr != nil {
		return fmt.Errorf("render png: %w", renderErr)
	}

	return nil
}
