package plotpage

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const chartHeight = "420px"

// SeriesData is one value of a series, an int or a float64.
type SeriesData any

// BarSeries defines the properties and data for a single bar chart series.
type BarSeries struct {
	Name  string
	Data  []SeriesData
	Color string // Optional, uses theme if empty.
	Stack string // Optional, stack grouping.
}

// LineSeries defines the properties and data for a single line chart series.
type LineSeries struct {
	Name        string
	Data        []SeriesData
	Color       string  // Optional, uses theme if empty.
	Smooth      bool    // Optional, draws a smoothed line.
	AreaOpacity float32 // Optional, fills the area under the line.
	Mark        *MarkRange
}

// MarkRange shades the category span between two x-axis labels.
type MarkRange struct {
	Name  string
	From  string
	To    string
	Color string
}

// BuildBarChart constructs a go-echarts Bar chart. If cOpts is nil, DefaultChartOpts() is used.
func BuildBarChart(cOpts *ChartOpts, labels []string, series []BarSeries, yAxisLabel string) *charts.Bar {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init("100%", chartHeight)),
		charts.WithTooltipOpts(cOpts.Tooltip("axis")),
		charts.WithDataZoomOpts(cOpts.DataZoom()...),
		charts.WithXAxisOpts(cOpts.XAxis("")),
		charts.WithYAxisOpts(cOpts.YAxis(yAxisLabel)),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	bar.SetXAxis(labels)

	for _, s := range series {
		barData := make([]opts.BarData, len(s.Data))
		for i, v := range s.Data {
			barData[i] = opts.BarData{Value: v}
		}

		var seriesOpts []charts.SeriesOpts
		if s.Color != "" {
			seriesOpts = append(seriesOpts, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
		}

		if s.Stack != "" {
			seriesOpts = append(seriesOpts, charts.WithBarChartOpts(opts.BarChart{Stack: s.Stack}))
		}

		bar.AddSeries(s.Name, barData, seriesOpts...)
	}

	return bar
}

// BuildLineChart constructs a go-echarts Line chart. If cOpts is nil, DefaultChartOpts() is used.
func BuildLineChart(cOpts *ChartOpts, labels []string, series []LineSeries, yAxisLabel string) *charts.Line {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init("100%", chartHeight)),
		charts.WithTooltipOpts(cOpts.Tooltip("axis")),
		charts.WithDataZoomOpts(cOpts.DataZoom()...),
		charts.WithXAxisOpts(cOpts.XAxis("")),
		charts.WithYAxisOpts(cOpts.YAxis(yAxisLabel)),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	line.SetXAxis(labels)

	for _, s := range series {
		lineData := make([]opts.LineData, len(s.Data))
		for i, v := range s.Data {
			lineData[i] = opts.LineData{Value: v}
		}

		line.AddSeries(s.Name, lineData, lineSeriesOpts(s)...)
	}

	return line
}

func lineSeriesOpts(s LineSeries) []charts.SeriesOpts {
	var seriesOpts []charts.SeriesOpts

	if s.Color != "" {
		seriesOpts = append(seriesOpts,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color}),
		)
	}

	if s.Smooth {
		seriesOpts = append(seriesOpts, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	}

	if s.AreaOpacity > 0 {
		seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(s.AreaOpacity)}))
	}

	if s.Mark != nil {
		seriesOpts = append(seriesOpts, charts.WithMarkAreaNameCoordItemOpts(opts.MarkAreaNameCoordItem{
			Name:        s.Mark.Name,
			Coordinate0: []any{s.Mark.From, "min"},
			Coordinate1: []any{s.Mark.To, "max"},
			ItemStyle:   &opts.ItemStyle{Color: s.Mark.Color, Opacity: opts.Float(markOpacity)},
		}))
	}

	return seriesOpts
}

const markOpacity = 0.3
