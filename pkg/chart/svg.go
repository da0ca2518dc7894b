package chart

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
)

// NoDataMessage is shown instead of the chart when the filtered series is empty.
const NoDataMessage = "No data available for selected time period"

const axisDateLayout = "Jan 2"

// Layout constants of the rendered chart, in canvas units.
const (
	gridSize        = 40
	weekBandMargin  = 20
	weekLabelOffset = 10
	yLabelOffset    = 10
	yLabelBaseline  = 4
	xLabelOffset    = 20
	markerRadius    = 4
	highlightRadius = 6
	maxXLabels      = 8
	coordinateScale = 100
)

var yTickFractions = []float64{0, 0.25, 0.5, 0.75, 1}

//go:embed templates/chart.svg.tmpl
var svgTemplateText string

var svgTemplate = template.Must(template.New("chart.svg").Parse(svgTemplateText))

// Options controls chart rendering.
type Options struct {
	Canvas Canvas
	// Week highlights the entries inside the range when set.
	Week *Range
}

type svgPoint struct {
	X         string
	TotalY    string
	ClosedY   string
	Radius    int
	Highlight bool
}

type svgLabel struct {
	X    string
	Y    string
	Text string
}

type svgBand struct {
	X      string
	Y      string
	Width  string
	Height string
	LabelX string
	LabelY string
}

type svgData struct {
	Width      string
	Height     string
	Empty      bool
	Message    string
	MessageX   string
	MessageY   string
	GridSize   int
	Band       *svgBand
	AreaPath   string
	TotalPath  string
	ClosedPath string
	Points     []svgPoint
	YLabels    []svgLabel
	XLabels    []svgLabel
}

// Render writes the area chart of series as an SVG document. An empty series
// produces the no-data placeholder.
func Render(w io.Writer, series []storypoints.StoryPointData, opts Options) error {
	data, buildErr := buildSVGData(series, opts)
	if buildErr != nil {
		return buildErr
	}

	execErr := svgTemplate.Execute(w, data)
	if execErr != nil {
		return fmt.Errorf("render chart svg: %w", execErr)
	}

	return nil
}

// SVG renders the chart for inline embedding in an HTML page.
func SVG(series []storypoints.StoryPointData, opts Options) (template.HTML, error) {
	var buf bytes.Buffer

	renderErr := Render(&buf, series, opts)
	if renderErr != nil {
		return "", renderErr
	}

	//nolint:gosec // output of the escaping template above.
	return template.HTML(buf.String()), nil
}

func buildSVGData(series []storypoints.StoryPointData, opts Options) (svgData, error) {
	c := opts.Canvas

	validateErr := c.Validate()
	if validateErr != nil {
		return svgData{}, validateErr
	}

	data := svgData{Width: num(c.Width), Height: num(c.Height), GridSize: gridSize}

	if len(series) == 0 {
		data.Empty = true
		data.Message = NoDataMessage
		data.MessageX = num(c.Width / 2)
		data.MessageY = num(c.Height / 2)

		return data, nil
	}

	m, mapperErr := NewMapper(c, series)
	if mapperErr != nil {
		return svgData{}, mapperErr
	}

	highlighted := map[int]bool{}

	if opts.Week != nil {
		indices := WeekIndices(series, *opts.Week)
		for _, i := range indices {
			highlighted[i] = true
		}

		data.Band = weekBand(m, indices)
	}

	data.TotalPath = linePath(m, func(d storypoints.StoryPointData) int { return d.Total })
	data.ClosedPath = linePath(m, func(d storypoints.StoryPointData) int { return d.Closed })
	data.AreaPath = fmt.Sprintf("%s L %s %s L %s %s Z", data.TotalPath,
		num(m.X(m.Len()-1)), num(c.Baseline()), num(c.Padding), num(c.Baseline()))

	data.Points = make([]svgPoint, 0, m.Len())

	for i, d := range series {
		radius := markerRadius
		if highlighted[i] {
			radius = highlightRadius
		}

		data.Points = append(data.Points, svgPoint{
			X:         num(m.X(i)),
			TotalY:    num(m.Y(float64(d.Total))),
			ClosedY:   num(m.Y(float64(d.Closed))),
			Radius:    radius,
			Highlight: highlighted[i],
		})
	}

	data.YLabels = yLabels(m)
	data.XLabels = xLabels(m)

	return data, nil
}

// weekBand spans the highlighted indices with a margin on each side. Nil when
// none of the entries falls inside the week.
func weekBand(m *Mapper, indices []int) *svgBand {
	if len(indices) == 0 {
		return nil
	}

	c := m.Canvas()
	first := m.X(indices[0])
	last := m.X(indices[len(indices)-1])

	width := float64(2 * weekBandMargin)
	center := first

	if len(indices) > 1 {
		width += last - first
		center = first + (last-first)/2
	}

	return &svgBand{
		X:      num(first - weekBandMargin),
		Y:      num(c.Padding),
		Width:  num(width),
		Height: num(c.PlotHeight()),
		LabelX: num(center),
		LabelY: num(c.Padding - weekLabelOffset),
	}
}

func linePath(m *Mapper, value func(storypoints.StoryPointData) int) string {
	var b strings.Builder

	for i := range m.Len() {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		} else {
			b.WriteByte(' ')
		}

		fmt.Fprintf(&b, "%s %s %s", cmd, num(m.X(i)), num(m.Y(float64(value(m.Point(i))))))
	}

	return b.String()
}

// YTicks returns the rounded axis values at 0, 25, 50, 75 and 100 percent of the maximum.
func YTicks(maxTotal int) []int {
	ticks := make([]int, len(yTickFractions))
	for i, f := range yTickFractions {
		ticks[i] = int(math.Round(float64(maxTotal) * f))
	}

	return ticks
}

func yLabels(m *Mapper) []svgLabel {
	ticks := YTicks(m.MaxTotal())
	labels := make([]svgLabel, 0, len(ticks))

	for i, f := range yTickFractions {
		labels = append(labels, svgLabel{
			X:    num(m.Canvas().Padding - yLabelOffset),
			Y:    num(m.Y(float64(m.MaxTotal())*f) + yLabelBaseline),
			Text: strconv.Itoa(ticks[i]),
		})
	}

	return labels
}

// XLabelStep returns the index stride between x-axis labels.
func XLabelStep(n int) int {
	return max(1, int(math.Ceil(float64(n)/maxXLabels)))
}

func xLabels(m *Mapper) []svgLabel {
	step := XLabelStep(m.Len())
	y := num(m.Canvas().Baseline() + xLabelOffset)

	var labels []svgLabel

	for i := 0; i < m.Len(); i += step {
		labels = append(labels, svgLabel{
			X:    num(m.X(i)),
			Y:    y,
			Text: m.Point(i).Date.Format(axisDateLayout),
		})
	}

	return labels
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*coordinateScale)/coordinateScale, 'f', -1, 64)
}
