// Package chart maps story point series onto a fixed logical canvas and renders
// the dashboard area chart. It also resolves pointer positions to data points and
// places the hover tooltip.
package chart

import (
	"errors"
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
)

// Default logical canvas dimensions.
const (
	DefaultWidth   = 800
	DefaultHeight  = 300
	DefaultPadding = 40
)

var (
	// ErrInvalidCanvas is returned when the canvas leaves no plot area.
	ErrInvalidCanvas = errors.New("invalid canvas")
	// ErrEmptySeries is returned when a mapper is requested for an empty series.
	ErrEmptySeries = errors.New("empty series")
)

// Canvas is the logical drawing surface in SVG user units.
type Canvas struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`
}

// DefaultCanvas returns the 800x300 canvas with 40 units of padding.
func DefaultCanvas() Canvas {
	return Canvas{Width: DefaultWidth, Height: DefaultHeight, Padding: DefaultPadding}
}

// Validate checks that the padding leaves a positive plot area.
func (c Canvas) Validate() error {
	if c.Width <= 0 || c.Height <= 0 || c.Padding < 0 {
		return fmt.Errorf("%w: %gx%g padding %g", ErrInvalidCanvas, c.Width, c.Height, c.Padding)
	}

	if 2*c.Padding >= c.Width || 2*c.Padding >= c.Height {
		return fmt.Errorf("%w: padding %g leaves no plot area in %gx%g",
			ErrInvalidCanvas, c.Padding, c.Width, c.Height)
	}

	return nil
}

// PlotWidth is the horizontal extent between the paddings.
func (c Canvas) PlotWidth() float64 {
	return c.Width - 2*c.Padding
}

// PlotHeight is the vertical extent between the paddings.
func (c Canvas) PlotHeight() float64 {
	return c.Height - 2*c.Padding
}

// Baseline is the y coordinate of the zero value.
func (c Canvas) Baseline() float64 {
	return c.Height - c.Padding
}

// Mapper converts series indices and values to canvas coordinates.
type Mapper struct {
	canvas   Canvas
	series   []storypoints.StoryPointData
	maxTotal int
}

// NewMapper builds a mapper for a non-empty series. The y scale is taken from
// the largest Total in the series.
func NewMapper(canvas Canvas, series []storypoints.StoryPointData) (*Mapper, error) {
	validateErr := canvas.Validate()
	if validateErr != nil {
		return nil, validateErr
	}

	if len(series) == 0 {
		return nil, ErrEmptySeries
	}

	peak := lo.MaxBy(series, func(a, b storypoints.StoryPointData) bool {
		return a.Total > b.Total
	})

	return &Mapper{canvas: canvas, series: series, maxTotal: peak.Total}, nil
}

// Canvas returns the canvas the mapper projects onto.
func (m *Mapper) Canvas() Canvas {
	return m.canvas
}

// Len returns the number of points.
func (m *Mapper) Len() int {
	return len(m.series)
}

// MaxTotal returns the value plotted at the top of the plot area.
func (m *Mapper) MaxTotal() int {
	return m.maxTotal
}

// Point returns the entry at index i.
func (m *Mapper) Point(i int) storypoints.StoryPointData {
	return m.series[i]
}

// X returns the horizontal coordinate of index i. A single point sits on the left padding.
func (m *Mapper) X(i int) float64 {
	n := len(m.series)
	if n == 1 {
		return m.canvas.Padding
	}

	return float64(i)/float64(n-1)*m.canvas.PlotWidth() + m.canvas.Padding
}

// Y returns the vertical coordinate of value v. With a zero maximum every value
// lies on the baseline.
func (m *Mapper) Y(v float64) float64 {
	if m.maxTotal == 0 {
		return m.canvas.Baseline()
	}

	return m.canvas.Baseline() - v/float64(m.maxTotal)*m.canvas.PlotHeight()
}

// IndexAt resolves a canvas x coordinate to the nearest point index. The
// boolean is false when x lies outside the plot area.
func (m *Mapper) IndexAt(x float64) (int, bool) {
	c := m.canvas
	if x < c.Padding || x > c.Width-c.Padding {
		return 0, false
	}

	n := len(m.series)
	idx := int(math.Round((x - c.Padding) / c.PlotWidth() * float64(n-1)))

	if idx < 0 || idx >= n {
		return 0, false
	}

	return idx, true
}
