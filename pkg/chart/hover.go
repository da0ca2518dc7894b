package chart

import (
	"github.com/Sumatoshi-tech/storypulse/pkg/storypoints"
)

// Tooltip placement offsets in pixels.
const (
	tooltipOffsetAbove = 10
	tooltipOffsetBelow = 20
)

// TooltipDateLayout renders tooltip dates as "Mon, Jul 15, 2024".
const TooltipDateLayout = "Mon, Jan 2, 2006"

// Size is a width and height in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultTooltipSize is the nominal tooltip box used for edge clamping.
var DefaultTooltipSize = Size{Width: 200, Height: 100}

// Pointer is a pointer position over the chart element.
type Pointer struct {
	// OffsetX is the pointer x relative to the left edge of the chart element.
	OffsetX float64
	// ElementWidth is the rendered width of the chart element. Zero means the
	// element is drawn at canvas scale.
	ElementWidth float64
	// ClientX and ClientY are the pointer coordinates in the viewport.
	ClientX float64
	ClientY float64
	// ViewportWidth bounds the tooltip on the right. Zero means unknown, and
	// the tooltip stays right of the pointer.
	ViewportWidth float64
}

// Tooltip is the hovered point and where to draw its box.
type Tooltip struct {
	Index int
	Point storypoints.StoryPointData
	X     float64
	Y     float64
}

// DateLabel returns the hovered day as "Mon, Jul 15, 2024".
func (t Tooltip) DateLabel() string {
	return t.Point.Date.Format(TooltipDateLayout)
}

// CanvasX converts an element-relative x offset into canvas units.
func (m *Mapper) CanvasX(offsetX, elementWidth float64) float64 {
	if elementWidth <= 0 || elementWidth == m.canvas.Width {
		return offsetX
	}

	return offsetX * m.canvas.Width / elementWidth
}

// PlaceTooltip positions a box of the given size next to the pointer. The box
// flips to the left of the pointer when it would overflow a known viewport and
// below the pointer when it would leave the top.
func PlaceTooltip(p Pointer, box Size) (float64, float64) {
	x := p.ClientX
	y := p.ClientY - tooltipOffsetAbove

	if p.ViewportWidth > 0 && x+box.Width > p.ViewportWidth {
		x = p.ClientX - box.Width
	}

	if y-box.Height < 0 {
		y = p.ClientY + tooltipOffsetBelow
	}

	return x, y
}

// Hover resolves the pointer to a tooltip. The boolean is false when the
// pointer is outside the plot area, which clears the tooltip.
func (m *Mapper) Hover(p Pointer, box Size) (Tooltip, bool) {
	idx, ok := m.IndexAt(m.CanvasX(p.OffsetX, p.ElementWidth))
	if !ok {
		return Tooltip{}, false
	}

	x, y := PlaceTooltip(p, box)

	return Tooltip{Index: idx, Point: m.series[idx], X: x, Y: y}, true
}
