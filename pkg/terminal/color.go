package terminal

import "github.com/fatih/color"

// Color is a semantic text color.
type Color int

// Colors used by the renderers.
const (
	ColorNone Color = iota
	ColorGreen
	ColorYellow
	ColorRed
	ColorBlue
	ColorGray
	ColorAmber
)

// Completion thresholds for ColorForRate.
const (
	RateThresholdGood = 0.8
	RateThresholdFair = 0.5
)

var colorAttrs = map[Color][]color.Attribute{
	ColorGreen:  {color.FgGreen},
	ColorYellow: {color.FgYellow},
	ColorRed:    {color.FgRed},
	ColorBlue:   {color.FgBlue},
	ColorGray:   {color.FgHiBlack},
	ColorAmber:  {color.FgHiYellow, color.Bold},
}

// Colorize wraps text in the escape codes of c unless NoColor is set.
func (cfg Config) Colorize(text string, c Color) string {
	attrs, ok := colorAttrs[c]
	if !ok {
		return text
	}

	painter := color.New(attrs...)
	if cfg.NoColor {
		painter.DisableColor()
	} else {
		painter.EnableColor()
	}

	return painter.Sprint(text)
}

// ColorForRate picks green, yellow or red for a completion ratio in [0, 1].
func ColorForRate(rate float64) Color {
	switch {
	case rate >= RateThresholdGood:
		return ColorGreen
	case rate >= RateThresholdFair:
		return ColorYellow
	default:
		return ColorRed
	}
}
