package terminal

import (
	"fmt"
	"strings"
)

// Progress bar characters.
const (
	ProgressFilled = "█"
	ProgressEmpty  = "░"
)

// PercentMultiplier converts a ratio to a percentage.
const PercentMultiplier = 100

// DrawProgressBar draws value in [0, 1] as a bar of width cells.
// DrawProgressBar(0.7, 10) returns "███████░░░".
func DrawProgressBar(value float64, width int) string {
	if width <= 0 {
		return ""
	}

	value = min(max(value, 0), 1)
	filled := int(value * float64(width))

	return strings.Repeat(ProgressFilled, filled) + strings.Repeat(ProgressEmpty, width-filled)
}

// DrawPercentBar draws a labeled percentage bar:
// "Closed         ██████████████████░░  87%".
func DrawPercentBar(label string, ratio float64, labelWidth, barWidth int) string {
	pct := int(min(max(ratio, 0), 1)*PercentMultiplier + 0.5)

	return fmt.Sprintf("%s %s %3d%%", PadRight(label, labelWidth), DrawProgressBar(ratio, barWidth), pct)
}
