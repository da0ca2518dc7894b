// Package terminal renders story point summaries and series for the CLI.
package terminal

import (
	"os"
	"strconv"
)

// Width limits.
const (
	DefaultWidth = 80
	MinWidth     = 60
	MaxWidth     = 120
)

// Config holds terminal rendering configuration.
type Config struct {
	Width   int
	NoColor bool
}

// NewConfig reads the width from COLUMNS and honours NO_COLOR.
func NewConfig() Config {
	return Config{
		Width:   DetectWidth(),
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// DetectWidth returns COLUMNS clamped to [MinWidth, MaxWidth], or DefaultWidth
// when it is unset or not a number.
func DetectWidth() int {
	width, err := strconv.Atoi(os.Getenv("COLUMNS"))
	if err != nil {
		return DefaultWidth
	}

	return ClampWidth(width)
}

// ClampWidth bounds width to [MinWidth, MaxWidth].
func ClampWidth(width int) int {
	return min(max(width, MinWidth), MaxWidth)
}
