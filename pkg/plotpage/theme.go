package plotpage

import (
	"errors"
	"fmt"
	"strings"
)

// Theme represents a color theme for pages and charts.
type Theme string

const (
	// ThemeLight is the light color theme.
	ThemeLight Theme = "light"
	// ThemeDark is the dark color theme.
	ThemeDark Theme = "dark"
)

// ErrUnknownTheme is returned by ParseTheme for names other than light and dark.
var ErrUnknownTheme = errors.New("unknown theme")

// ParseTheme converts a theme name. The empty string selects ThemeLight.
func ParseTheme(name string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(name))) {
	case "", ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
}

// ThemeConfig holds all theme-specific styling values.
type ThemeConfig struct {
	// Base colors.
	Background string
	Surface    string
	Border     string

	// Text colors.
	TextPrimary   string
	TextSecondary string
	TextMuted     string

	// Accent colors.
	Accent      string
	AccentHover string

	// Chart-specific.
	ChartBackground string
	ChartGrid       string
	ChartAxis       string
	ChartText       string
	ChartTextMuted  string

	// ECharts theme name.
	EChartsTheme string
}

// ChartPalette is the series palette of a theme.
type ChartPalette struct {
	Primary   []string // Series colors in order.
	Highlight string   // Marks the current period.
}

// GetThemeConfig returns the configuration for a given theme.
func GetThemeConfig(theme Theme) ThemeConfig {
	if theme == ThemeDark {
		return darkTheme
	}

	return lightTheme
}

// GetChartPalette returns the chart color palette for a given theme.
func GetChartPalette(theme Theme) ChartPalette {
	if theme == ThemeDark {
		return darkChartPalette
	}

	return lightChartPalette
}

var lightTheme = ThemeConfig{
	Background: "#f8fafc", // slate-50.
	Surface:    "#ffffff",
	Border:     "#e2e8f0", // slate-200.

	TextPrimary:   "#0f172a", // slate-900.
	TextSecondary: "#334155", // slate-700.
	TextMuted:     "#64748b", // slate-500.

	Accent:      "#3b82f6", // blue-500.
	AccentHover: "#2563eb", // blue-600.

	ChartBackground: "transparent",
	ChartGrid:       "#f1f5f9", // slate-100.
	ChartAxis:       "#cbd5e1", // slate-300.
	ChartText:       "#334155",
	ChartTextMuted:  "#6b7280", // gray-500.
}

var darkTheme = ThemeConfig{
	Background: "#020617", // slate-950.
	Surface:    "#0f172a", // slate-900.
	Border:     "#334155", // slate-700.

	TextPrimary:   "#f8fafc",
	TextSecondary: "#cbd5e1",
	TextMuted:     "#94a3b8", // slate-400.

	Accent:      "#60a5fa", // blue-400.
	AccentHover: "#93c5fd", // blue-300.

	ChartBackground: "transparent",
	ChartGrid:       "#1e293b", // slate-800.
	ChartAxis:       "#475569", // slate-600.
	ChartText:       "#cbd5e1",
	ChartTextMuted:  "#94a3b8",
}

var lightChartPalette = ChartPalette{
	Primary:   []string{"#3B82F6", "#22C55E", "#6366F1", "#F59E0B"},
	Highlight: "#FBBF24",
}

var darkChartPalette = ChartPalette{
	Primary:   []string{"#60A5FA", "#4ADE80", "#818CF8", "#FBBF24"},
	Highlight: "#F59E0B",
}
