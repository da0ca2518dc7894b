package terminal

import (
	"strings"
	"unicode/utf8"
)

// Ellipsis is appended to truncated strings.
const Ellipsis = "..."

// TruncateWithEllipsis shortens s to at most maxWidth runes.
func TruncateWithEllipsis(s string, maxWidth int) string {
	if utf8.RuneCountInString(s) <= maxWidth {
		return s
	}

	if maxWidth <= len(Ellipsis) {
		return strings.Repeat(".", max(maxWidth, 0))
	}

	runes := []rune(s)

	return string(runes[:maxWidth-len(Ellipsis)]) + Ellipsis
}

// PadRight pads s with spaces to width runes.
func PadRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}

	return s + strings.Repeat(" ", width-n)
}
