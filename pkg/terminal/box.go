package terminal

import (
	"strings"
	"unicode/utf8"
)

// Heavy box drawing characters.
const (
	BoxHorizontal       = "─"
	BoxHeavyHorizontal  = "━"
	BoxHeavyVertical    = "┃"
	BoxHeavyTopLeft     = "┏"
	BoxHeavyTopRight    = "┓"
	BoxHeavyBottomLeft  = "┗"
	BoxHeavyBottomRight = "┛"
)

// HeaderPadding is the space around header content.
const HeaderPadding = 1

// DrawSeparator draws a thin horizontal line.
func DrawSeparator(width int) string {
	if width <= 0 {
		return ""
	}

	return strings.Repeat(BoxHorizontal, width)
}

// DrawHeader draws a heavy-bordered header with title on the left and
// rightText on the right. The box grows when width cannot hold both.
//
//	┏━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┓
//	┃ Sarah Chen          Assigned · 1W    ┃
//	┗━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┛
func DrawHeader(title, rightText string, width int) string {
	titleLen := utf8.RuneCountInString(title)
	rightLen := utf8.RuneCountInString(rightText)

	width = max(width, titleLen+rightLen+1+2*HeaderPadding+2)
	inner := width - 2
	content := inner - 2*HeaderPadding
	gap := content - titleLen - rightLen

	pad := strings.Repeat(" ", HeaderPadding)
	line := BoxHeavyVertical + pad + title + strings.Repeat(" ", gap) + rightText + pad + BoxHeavyVertical

	return BoxHeavyTopLeft + strings.Repeat(BoxHeavyHorizontal, inner) + BoxHeavyTopRight + "\n" +
		line + "\n" +
		BoxHeavyBottomLeft + strings.Repeat(BoxHeavyHorizontal, inner) + BoxHeavyBottomRight
}
