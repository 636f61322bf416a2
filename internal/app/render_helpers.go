package app

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// fit truncates s to width cells and pads it with spaces to exactly width.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "…")
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// tail keeps the last width cells of s, for a compose field that follows
// the cursor.
func tail(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.StringWidth(s)
	if w <= width {
		return s
	}
	return ansi.Cut(s, w-width, w)
}

// center pads s on both sides to width cells.
func center(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	pad := width - ansi.StringWidth(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

// clipContent cuts a block at (x, y) to the part inside the viewport. It
// returns the visible content and where to draw it; empty content means
// nothing is visible.
func clipContent(content string, x, y, viewportWidth, viewportHeight int) (string, int, int) {
	lines := strings.Split(content, "\n")
	height := len(lines)
	width := 0
	for _, l := range lines {
		width = max(width, ansi.StringWidth(l))
	}

	if x+width <= 0 || x >= viewportWidth || y+height <= 0 || y >= viewportHeight {
		return "", max(x, 0), max(y, 0)
	}

	clipTop, clipLeft := 0, 0
	finalX, finalY := x, y
	if y < 0 {
		clipTop = -y
		finalY = 0
	}
	if x < 0 {
		clipLeft = -x
		finalX = 0
	}

	visible := lines[clipTop:]
	if maxLines := viewportHeight - finalY; maxLines < len(visible) {
		visible = visible[:maxLines]
	}

	if clipLeft > 0 || finalX+width > viewportWidth {
		right := clipLeft + viewportWidth - finalX
		clipped := make([]string, len(visible))
		for i, line := range visible {
			clipped[i] = ansi.Cut(line, clipLeft, right)
		}
		visible = clipped
	}
	return strings.Join(visible, "\n"), finalX, finalY
}
