package overlay

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// composite places top over base at character position (x, y), treating
// both as line-based grids of width w and height h. Styled (ANSI) content
// on either side is preserved.
func composite(base, top string, x, y, w, h int) string {
	baseLines := splitLines(base)
	topLines := splitLines(top)
	topWidth := maxLineWidth(topLines)

	for i, line := range topLines {
		row := y + i
		if row < 0 || row >= len(baseLines) || row >= h {
			continue
		}
		target := padRight(baseLines[row], w)

		left := ansi.Truncate(target, x, "")
		if lw := ansi.StringWidth(left); lw < x {
			left += strings.Repeat(" ", x-lw)
		}

		topLine := padRight(line, topWidth)
		pos := x + ansi.StringWidth(topLine)
		right := ""
		if w > 0 {
			right = ansi.TruncateLeft(target, pos, "")
			if gap := w - pos - ansi.StringWidth(right); gap > 0 {
				right = strings.Repeat(" ", gap) + right
			}
		}

		baseLines[row] = left + topLine + right
	}
	return strings.Join(baseLines, "\n")
}

// splitLines splits on newlines, returning at least one element.
func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

// maxLineWidth returns the visual width of the widest line.
func maxLineWidth(lines []string) int {
	m := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > m {
			m = w
		}
	}
	return m
}

// padRight pads s with spaces so its visual width equals width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
