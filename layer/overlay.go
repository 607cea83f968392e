package layer

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

const reset = "\x1b[0m"

// Overlay paints foreground centered over background, both may contain
// ANSI styling.
func Overlay(background, foreground string, width, height int) string {
	back := strings.Split(background, "\n")
	for len(back) < height {
		back = append(back, "")
	}
	front := strings.Split(foreground, "\n")
	frontWidth := 0
	for _, line := range front {
		if w := ansi.StringWidth(line); w > frontWidth {
			frontWidth = w
		}
	}
	x := max((width-frontWidth)/2, 0)
	y := max((height-len(front))/2, 0)

	for index, line := range front {
		row := y + index
		if row >= len(back) {
			break
		}
		under := back[row]
		left := ansi.Truncate(under, x, "")
		if gap := x - ansi.StringWidth(left); gap > 0 {
			left += strings.Repeat(" ", gap)
		}
		lineWidth := ansi.StringWidth(line)
		if lineWidth < frontWidth {
			line += strings.Repeat(" ", frontWidth-lineWidth)
		}
		right := ""
		if ansi.StringWidth(under) > x+frontWidth {
			right = ansi.TruncateLeft(under, x+frontWidth, "")
		}
		back[row] = left + reset + line + reset + right
	}
	return strings.Join(back, "\n")
}
