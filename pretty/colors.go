package pretty

import (
	"os"
	"strings"
)

// ColorMode is the level of color support of the terminal
type ColorMode int

const (
	ColorModeNone ColorMode = iota
	ColorModeBasic
	ColorMode256
	ColorModeTrueColor
)

var (
	detectedColorMode ColorMode
	colorModeDetected bool
)

// DetectColorMode checks NO_COLOR, COLORTERM and TERM, in that order.
func DetectColorMode() ColorMode {
	if colorModeDetected {
		return detectedColorMode
	}
	colorModeDetected = true

	term := os.Getenv("TERM")
	colorterm := os.Getenv("COLORTERM")
	switch {
	case os.Getenv("NO_COLOR") != "":
		detectedColorMode = ColorModeNone
	case colorterm == "truecolor" || colorterm == "24bit":
		detectedColorMode = ColorModeTrueColor
	case term == "" || term == "dumb":
		detectedColorMode = ColorModeNone
	case strings.Contains(term, "256color"):
		detectedColorMode = ColorMode256
	default:
		detectedColorMode = ColorModeBasic
	}
	return detectedColorMode
}

// StateColor colors download states: pending grey, fetching and extracting
// cyan, installed green, failed red, cancelled faint.
func StateColor(state string) string {
	if Colorless || Disabled {
		return ""
	}
	switch strings.ToLower(state) {
	case "pending":
		return Grey
	case "fetching", "extracting":
		return Cyan
	case "installed":
		return Green
	case "failed":
		return Red
	case "cancelled":
		return Faint
	default:
		return ""
	}
}
