package ui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Color palette using ANSI color codes so both terminal backends can share it:
// lipgloss takes the codes as-is and tcell maps them to palette entries.

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
	ColorAccent    lipgloss.Color = "5" // Magenta
)

// ANSIIndex returns the palette index of c, or -1 when c is not an ANSI code.
func ANSIIndex(c lipgloss.Color) int {
	n, err := strconv.Atoi(string(c))
	if err != nil || n < 0 || n > 255 {
		return -1
	}
	return n
}

// LevelColor returns the color for a severity level.
func LevelColor(l Level) lipgloss.Color {
	switch l {
	case LevelCritical:
		return ColorError
	case LevelWarning:
		return ColorWarning
	default:
		return ColorSuccess
	}
}
