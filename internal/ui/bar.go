package ui

import "strings"

// Gauge block characters.
const (
	BarFilled = '█'
	BarEmpty  = '░'
)

// ClampPercent clamps a percentage to the 0-100 range.
func ClampPercent(percent float64) float64 {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// CalculateBarCounts returns the number of filled and empty characters for a bar.
// Percent should be 0-100, width is the total bar width.
func CalculateBarCounts(percent float64, width int) (filled, empty int) {
	if width <= 0 {
		return 0, 0
	}
	filled = int((ClampPercent(percent) / 100.0) * float64(width))
	if filled > width {
		filled = width
	}
	empty = width - filled
	return
}

// Bar renders an unstyled gauge of the given width, e.g. "████░░░░".
func Bar(percent float64, width int) string {
	filled, empty := CalculateBarCounts(percent, width)
	if filled+empty == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow((filled + empty) * 3)
	for i := 0; i < filled; i++ {
		sb.WriteRune(BarFilled)
	}
	for i := 0; i < empty; i++ {
		sb.WriteRune(BarEmpty)
	}
	return sb.String()
}
