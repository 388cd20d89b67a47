package ui

import "strings"

// Sparkline block characters representing 8 vertical levels (lowest to highest).
const sparklineBlocks = "▁▂▃▄▅▆▇█"

// sparklineBlockRunes provides indexed access to block characters.
var sparklineBlockRunes = []rune(sparklineBlocks)

// Sparkline renders the most recent width values as block characters,
// scaled between the smallest and largest value shown. Flat input renders
// at the middle level.
func Sparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return sparkline(data, minVal, maxVal)
}

// PercentSparkline is like Sparkline but on a fixed 0-100 scale, so a quiet
// machine stays low instead of being stretched to fill the height.
func PercentSparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}
	return sparkline(data, 0, 100)
}

func sparkline(data []float64, minVal, maxVal float64) string {
	var sb strings.Builder
	sb.Grow(len(data) * 3)

	numLevels := len(sparklineBlockRunes)
	valueRange := maxVal - minVal

	for _, v := range data {
		var level int
		if valueRange == 0 {
			level = numLevels / 2
		} else {
			normalized := (v - minVal) / valueRange
			level = int(normalized * float64(numLevels-1))
			if level < 0 {
				level = 0
			} else if level >= numLevels {
				level = numLevels - 1
			}
		}
		sb.WriteRune(sparklineBlockRunes[level])
	}
	return sb.String()
}
