// Package ui provides the text building blocks the monitor draws with.
//
// Everything here returns plain strings: byte and uptime formatting,
// sparklines, gauges and severity levels. Colour is applied later by the
// terminal backend, which maps levels and roles onto the palette in
// colors.go.
//
// # Formatting
//
//	ui.FormatBytes(1536)              // "1.5 KiB"
//	ui.FormatRate(2048)               // "2.0 KiB/s"
//	ui.FormatUptime(90061*time.Second) // "1d 1h 1m 1s"
//
// # Graphs
//
//	ui.Sparkline(history, 30)         // ▁▂▄▆█▇▅
//	ui.PercentSparkline(history, 30)  // fixed 0-100 scale
//	ui.Bar(67.5, 20)                  // █████████████░░░░░░░
//
// # Severity
//
// Thresholds.Level maps a percentage to LevelNormal, LevelWarning or
// LevelCritical (70/90 by default). DiskCategory and TempCategory give the
// human labels shown next to disk and temperature readings.
package ui
