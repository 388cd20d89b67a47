package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatBytes formats a byte count with binary units, e.g. "1.5 GiB".
func FormatBytes(b uint64) string {
	return humanize.IBytes(b)
}

// FormatRate formats a bytes-per-second rate, e.g. "12 KiB/s".
func FormatRate(bytesPerSecond float64) string {
	if bytesPerSecond < 0 {
		bytesPerSecond = 0
	}
	return humanize.IBytes(uint64(bytesPerSecond)) + "/s"
}

// FormatPercent formats a percentage with one decimal and a fixed width.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%5.1f%%", p)
}

// FormatUptime formats a duration as days, hours, minutes and seconds,
// leaving out leading zero units: "1d 1h 1m 1s", "5m 0s", "0s".
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	days := total / 86400
	hours := (total % 86400) / 3600
	mins := (total % 3600) / 60
	secs := total % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if days > 0 || hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if days > 0 || hours > 0 || mins > 0 {
		parts = append(parts, fmt.Sprintf("%dm", mins))
	}
	parts = append(parts, fmt.Sprintf("%ds", secs))
	return strings.Join(parts, " ")
}

// FormatAge describes how long ago t was relative to now, e.g. "3s ago".
func FormatAge(now, t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t).Round(time.Second)
	if d < time.Second {
		return "just now"
	}
	return FormatUptime(d) + " ago"
}
