// Package util provides common utility functions used across the codebase.
package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// JoinOrNone joins strings with ", " or returns "(none)" for empty slices.
func JoinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

// Pluralize returns singular if count is 1, otherwise plural.
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// Width returns the number of terminal cells s occupies.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate cuts s to at most width cells, ending in "…" when anything was
// removed.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return runewidth.Truncate(s, 1, "")
	}
	return runewidth.Truncate(s, width, "…")
}

// PadRight pads s with spaces to width cells, truncating when longer.
func PadRight(s string, width int) string {
	s = Truncate(s, width)
	return runewidth.FillRight(s, width)
}

// PadLeft right-aligns s in width cells, truncating when longer.
func PadLeft(s string, width int) string {
	s = Truncate(s, width)
	return runewidth.FillLeft(s, width)
}
