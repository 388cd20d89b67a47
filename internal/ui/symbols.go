package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓" // Fresh data
	SymbolFail    = "✗" // Failure
	SymbolStale   = "⚠" // Showing data from an earlier sample
	SymbolPending = "○" // Nothing sampled yet
	SymbolUp      = "↑" // Upload
	SymbolDown    = "↓" // Download
)
