package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// LoadingSpinner is the animation shown while waiting for the first sample.
var LoadingSpinner = spinner.Spinner{
	Frames: []string{"◐", "◓", "◑", "◒"},
	FPS:    time.Second / 10,
}

// SpinnerFrame picks the frame of s to show after elapsed. It is a pure
// function of time so renderers can animate without holding spinner state.
func SpinnerFrame(s spinner.Spinner, elapsed time.Duration) string {
	if len(s.Frames) == 0 {
		return ""
	}
	if elapsed < 0 || s.FPS <= 0 {
		return s.Frames[0]
	}
	return s.Frames[int(elapsed/s.FPS)%len(s.Frames)]
}
