package monitor

import (
	"strings"
	"time"
)

// Terminal is the exclusive terminal the Coordinator draws on.
//
// Enter takes over the terminal (raw mode, alternate screen) and Exit gives
// it back; Exit must be safe to call after a failed or partial Enter.
// PollEvent waits at most timeout for one input event and reports false when
// none arrived. An error from PollEvent or WriteFrame means the terminal is
// unusable.
type Terminal interface {
	Enter() error
	Exit() error
	PollEvent(timeout time.Duration) (Event, bool, error)
	WriteFrame(frame Frame) error
	Size() (width, height int)
}

// EventKind identifies the type of a terminal event.
type EventKind int

const (
	EventKey EventKind = iota
	EventResize
)

// Event is one raw terminal event. Key uses canonical names such as "q",
// "up", "shift+tab" or "ctrl+c", whatever the backend.
type Event struct {
	Kind   EventKind
	Key    string
	Width  int
	Height int
}

// KeyEvent builds a key event.
func KeyEvent(name string) Event {
	return Event{Kind: EventKey, Key: name}
}

// ResizeEvent builds a resize event.
func ResizeEvent(width, height int) Event {
	return Event{Kind: EventResize, Width: width, Height: height}
}

// Span is a run of text drawn in one role.
type Span struct {
	Text string
	Role Role
}

// Line is one row of a frame.
type Line []Span

// Text returns the line without styling.
func (l Line) Text() string {
	var sb strings.Builder
	for _, s := range l {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Frame is a complete screen produced by Render. It only describes what to
// draw; backends decide how roles map to colours.
type Frame struct {
	Width  int
	Height int
	Lines  []Line
	// Tab is the tab this frame shows and MaxScroll the largest useful
	// scroll offset for it.
	Tab       Tab
	MaxScroll int
}

// Text returns the frame as plain text, one line per row.
func (f Frame) Text() string {
	rows := make([]string, len(f.Lines))
	for i, l := range f.Lines {
		rows[i] = l.Text()
	}
	return strings.Join(rows, "\n")
}
