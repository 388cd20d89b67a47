package term

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/rileyhilliard/sysmon/internal/monitor"
	"github.com/rileyhilliard/sysmon/internal/ui"
)

// Tcell is a monitor.Terminal backed by a tcell screen.
type Tcell struct {
	screen  tcell.Screen
	noColor bool

	mu      sync.Mutex
	started bool
	closed  bool
	events  chan tcell.Event
	quit    chan struct{}
}

// NewTcell creates a backend over screen. A nil screen opens the real
// terminal on Enter.
func NewTcell(screen tcell.Screen, noColor bool) *Tcell {
	return &Tcell{screen: screen, noColor: noColor}
}

// Enter initializes the screen and starts reading input.
func (t *Tcell) Enter() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("open screen: %w", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	t.started = true

	t.screen.HideCursor()
	t.screen.Clear()

	t.events = make(chan tcell.Event, 64)
	t.quit = make(chan struct{})
	go pumpEvents(t.screen, t.events, t.quit)
	return nil
}

// pumpEvents forwards screen events until the screen is finalized or quit
// is closed.
func pumpEvents(screen tcell.Screen, events chan<- tcell.Event, quit <-chan struct{}) {
	defer close(events)
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-quit:
			return
		}
	}
}

// Exit restores the terminal. It is safe to call more than once and after
// a failed Enter.
func (t *Tcell) Exit() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started || t.closed {
		return nil
	}
	t.closed = true
	close(t.quit)
	t.screen.Fini()
	return nil
}

// PollEvent waits up to timeout for a key press or resize. Other events,
// such as mouse or paste, are consumed and reported as no event.
func (t *Tcell) PollEvent(timeout time.Duration) (monitor.Event, bool, error) {
	t.mu.Lock()
	events := t.events
	t.mu.Unlock()
	if events == nil {
		return monitor.Event{}, false, ErrNotEntered
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev, ok := <-events:
		if !ok {
			return monitor.Event{}, false, ErrClosed
		}
		out, ok := translateTcell(ev)
		return out, ok, nil
	case <-timer.C:
		return monitor.Event{}, false, nil
	}
}

func translateTcell(ev tcell.Event) (monitor.Event, bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return monitor.KeyEvent(KeyName(ev)), true
	case *tcell.EventResize:
		w, h := ev.Size()
		return monitor.ResizeEvent(w, h), true
	default:
		return monitor.Event{}, false
	}
}

// WriteFrame draws frame and shows it.
func (t *Tcell) WriteFrame(frame monitor.Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return ErrNotEntered
	}
	if t.closed {
		return ErrClosed
	}

	t.screen.Clear()
	for y, line := range frame.Lines {
		x := 0
		for _, span := range line {
			style := t.style(span.Role)
			for _, r := range span.Text {
				w := runewidth.RuneWidth(r)
				if w == 0 {
					continue
				}
				if x+w > frame.Width {
					break
				}
				t.screen.SetContent(x, y, r, nil, style)
				x += w
			}
		}
	}
	t.screen.Show()
	return nil
}

func (t *Tcell) style(role monitor.Role) tcell.Style {
	rs := monitor.StyleFor(role)
	st := tcell.StyleDefault
	if !t.noColor {
		if idx := ui.ANSIIndex(rs.Foreground); idx >= 0 {
			st = st.Foreground(tcell.PaletteColor(idx))
		}
	}
	return st.Bold(rs.Bold).Reverse(rs.Reverse)
}

// Size returns the screen size, or zero before Enter.
func (t *Tcell) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started || t.closed {
		return 0, 0
	}
	return t.screen.Size()
}
