package monitor

import "time"

// Listener reads terminal events and decodes them into Commands.
type Listener struct {
	term Terminal
	keys KeyMap
}

// NewListener creates a listener over term using keys.
func NewListener(term Terminal, keys KeyMap) *Listener {
	return &Listener{term: term, keys: keys}
}

// Poll waits up to timeout for one event. It returns the event, the command
// it maps to, and whether an event arrived at all. The wait blocks in the
// terminal backend rather than spinning.
func (l *Listener) Poll(timeout time.Duration) (Event, Command, bool, error) {
	if timeout < 0 {
		timeout = 0
	}
	ev, ok, err := l.term.PollEvent(timeout)
	if err != nil || !ok {
		return Event{}, Noop(), false, err
	}
	return ev, l.keys.Translate(ev), true, nil
}
