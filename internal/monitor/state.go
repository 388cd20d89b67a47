package monitor

// UIState is the interaction state of the dashboard. It only changes through
// Apply, which the Coordinator calls from its loop.
type UIState struct {
	Tab     Tab
	Scroll  int
	Running bool
}

// NewUIState returns the starting state: the given tab, scrolled to the top,
// running. An invalid tab falls back to the first one.
func NewUIState(initial Tab) UIState {
	if !initial.Valid() {
		initial = Tabs[0]
	}
	return UIState{Tab: initial, Running: true}
}

// ScrollLimits holds the largest scroll offset per tab, as reported by the
// most recently rendered frame for that tab. Tabs never rendered allow no
// scrolling.
type ScrollLimits map[Tab]int

// For returns the maximum offset for tab.
func (l ScrollLimits) For(tab Tab) int {
	if l == nil {
		return 0
	}
	if n := l[tab]; n > 0 {
		return n
	}
	return 0
}

// Apply returns the state after cmd. The receiver is not modified.
//
// Switching tabs resets the scroll offset, since the new tab's content
// length is not known until it has been rendered.
func (s UIState) Apply(cmd Command, limits ScrollLimits) UIState {
	switch cmd.Kind {
	case CmdSwitchTab:
		dir := 1
		if cmd.Delta < 0 {
			dir = -1
		}
		s.Tab = s.Tab.Step(dir)
		s.Scroll = 0
	case CmdScroll:
		s.Scroll = scrollBy(s.Scroll, cmd.Delta, limits.For(s.Tab))
	case CmdQuit:
		s.Running = false
	}
	return s
}

// scrollBy moves offset by delta within [0, limit]. Deltas that would
// overflow the sum saturate at the nearest edge.
func scrollBy(offset, delta, limit int) int {
	switch {
	case delta > 0 && delta > limit-offset:
		return limit
	case delta < 0 && delta < -offset:
		return 0
	}
	return clamp(offset+delta, 0, limit)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
