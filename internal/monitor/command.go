package monitor

import "fmt"

// CommandKind identifies a Command variant.
type CommandKind int

const (
	CmdNoop CommandKind = iota
	CmdSwitchTab
	CmdScroll
	CmdQuit
)

// Direction is the way a tab switch moves through the tab set.
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// Command is a user intent decoded from one input event. Commands carry no
// state of their own and are applied to UIState as soon as they are read.
type Command struct {
	Kind CommandKind
	// Delta is the tab direction for CmdSwitchTab and the line offset for
	// CmdScroll. It is unused otherwise.
	Delta int
}

// Scroll distances.
const (
	ScrollLine = 1
	ScrollPage = 10
	// ScrollEdge is large enough that clamping pins the offset to the top
	// or bottom of any content.
	ScrollEdge = 1 << 30
)

// Noop returns the command that changes nothing.
func Noop() Command { return Command{Kind: CmdNoop} }

// Quit returns the command that stops the monitor.
func Quit() Command { return Command{Kind: CmdQuit} }

// SwitchTab returns a tab switch in direction dir.
func SwitchTab(dir Direction) Command {
	return Command{Kind: CmdSwitchTab, Delta: int(dir)}
}

// Scroll returns a scroll by delta lines; negative scrolls up.
func Scroll(delta int) Command {
	return Command{Kind: CmdScroll, Delta: delta}
}

func (c Command) String() string {
	switch c.Kind {
	case CmdSwitchTab:
		if c.Delta < 0 {
			return "SwitchTab(prev)"
		}
		return "SwitchTab(next)"
	case CmdScroll:
		return fmt.Sprintf("Scroll(%+d)", c.Delta)
	case CmdQuit:
		return "Quit"
	default:
		return "Noop"
	}
}
