package monitor

import "github.com/charmbracelet/bubbles/key"

// Key names as delivered by the terminal backends.
const (
	KeyQuit     = "q"
	KeyQuitAlt  = "ctrl+c"
	KeyEscape   = "esc"
	KeyTab      = "tab"
	KeyShiftTab = "shift+tab"
	KeyLeft     = "left"
	KeyRight    = "right"
	KeyUp       = "up"
	KeyDown     = "down"
	KeyPageUp   = "pgup"
	KeyPageDown = "pgdown"
	KeyHome     = "home"
	KeyEnd      = "end"
	KeyVimLeft  = "h"
	KeyVimRight = "l"
	KeyVimUp    = "k"
	KeyVimDown  = "j"
)

// KeyMap is the fixed key-to-command table.
type KeyMap struct {
	NextTab  key.Binding
	PrevTab  key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextTab: key.NewBinding(
			key.WithKeys(KeyTab, KeyRight, KeyVimRight),
			key.WithHelp("tab/→", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys(KeyShiftTab, KeyLeft, KeyVimLeft),
			key.WithHelp("shift+tab/←", "prev tab"),
		),
		Up: key.NewBinding(
			key.WithKeys(KeyUp, KeyVimUp),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys(KeyDown, KeyVimDown),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys(KeyPageUp),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys(KeyPageDown),
			key.WithHelp("pgdn", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys(KeyHome),
			key.WithHelp("home", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys(KeyEnd),
			key.WithHelp("end", "bottom"),
		),
		Quit: key.NewBinding(
			key.WithKeys(KeyQuit, KeyEscape, KeyQuitAlt),
			key.WithHelp("q", "quit"),
		),
	}
}

// keyName lets a plain key name satisfy key.Matches.
type keyName string

func (k keyName) String() string { return string(k) }

// Command translates one key name. Unknown keys map to Noop. Each call is
// independent; repeated keys produce repeated commands.
func (k KeyMap) Command(name string) Command {
	n := keyName(name)
	switch {
	case key.Matches(n, k.Quit):
		return Quit()
	case key.Matches(n, k.NextTab):
		return SwitchTab(Forward)
	case key.Matches(n, k.PrevTab):
		return SwitchTab(Backward)
	case key.Matches(n, k.Up):
		return Scroll(-ScrollLine)
	case key.Matches(n, k.Down):
		return Scroll(ScrollLine)
	case key.Matches(n, k.PageUp):
		return Scroll(-ScrollPage)
	case key.Matches(n, k.PageDown):
		return Scroll(ScrollPage)
	case key.Matches(n, k.Top):
		return Scroll(-ScrollEdge)
	case key.Matches(n, k.Bottom):
		return Scroll(ScrollEdge)
	default:
		return Noop()
	}
}

// Translate maps a raw event to a Command. Only key events carry intent.
func (k KeyMap) Translate(ev Event) Command {
	if ev.Kind != EventKey {
		return Noop()
	}
	return k.Command(ev.Key)
}

// ShortHelp returns the bindings listed in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.PrevTab, k.Up, k.Down, k.Quit}
}
