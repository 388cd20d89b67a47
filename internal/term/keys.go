package term

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// tcellKeyNames maps special tcell keys to the names Bubble Tea uses for
// them.
var tcellKeyNames = map[tcell.Key]string{
	tcell.KeyUp:         "up",
	tcell.KeyDown:       "down",
	tcell.KeyLeft:       "left",
	tcell.KeyRight:      "right",
	tcell.KeyPgUp:       "pgup",
	tcell.KeyPgDn:       "pgdown",
	tcell.KeyHome:       "home",
	tcell.KeyEnd:        "end",
	tcell.KeyInsert:     "insert",
	tcell.KeyDelete:     "delete",
	tcell.KeyTab:        "tab",
	tcell.KeyBacktab:    "shift+tab",
	tcell.KeyEnter:      "enter",
	tcell.KeyEscape:     "esc",
	tcell.KeyBackspace:  "backspace",
	tcell.KeyBackspace2: "backspace",
	tcell.KeyCtrlC:      "ctrl+c",
	tcell.KeyF1:         "f1",
	tcell.KeyF2:         "f2",
	tcell.KeyF3:         "f3",
	tcell.KeyF4:         "f4",
	tcell.KeyF5:         "f5",
	tcell.KeyF6:         "f6",
	tcell.KeyF7:         "f7",
	tcell.KeyF8:         "f8",
	tcell.KeyF9:         "f9",
	tcell.KeyF10:        "f10",
	tcell.KeyF11:        "f11",
	tcell.KeyF12:        "f12",
}

// KeyName returns the canonical name of a tcell key event.
func KeyName(ev *tcell.EventKey) string {
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		name := string(r)
		if r == ' ' {
			name = "space"
		}
		if ev.Modifiers()&tcell.ModAlt != 0 {
			name = "alt+" + name
		}
		return name
	}

	if name, ok := tcellKeyNames[ev.Key()]; ok {
		if ev.Modifiers()&tcell.ModShift != 0 && !strings.HasPrefix(name, "shift+") && isArrow(ev.Key()) {
			return "shift+" + name
		}
		return name
	}

	if k := ev.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return "ctrl+" + string(rune('a'+int(k-tcell.KeyCtrlA)))
	}
	return strings.ToLower(ev.Name())
}

func isArrow(k tcell.Key) bool {
	switch k {
	case tcell.KeyUp, tcell.KeyDown, tcell.KeyLeft, tcell.KeyRight:
		return true
	}
	return false
}
