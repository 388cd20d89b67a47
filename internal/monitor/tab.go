package monitor

import (
	"fmt"
	"strings"
)

// Tab is one view of the dashboard. The set is closed and ordered; tab
// switching wraps around at either end.
type Tab int

const (
	TabOverview Tab = iota
	TabProcesses
	TabDisks
	TabNetwork
	TabSensors

	tabCount
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabOverview, TabProcesses, TabDisks, TabNetwork, TabSensors}

var tabNames = [...]string{
	TabOverview:  "overview",
	TabProcesses: "processes",
	TabDisks:     "disks",
	TabNetwork:   "network",
	TabSensors:   "sensors",
}

var tabTitles = [...]string{
	TabOverview:  "Overview",
	TabProcesses: "Processes",
	TabDisks:     "Disks",
	TabNetwork:   "Network",
	TabSensors:   "Sensors",
}

// Valid reports whether t is a member of the tab set.
func (t Tab) Valid() bool {
	return t >= 0 && t < tabCount
}

// String returns the lower-case name used in config and flags.
func (t Tab) String() string {
	if !t.Valid() {
		return fmt.Sprintf("tab(%d)", int(t))
	}
	return tabNames[t]
}

// Title returns the label shown in the tab bar.
func (t Tab) Title() string {
	if !t.Valid() {
		return t.String()
	}
	return tabTitles[t]
}

// Next returns the following tab, wrapping to the first.
func (t Tab) Next() Tab {
	return t.Step(1)
}

// Prev returns the preceding tab, wrapping to the last.
func (t Tab) Prev() Tab {
	return t.Step(-1)
}

// Step moves n tabs forward (or backward when n is negative), wrapping.
func (t Tab) Step(n int) Tab {
	m := (int(t) + n) % int(tabCount)
	if m < 0 {
		m += int(tabCount)
	}
	return Tab(m)
}

// ParseTab resolves a tab by name, case-insensitively.
func ParseTab(name string) (Tab, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range Tabs {
		if tabNames[t] == name {
			return t, nil
		}
	}
	return TabOverview, fmt.Errorf("unknown tab %q (expected one of %s)", name, strings.Join(TabNames(), ", "))
}

// TabNames returns the config names of all tabs in order.
func TabNames() []string {
	names := make([]string, len(Tabs))
	for i, t := range Tabs {
		names[i] = t.String()
	}
	return names
}
