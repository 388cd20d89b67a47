package monitor

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/sysmon/internal/ui"
)

// Role is the semantic style of a span. Backends turn roles into colours.
type Role int

const (
	RoleText Role = iota
	RoleMuted
	RoleTitle
	RoleLabel
	RoleTabActive
	RoleTabInactive
	RoleNormal
	RoleWarning
	RoleCritical
	RoleStale
	RoleGraph
)

// RoleStyle is the look of a role.
type RoleStyle struct {
	Foreground lipgloss.Color
	Bold       bool
	Reverse    bool
}

var roleStyles = map[Role]RoleStyle{
	RoleText:        {Foreground: ui.ColorPrimary},
	RoleMuted:       {Foreground: ui.ColorMuted},
	RoleTitle:       {Foreground: ui.ColorAccent, Bold: true},
	RoleLabel:       {Foreground: ui.ColorSecondary, Bold: true},
	RoleTabActive:   {Foreground: ui.ColorInfo, Bold: true, Reverse: true},
	RoleTabInactive: {Foreground: ui.ColorMuted},
	RoleNormal:      {Foreground: ui.ColorSuccess},
	RoleWarning:     {Foreground: ui.ColorWarning},
	RoleCritical:    {Foreground: ui.ColorError, Bold: true},
	RoleStale:       {Foreground: ui.ColorWarning, Bold: true},
	RoleGraph:       {Foreground: ui.ColorInfo},
}

// StyleFor returns the style for r, falling back to plain text.
func StyleFor(r Role) RoleStyle {
	if s, ok := roleStyles[r]; ok {
		return s
	}
	return roleStyles[RoleText]
}

// LevelRole maps a severity level to the role used to draw it.
func LevelRole(l ui.Level) Role {
	switch l {
	case ui.LevelCritical:
		return RoleCritical
	case ui.LevelWarning:
		return RoleWarning
	default:
		return RoleNormal
	}
}

// Thresholds holds the severity boundaries for each metric family.
type Thresholds struct {
	CPU    ui.Thresholds
	Memory ui.Thresholds
	Disk   ui.Thresholds
}

// DefaultThresholds returns 70/90 for CPU and memory and 85/95 for disks.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CPU:    ui.DefaultThresholds(),
		Memory: ui.DefaultThresholds(),
		Disk:   ui.Thresholds{Warning: 85, Critical: 95},
	}
}
