package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/sysmon/internal/sampler"
	"github.com/rileyhilliard/sysmon/internal/snapshot"
	"github.com/rileyhilliard/sysmon/internal/ui"
	"github.com/rileyhilliard/sysmon/internal/util"
)

// Fallback size when the terminal does not report one.
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// Rows taken by the header (tab bar, status, rule) and footer.
const (
	headerRows = 3
	footerRows = 1
)

// StaleLabel marks a frame drawn from an older snapshot.
const StaleLabel = "STALE"

// RenderInput is everything one frame depends on.
type RenderInput struct {
	// Snapshot is nil until the first sample has been published.
	Snapshot   *snapshot.Snapshot
	Health     sampler.Health
	State      UIState
	History    *History
	Keys       KeyMap
	Thresholds Thresholds
	Width      int
	Height     int
	// Now and Started drive relative times and the loading animation.
	Now     time.Time
	Started time.Time
}

// Render builds the frame for in. It reads its inputs without modifying
// them and does work proportional to the amount of content shown.
func Render(in RenderInput) Frame {
	w, h := in.Width, in.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}

	if in.Thresholds == (Thresholds{}) {
		in.Thresholds = DefaultThresholds()
	}
	if len(in.Keys.Quit.Keys()) == 0 {
		in.Keys = DefaultKeyMap()
	}

	bodyRows := h - headerRows - footerRows
	if bodyRows < 1 {
		bodyRows = 1
	}

	var body []Line
	if in.Snapshot == nil {
		body = loadingBody(in)
	} else {
		body = tabBody(in, w)
	}

	maxScroll := len(body) - bodyRows
	if maxScroll < 0 {
		maxScroll = 0
	}
	scroll := clamp(in.State.Scroll, 0, maxScroll)

	lines := make([]Line, 0, h)
	lines = append(lines, tabBar(in.State.Tab), statusLine(in), rule(w))

	end := scroll + bodyRows
	if end > len(body) {
		end = len(body)
	}
	lines = append(lines, body[scroll:end]...)
	for i := end - scroll; i < bodyRows; i++ {
		lines = append(lines, Line{})
	}
	lines = append(lines, footer(in.Keys, scroll, maxScroll))

	for i := range lines {
		lines[i] = fitLine(lines[i], w)
	}
	if len(lines) > h {
		lines = lines[:h]
	}

	return Frame{
		Width:     w,
		Height:    h,
		Lines:     lines,
		Tab:       in.State.Tab,
		MaxScroll: maxScroll,
	}
}

func span(text string, role Role) Span {
	return Span{Text: text, Role: role}
}

func tabBar(active Tab) Line {
	line := Line{span(" sysmon ", RoleTitle), span("│", RoleMuted)}
	for _, t := range Tabs {
		role := RoleTabInactive
		if t == active {
			role = RoleTabActive
		}
		line = append(line, span(" "+t.Title()+" ", role))
	}
	return line
}

func statusLine(in RenderInput) Line {
	h := in.Health
	if in.Snapshot == nil {
		if h.Failures > 0 {
			return Line{
				span(" "+ui.SymbolFail+" ", RoleCritical),
				span(fmt.Sprintf("no data yet, %d failed %s", h.Failures,
					util.Pluralize(h.Failures, "attempt", "attempts")), RoleMuted),
			}
		}
		return Line{span(" "+ui.SymbolPending+" waiting for first sample", RoleMuted)}
	}

	snap := in.Snapshot
	line := Line{span(" ", RoleText)}
	if snap.Host.Hostname != "" {
		line = append(line, span(snap.Host.Hostname, RoleLabel), span("  ", RoleText))
	}
	if p := hostDescription(snap.Host); p != "" {
		line = append(line, span(p, RoleMuted), span("  ", RoleText))
	}
	line = append(line, span("up "+ui.FormatUptime(snap.Uptime), RoleText), span("  ", RoleText))

	if h.Stale {
		line = append(line,
			span(ui.SymbolStale+" "+StaleLabel, RoleStale),
			span(fmt.Sprintf(" last update %s, %d failed", ui.FormatAge(in.Now, h.LastSuccess), h.Failures), RoleStale),
		)
		return line
	}
	return append(line, span(ui.SymbolSuccess+" "+ui.FormatAge(in.Now, snap.Taken), RoleNormal))
}

func hostDescription(h snapshot.HostInfo) string {
	var parts []string
	if h.Platform != "" {
		parts = append(parts, h.Platform)
	} else if h.OS != "" {
		parts = append(parts, h.OS)
	}
	if h.Kernel != "" {
		parts = append(parts, h.Kernel)
	}
	return strings.Join(parts, " ")
}

func rule(width int) Line {
	return Line{span(strings.Repeat("─", width), RoleMuted)}
}

func footer(keys KeyMap, scroll, maxScroll int) Line {
	var line Line
	first := true
	for _, b := range keys.ShortHelp() {
		if !b.Enabled() {
			continue
		}
		if first {
			line = append(line, span(" ", RoleMuted))
			first = false
		} else {
			line = append(line, span(" · ", RoleMuted))
		}
		help := b.Help()
		line = append(line, span(help.Key, RoleLabel), span(" "+help.Desc, RoleMuted))
	}
	if maxScroll > 0 {
		line = append(line, span(fmt.Sprintf("  [%d/%d]", scroll, maxScroll), RoleMuted))
	}
	return line
}

func loadingBody(in RenderInput) []Line {
	glyph := ui.SpinnerFrame(ui.LoadingSpinner, in.Now.Sub(in.Started))
	lines := []Line{
		{},
		{span("  "+glyph+" ", RoleGraph), span("Collecting system metrics...", RoleText)},
	}
	if err := in.Health.LastError; err != nil {
		lines = append(lines, Line{span("    last error: "+firstLine(err.Error()), RoleMuted)})
	}
	return lines
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// fitLine trims a line to width cells.
func fitLine(line Line, width int) Line {
	out := make(Line, 0, len(line))
	used := 0
	for _, s := range line {
		if used >= width {
			break
		}
		sw := util.Width(s.Text)
		if used+sw > width {
			s.Text = util.Truncate(s.Text, width-used)
			sw = util.Width(s.Text)
		}
		out = append(out, s)
		used += sw
	}
	return out
}
