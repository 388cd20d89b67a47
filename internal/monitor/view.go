package monitor

import (
	"fmt"

	"github.com/rileyhilliard/sysmon/internal/snapshot"
	"github.com/rileyhilliard/sysmon/internal/ui"
	"github.com/rileyhilliard/sysmon/internal/util"
)

// Column widths shared by the tab views.
const (
	labelWidth   = 8
	percentWidth = 7
	minBarWidth  = 10
	maxBarWidth  = 40
	pidWidth     = 7
	memWidth     = 10
)

func tabBody(in RenderInput, width int) []Line {
	switch in.State.Tab {
	case TabProcesses:
		return processesView(in.Snapshot, in.Thresholds, width)
	case TabDisks:
		return disksView(in.Snapshot, in.Thresholds, width)
	case TabNetwork:
		return networkView(in.History)
	case TabSensors:
		return sensorsView(in.Snapshot)
	default:
		return overviewView(in, width)
	}
}

func barWidth(width int) int {
	return clamp(width/4, minBarWidth, maxBarWidth)
}

// gauge draws "label ████░░░░  42.0%" coloured by th.
func gauge(label string, percent float64, th ui.Thresholds, width int) Line {
	role := LevelRole(th.Level(percent))
	return Line{
		span(" "+util.PadRight(label, labelWidth)+" ", RoleLabel),
		span(ui.Bar(percent, barWidth(width)), role),
		span(" "+ui.FormatPercent(percent), role),
	}
}

// unavailable marks a metric the last sample could not read.
func unavailable(label string) Line {
	return Line{
		span(" "+util.PadRight(label, labelWidth)+" ", RoleLabel),
		span(ui.SymbolStale+" unavailable", RoleStale),
	}
}

func overviewView(in RenderInput, width int) []Line {
	snap := in.Snapshot
	th := in.Thresholds
	sparkWidth := width - labelWidth - barWidth(width) - percentWidth - 6
	if sparkWidth > 60 {
		sparkWidth = 60
	}

	var cpuLine, memLine Line
	if len(snap.CPU) == 0 {
		cpuLine = unavailable("CPU")
	} else {
		cpuLine = gauge("CPU", snap.AverageCPU(), th.CPU, width)
		if in.History != nil && sparkWidth > 0 {
			cpuLine = append(cpuLine, span("  "+ui.PercentSparkline(in.History.CPU(sparkWidth), sparkWidth), RoleGraph))
		}
	}
	if snap.Memory.Total == 0 {
		memLine = unavailable("Memory")
	} else {
		memLine = gauge("Memory", snap.Memory.Percent(), th.Memory, width)
		if in.History != nil && sparkWidth > 0 {
			memLine = append(memLine, span("  "+ui.PercentSparkline(in.History.Memory(sparkWidth), sparkWidth), RoleGraph))
		}
	}

	lines := []Line{{}, cpuLine, memLine}
	if snap.Memory.Total > 0 {
		lines = append(lines,
			Line{span(fmt.Sprintf("   %s / %s", ui.FormatBytes(snap.Memory.Used), ui.FormatBytes(snap.Memory.Total)), RoleMuted)})
	}

	if snap.Swap.Total > 0 {
		lines = append(lines,
			gauge("Swap", snap.Swap.Percent(), th.Memory, width),
			Line{span(fmt.Sprintf("   %s / %s", ui.FormatBytes(snap.Swap.Used), ui.FormatBytes(snap.Swap.Total)), RoleMuted)},
		)
	}

	lines = append(lines,
		Line{},
		Line{
			span(" "+util.PadRight("Load", labelWidth)+" ", RoleLabel),
			span(fmt.Sprintf("%.2f %.2f %.2f", snap.Load.Load1, snap.Load.Load5, snap.Load.Load15), RoleText),
		},
		Line{
			span(" "+util.PadRight("Tasks", labelWidth)+" ", RoleLabel),
			span(fmt.Sprintf("%d %s", snap.ProcessCount, util.Pluralize(snap.ProcessCount, "process", "processes")), RoleText),
		},
		Line{
			span(" "+util.PadRight("Uptime", labelWidth)+" ", RoleLabel),
			span(ui.FormatUptime(snap.Uptime), RoleText),
		},
	)
	if len(snap.CPU) == 0 {
		return lines
	}

	lines = append(lines, Line{}, Line{span(fmt.Sprintf(" Cores (%d)", len(snap.CPU)), RoleTitle)})
	for i, pct := range snap.CPU {
		lines = append(lines, gauge(fmt.Sprintf("cpu%d", i), pct, th.CPU, width))
	}
	return lines
}

func processesView(snap *snapshot.Snapshot, th Thresholds, width int) []Line {
	nameWidth := width - pidWidth - percentWidth - memWidth - 6
	if nameWidth < 8 {
		nameWidth = 8
	}

	lines := []Line{
		{span(fmt.Sprintf(" %s %s %s %s",
			util.PadLeft("PID", pidWidth),
			util.PadRight("NAME", nameWidth),
			util.PadLeft("CPU%", percentWidth),
			util.PadLeft("MEM", memWidth)), RoleLabel)},
	}
	if len(snap.Processes) == 0 {
		return append(lines, Line{span(" No processes reported", RoleMuted)})
	}

	for _, p := range snap.Processes {
		lines = append(lines, Line{
			span(fmt.Sprintf(" %s %s ", util.PadLeft(fmt.Sprint(p.PID), pidWidth), util.PadRight(p.Name, nameWidth)), RoleText),
			span(util.PadLeft(fmt.Sprintf("%.1f", p.CPUPercent), percentWidth), LevelRole(th.CPU.Level(p.CPUPercent))),
			span(" "+util.PadLeft(ui.FormatBytes(p.MemoryRSS), memWidth), RoleMuted),
		})
	}
	lines = append(lines, Line{span(fmt.Sprintf(" showing %d of %d", len(snap.Processes), snap.ProcessCount), RoleMuted)})
	return lines
}

func disksView(snap *snapshot.Snapshot, th Thresholds, width int) []Line {
	if len(snap.Disks) == 0 {
		return []Line{{}, {span(" No disks reported", RoleMuted)}}
	}

	mountWidth := 0
	for _, d := range snap.Disks {
		if w := util.Width(d.Mount); w > mountWidth {
			mountWidth = w
		}
	}
	if mountWidth > 24 {
		mountWidth = 24
	}

	var lines []Line
	for _, d := range snap.Disks {
		pct := d.Percent()
		role := LevelRole(th.Disk.Level(pct))
		lines = append(lines,
			Line{
				span(" "+util.PadRight(d.Mount, mountWidth)+" ", RoleLabel),
				span(ui.Bar(pct, barWidth(width)), role),
				span(" "+ui.FormatPercent(pct)+" ", role),
				span(ui.DiskCategory(pct), role),
			},
			Line{span(fmt.Sprintf("   %s / %s  %s %s",
				ui.FormatBytes(d.Used), ui.FormatBytes(d.Total), d.FSType, d.Device), RoleMuted)},
		)
	}
	return lines
}

func networkView(h *History) []Line {
	if h == nil {
		return []Line{{span(" No network history", RoleMuted)}}
	}
	rates := h.NetworkRates()
	if len(rates) == 0 {
		return []Line{{}, {span(" Measuring throughput...", RoleMuted)}}
	}

	recv, sent := h.TotalNetworkRate()
	lines := []Line{
		{
			span(" "+util.PadRight("Total", 12)+" ", RoleLabel),
			span(ui.SymbolDown+" "+util.PadLeft(ui.FormatRate(recv), 12), RoleGraph),
			span("  "+ui.SymbolUp+" "+util.PadLeft(ui.FormatRate(sent), 12), RoleGraph),
		},
		{},
	}
	for _, r := range rates {
		lines = append(lines, Line{
			span(" "+util.PadRight(r.Interface, 12)+" ", RoleText),
			span(ui.SymbolDown+" "+util.PadLeft(ui.FormatRate(r.RecvPerSecond), 12), RoleText),
			span("  "+ui.SymbolUp+" "+util.PadLeft(ui.FormatRate(r.SentPerSecond), 12), RoleText),
			span(fmt.Sprintf("  (%s / %s)", ui.FormatBytes(r.TotalRecv), ui.FormatBytes(r.TotalSent)), RoleMuted),
		})
	}
	return lines
}

func sensorsView(snap *snapshot.Snapshot) []Line {
	if len(snap.Sensors) == 0 {
		return []Line{{}, {span(" No temperature sensors reported", RoleMuted)}}
	}

	nameWidth := 0
	for _, s := range snap.Sensors {
		if w := util.Width(s.Name); w > nameWidth {
			nameWidth = w
		}
	}
	if nameWidth > 32 {
		nameWidth = 32
	}

	lines := []Line{{}}
	for _, s := range snap.Sensors {
		role := LevelRole(ui.TempLevel(s.Celsius))
		line := Line{
			span(" "+util.PadRight(s.Name, nameWidth)+" ", RoleText),
			span(fmt.Sprintf("%6.1f°C ", s.Celsius), role),
			span(ui.TempCategory(s.Celsius), role),
		}
		if s.Critical > 0 {
			line = append(line, span(fmt.Sprintf("  (crit %.0f°C)", s.Critical), RoleMuted))
		}
		lines = append(lines, line)
	}
	return lines
}
