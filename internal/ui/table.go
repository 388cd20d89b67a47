package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/sysmon/internal/util"
)

// TableStyle is the look of the tables printed by "sysmon snapshot".
type TableStyle struct {
	Header lipgloss.Style
	Cell   lipgloss.Style
	Border lipgloss.Style
}

// TableStyleFor builds the table style on r, so a renderer with colour
// turned off produces plain tables.
func TableStyleFor(r *lipgloss.Renderer) TableStyle {
	return TableStyle{
		Header: r.NewStyle().Bold(true).Foreground(ColorPrimary),
		Cell:   r.NewStyle().Foreground(ColorPrimary),
		Border: r.NewStyle().Foreground(ColorMuted),
	}
}

// DefaultTableStyle returns the table style for stdout.
func DefaultTableStyle() TableStyle {
	return TableStyleFor(lipgloss.DefaultRenderer())
}

// TableColumn defines a table column. Right aligns cells to the right edge,
// which suits numbers.
type TableColumn struct {
	Title string
	Width int
	Right bool
}

// NewTable creates a static Bubbles table: no focus, no highlighted row, and
// tall enough to show every row.
func NewTable(style TableStyle, columns []TableColumn, rows [][]string) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		title := c.Title
		if c.Right {
			title = util.PadLeft(title, c.Width)
		}
		cols[i] = table.Column{Title: title, Width: c.Width}
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		cells := make(table.Row, len(row))
		for j, cell := range row {
			if j < len(columns) && columns[j].Right {
				cell = util.PadLeft(cell, columns[j].Width)
			}
			cells[j] = cell
		}
		tableRows[i] = cells
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(tableRows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		Inherit(style.Header).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(style.Border.GetForeground()).
		BorderBottom(true)
	s.Cell = s.Cell.Inherit(style.Cell)
	s.Selected = s.Cell
	t.SetStyles(s)
	return t
}

// RenderTable renders rows as a table string using r for styling. It
// returns an empty string when there are no rows.
func RenderTable(r *lipgloss.Renderer, columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	return NewTable(TableStyleFor(r), columns, rows).View()
}
