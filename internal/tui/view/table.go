package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
)

// TableContent contains table rows and cell styles.
type TableContent struct {
	Rows       [][]string
	CellStyles [][]lipgloss.Style
}

// TableViewState holds data needed to render the timetable grid.
// Cells are expected to be pre-sized with FitCell so column positions are predictable.
type TableViewState struct {
	InnerW       int
	GridH        int
	Headers      []string
	HeaderStyles []lipgloss.Style
	Content      TableContent
	BorderStyle  lipgloss.Style
	VAlign       lipgloss.Position
	Bg           lipgloss.Color
	Render       bool
}

// RenderTable renders the day by timeslot grid using a lipgloss table.
func RenderTable(state TableViewState) string {
	if !state.Render || state.GridH <= 0 {
		return ""
	}

	t := table.New().
		Headers(state.Headers...).
		Border(lipgloss.RoundedBorder()).
		BorderTop(true).
		BorderBottom(true).
		BorderLeft(true).
		BorderRight(true).
		BorderHeader(true).
		BorderColumn(true).
		BorderRow(false).
		BorderStyle(state.BorderStyle).
		Rows(state.Content.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				if col >= 0 && col < len(state.HeaderStyles) {
					return state.HeaderStyles[col]
				}
				return lipgloss.NewStyle()
			}
			if row < 0 || row >= len(state.Content.CellStyles) || col < 0 || col >= len(state.Content.CellStyles[row]) {
				return lipgloss.NewStyle()
			}
			return state.Content.CellStyles[row][col]
		})

	return PlaceBox(state.InnerW, state.GridH, state.VAlign, t.Render(), state.Bg)
}

// FitCell truncates and pads text to exactly width columns and lines rows.
func FitCell(text string, width, lines int) string {
	parts := strings.Split(text, "\n")
	out := make([]string, lines)
	for i := range out {
		line := ""
		if i < len(parts) {
			line = parts[i]
		}
		if width <= 0 {
			out[i] = ""
			continue
		}
		line = ansi.Truncate(line, width, "…")
		if w := ansi.StringWidth(line); w < width {
			line += strings.Repeat(" ", width-w)
		}
		out[i] = line
	}
	return strings.Join(out, "\n")
}
