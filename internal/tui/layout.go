package tui

import (
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/horario/internal/timetable"
	"github.com/javiermolinar/horario/internal/tui/view"
)

const (
	cellLines   = 2 // subject and teacher
	minColWidth = 6
	maxColWidth = 22
	maxDayWidth = 12

	// Table lines above the first day row: top border, column headers, header rule.
	gridHeaderLines = 3
)

// gridLayout is the on-screen geometry of the timetable table.
type gridLayout struct {
	top   int // row of the table's top border
	left  int // column of the table's left border
	dayW  int
	colW  int
	days  int
	slots int
}

// newGridLayout sizes columns so the table fits width where possible.
func newGridLayout(g timetable.Grid, width int) gridLayout {
	days, slots := g.Size()
	l := gridLayout{top: view.HeaderHeight, days: days, slots: slots}

	l.dayW = ansi.StringWidth("Day")
	for _, d := range g.Days {
		if w := ansi.StringWidth(d); w > l.dayW {
			l.dayW = w
		}
	}
	if l.dayW > maxDayWidth {
		l.dayW = maxDayWidth
	}

	if slots == 0 {
		return l
	}
	// Left and right borders plus one separator before each timeslot column.
	avail := width - 2 - l.dayW - slots
	l.colW = avail / slots
	if l.colW < minColWidth {
		l.colW = minColWidth
	}
	if l.colW > maxColWidth {
		l.colW = maxColWidth
	}
	return l
}

// height is the number of terminal lines the table takes.
func (l gridLayout) height() int {
	return gridHeaderLines + l.days*cellLines + 1
}

// hit maps a screen coordinate to a grid position. Borders and headers miss.
func (l gridLayout) hit(x, y int) (Position, bool) {
	row := y - l.top - gridHeaderLines
	if row < 0 || l.colW <= 0 {
		return Position{}, false
	}
	col := x - l.left - 1 - l.dayW - 1
	if col < 0 {
		return Position{}, false
	}
	stride := l.colW + 1
	if col%stride == l.colW {
		return Position{}, false
	}

	p := Position{Day: row / cellLines, Slot: col / stride}
	if p.Day >= l.days || p.Slot >= l.slots {
		return Position{}, false
	}
	return p, true
}
