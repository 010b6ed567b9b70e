package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/horario/internal/timetable"
)

// handleMouseMsg implements drag and drop: a left press on a lesson picks it up,
// motion moves the drop target, and release drops it on the cell under the pointer.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModeModal || m.mode == ModePrompt {
		return m, nil
	}

	p, onGrid := m.hitTest(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !onGrid {
			return m, nil
		}
		if m.mode == ModeCarry {
			return m.drop(p)
		}
		m.cursor = p
		return m.pickUp(p, true)

	case tea.MouseActionMotion:
		if m.carrying != nil && m.carrying.dragging && onGrid {
			m.cursor = p
		}
		return m, nil

	case tea.MouseActionRelease:
		if m.carrying == nil || !m.carrying.dragging {
			return m, nil
		}
		if !onGrid {
			m.cancelCarry()
			return m, nil
		}
		return m.drop(p)
	}

	return m, nil
}

// hitTest maps a screen coordinate to a cell of the displayed grid.
func (m Model) hitTest(x, y int) (Position, bool) {
	s, ok := m.editor.Displayed()
	if !ok || s.Validate() != nil {
		return Position{}, false
	}
	return newGridLayout(timetable.NewGrid(s), m.width).hit(x, y)
}
