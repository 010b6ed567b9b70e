package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/horario/internal/editor"
	"github.com/javiermolinar/horario/internal/summary"
	"github.com/javiermolinar/horario/internal/timetable"
	"github.com/javiermolinar/horario/internal/tui/commands"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeCarry:
		return m.handleCarryKeys(msg)
	case ModeModal:
		return m.handleModalKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.moveCursor(msg.String()) {
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "g":
		if m.editor.Loading() {
			return m, nil
		}
		m.editor = m.editor.BeginGenerate()
		m.carrying = nil
		m.pendingLesson = ""
		m.statusMsg = ""
		return m, tea.Batch(commands.Generate(m.client), m.spinner.Tick)

	case "tab":
		m.editor = m.editor.ToggleMode()
		m.clampCursor()
		return m, nil

	case "[":
		m.editor = m.editor.Prev()
		m.clampCursor()
		return m, nil

	case "]":
		m.editor = m.editor.Next()
		m.clampCursor()
		return m, nil

	case " ", "m":
		return m.pickUp(m.cursor, false)

	case "e":
		s, err := m.editor.ExportTarget()
		if err != nil {
			return m.openAlert(err.Error()), nil
		}
		m.statusMsg = "Exporting " + s.StudentGroupName + "..."
		return m, commands.Export(m.client, s, m.config.Export.Dir)

	case "E":
		s, err := m.editor.ExportTarget()
		if err != nil {
			return m.openAlert(err.Error()), nil
		}
		return m, commands.ExportLocal(s, m.config.Export.Dir)

	case "y":
		s, ok := m.editor.Displayed()
		if !ok {
			return m.setStatus("Nothing to copy")
		}
		return m, commands.CopySchedule(s)

	case "S":
		if m.editor.Store().Empty() {
			return m.setStatus("Generate a timetable first")
		}
		m.statusMsg = "Summarizing..."
		return m, commands.Summary(m.editor.Store().Collection(), m.summaryOptions())

	case "/":
		if m.editor.Store().Empty() {
			return m, nil
		}
		m.mode = ModePrompt
		m.prompt.SetValue("")
		return m, m.prompt.Focus()

	case "?":
		return m.openModal(ModalHelp), nil
	}

	return m, nil
}

// handleCarryKeys handles keys while a lesson is picked up.
func (m Model) handleCarryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.moveCursor(msg.String()) {
		return m, nil
	}

	switch msg.String() {
	case " ", "enter":
		return m.drop(m.cursor)
	case "esc":
		m.cancelCarry()
		return m, nil
	}
	return m, nil
}

// handlePromptKeys handles keys in the jump-to prompt.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.prompt.Blur()
		return m, nil
	case "enter":
		query := m.prompt.Value()
		m.mode = ModeNormal
		m.prompt.Blur()
		i, ok := matchName(m.editor.Selector().Names(m.editor.Store()), query)
		if !ok {
			return m.setStatus("No match for " + query)
		}
		m.editor = m.editor.Select(i)
		m.clampCursor()
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// handleModalKeys handles keys while a modal is open.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc", " ", "q":
		return m.closeModal(), nil
	}
	return m, nil
}

// moveCursor handles navigation keys and reports whether the key was one.
// Rows are days, columns are timeslots.
func (m *Model) moveCursor(key string) bool {
	switch key {
	case "up", "k":
		m.cursor.Day--
	case "down", "j":
		m.cursor.Day++
	case "left", "h":
		m.cursor.Slot--
	case "right", "l":
		m.cursor.Slot++
	default:
		return false
	}
	m.clampCursor()
	return true
}

func (m *Model) clampCursor() {
	s, ok := m.editor.Displayed()
	if !ok {
		m.cursor = Position{}
		return
	}
	days, slots := timetable.NewGrid(s).Size()
	m.cursor.Day = clampIndex(m.cursor.Day, days)
	m.cursor.Slot = clampIndex(m.cursor.Slot, slots)
}

func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// pickUp starts carrying the lesson at p.
func (m Model) pickUp(p Position, dragging bool) (tea.Model, tea.Cmd) {
	if m.editor.Selector().Mode != editor.ModeClass {
		return m.setStatus(capitalize(editor.ErrMoveInTeacherView.Error()))
	}
	s, ok := m.editor.Displayed()
	if !ok {
		return m, nil
	}
	lesson, ok := timetable.NewGrid(s).At(p.Day, p.Slot)
	if !ok {
		if dragging {
			return m, nil
		}
		return m.setStatus("No lesson here")
	}

	m.cursor = p
	m.carrying = &carry{LessonID: lesson.ID, From: p, dragging: dragging}
	m.mode = ModeCarry
	return m, nil
}

// drop completes the carried move at p and starts remote validation.
func (m Model) drop(p Position) (tea.Model, tea.Cmd) {
	c := m.carrying
	m.cancelCarry()
	if c == nil {
		return m, nil
	}

	s, ok := m.editor.Displayed()
	if !ok {
		return m, nil
	}
	target, ok := timetable.NewGrid(s).CellAt(p.Day, p.Slot)
	if !ok {
		return m, nil
	}

	next, pending, err := m.editor.Drop(editor.DragCompleted{LessonID: c.LessonID, Target: target})
	if err != nil {
		m.logger.Debug("move refused", zap.String("lesson", string(c.LessonID)), zap.Error(err))
		if errors.Is(err, editor.ErrMoveInTeacherView) || errors.Is(err, editor.ErrUnknownCell) {
			return m.setStatus(capitalize(err.Error()))
		}
		return m.openAlert(capitalize(err.Error())), nil
	}
	m.editor = next
	m.cursor = p
	if pending == nil {
		return m, nil
	}

	m.pendingLesson = pending.LessonID
	m.logger.Debug("move applied",
		zap.Uint64("seq", pending.Seq),
		zap.String("lesson", string(pending.LessonID)),
		zap.String("from", pending.From.String()),
		zap.String("to", pending.To.String()),
	)
	return m, commands.ValidateMove(m.client, *pending)
}

func (m *Model) cancelCarry() {
	m.carrying = nil
	if m.mode == ModeCarry {
		m.mode = ModeNormal
	}
}

func (m Model) summaryOptions() summary.BuildOptions {
	return summary.BuildOptions{
		IncludeInsight: m.llm != nil || m.config.HasLLM(),
		Provider:       m.config.LLM.Provider,
		Model:          m.config.LLM.Model,
		BaseURL:        m.config.LLM.BaseURL,
		Client:         m.llm,
	}
}

// matchName finds the first name equal to query, then the first with query as a
// prefix, ignoring case.
func matchName(names []string, query string) (int, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0, false
	}
	for i, n := range names {
		if strings.ToLower(n) == q {
			return i, true
		}
	}
	for i, n := range names {
		if strings.HasPrefix(strings.ToLower(n), q) {
			return i, true
		}
	}
	return 0, false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
