package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/horario/internal/editor"
	"github.com/javiermolinar/horario/internal/export"
	"github.com/javiermolinar/horario/internal/timetable"
	"github.com/javiermolinar/horario/internal/tui/view"
)

const (
	emptyCellText = "--"

	msgEmpty         = "Generate a timetable to begin (g)."
	msgNoTeachers    = "No teachers in this timetable."
	msgIncomplete    = "Timetable data is incomplete."
	msgGenerating    = "Generating timetable..."
	msgTerminalSmall = "Terminal too small"
)

var viewTabs = []string{" Class View ", " Teacher View "}

// View renders the TUI.
func (m Model) View() string {
	return view.Render(m.viewState())
}

func (m Model) viewState() view.ViewState {
	showModal := m.mode == ModeModal && m.modalType != ModalNone
	modal := ""
	if showModal {
		modal = m.renderModal()
	}
	return view.ViewState{
		Width:            m.width,
		Height:           m.height,
		BaseContent:      m.renderAppContent(),
		ModalContent:     modal,
		ShowModal:        showModal,
		ModalBg:          m.styles.ModalBgColor,
		EmptyPlaceholder: "Loading...",
	}
}

func (m Model) renderAppContent() string {
	bodyH := m.height - view.HeaderHeight - view.FooterHeight
	if m.width <= 0 || bodyH <= 0 {
		return msgTerminalSmall
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		view.RenderHeader(m.headerViewState()),
		m.renderBody(bodyH),
		view.RenderFooter(m.footerViewState()),
	)
	return view.PadLinesWithBackground(content, m.width, m.height, m.styles.colorBg)
}

func (m Model) renderBody(h int) string {
	message := func(style lipgloss.Style, text string) string {
		return view.PlaceBox(m.width, h, lipgloss.Top, style.Render(text), m.styles.colorBg)
	}

	if m.editor.Loading() {
		return message(m.styles.MessageStyle, m.spinner.View()+" "+msgGenerating)
	}
	if err := m.editor.Err(); err != "" {
		return message(m.styles.ErrorStyle, err)
	}

	s, ok := m.editor.Displayed()
	if !ok {
		if m.editor.Store().Empty() {
			return message(m.styles.MessageStyle, msgEmpty)
		}
		return message(m.styles.MessageStyle, msgNoTeachers)
	}
	if err := s.Validate(); err != nil {
		return message(m.styles.ErrorStyle, msgIncomplete)
	}

	return view.RenderTable(m.tableViewState(s, h))
}

func (m Model) tableViewState(s timetable.Schedule, h int) view.TableViewState {
	grid := timetable.NewGrid(s)
	layout := newGridLayout(grid, m.width)

	headers := make([]string, 0, len(s.Timeslots)+1)
	headerStyles := make([]lipgloss.Style, 0, len(s.Timeslots)+1)
	headers = append(headers, view.FitCell("Day", layout.dayW, 1))
	headerStyles = append(headerStyles, m.styles.ColumnHeaderStyle)
	for _, ts := range s.Timeslots {
		headers = append(headers, view.FitCell(ts, layout.colW, 1))
		headerStyles = append(headerStyles, m.styles.ColumnHeaderStyle)
	}

	rows := make([][]string, len(s.Days))
	cellStyles := make([][]lipgloss.Style, len(s.Days))
	for d, day := range s.Days {
		dayStyle := m.styles.DayStyle
		if d == m.cursor.Day {
			dayStyle = m.styles.DayCursorStyle
		}
		rows[d] = []string{view.FitCell(day, layout.dayW, cellLines)}
		cellStyles[d] = []lipgloss.Style{dayStyle}
		for t := range s.Timeslots {
			text, style := m.cell(grid, Position{Day: d, Slot: t})
			rows[d] = append(rows[d], view.FitCell(text, layout.colW, cellLines))
			cellStyles[d] = append(cellStyles[d], style)
		}
	}

	return view.TableViewState{
		InnerW:       m.width,
		GridH:        h,
		Headers:      headers,
		HeaderStyles: headerStyles,
		Content:      view.TableContent{Rows: rows, CellStyles: cellStyles},
		BorderStyle:  m.styles.BorderStyle,
		VAlign:       lipgloss.Top,
		Bg:           m.styles.colorBg,
		Render:       true,
	}
}

// cell returns the text and style of one grid cell.
func (m Model) cell(grid timetable.Grid, p Position) (string, lipgloss.Style) {
	lesson, hasLesson := grid.At(p.Day, p.Slot)
	text := emptyCellText
	if hasLesson {
		text = export.CellText(lesson)
	}

	conflict := m.editor.Conflict()
	switch {
	case m.carrying != nil && p == m.cursor:
		return text, m.styles.CarryTargetStyle
	case m.carrying != nil && p == m.carrying.From:
		return text, m.styles.CarrySourceStyle
	case hasLesson && conflict.Active() && lesson.ID == conflict.LessonID:
		return text, m.styles.ConflictStyle
	case p == m.cursor:
		return text, m.styles.CursorStyle
	case hasLesson && m.editor.InFlight() && lesson.ID == m.pendingLesson:
		return text, m.styles.PendingStyle
	case hasLesson && p.Day%2 == 1:
		return text, m.styles.LessonAltStyle
	case hasLesson:
		return text, m.styles.LessonStyle
	default:
		return text, m.styles.EmptyCellStyle
	}
}

func (m Model) headerViewState() view.HeaderViewState {
	sel := m.editor.Selector()
	active := 0
	if sel.Mode == editor.ModeTeacher {
		active = 1
	}

	state := view.HeaderViewState{
		InnerW:         m.width,
		Tabs:           viewTabs,
		Active:         active,
		TabStyle:       m.styles.TabStyle,
		TabActiveStyle: m.styles.TabActiveStyle,
		TitleStyle:     m.styles.TitleStyle,
		MutedStyle:     m.styles.MutedStyle,
		Bg:             m.styles.colorBg,
	}

	names := sel.Names(m.editor.Store())
	if len(names) > 0 {
		i := sel.Effective(m.editor.Store())
		if i >= 0 && i < len(names) {
			state.Title = names[i]
			state.Position = fmt.Sprintf("%d/%d", i+1, len(names))
		}
	}

	switch {
	case m.carrying != nil:
		state.Hint = "moving " + string(m.carrying.LessonID)
	case m.editor.InFlight():
		state.Hint = "validating move..."
	}
	return state
}

func (m Model) footerViewState() view.FooterViewState {
	return view.FooterViewState{
		InnerW:      m.width,
		PromptLine:  m.prompt.View(),
		ShowPrompt:  m.mode == ModePrompt,
		StatusText:  m.statusMsgOrDefault(),
		HelpText:    m.renderHelp(),
		PromptStyle: m.styles.PromptStyle,
		StatusStyle: m.styles.StatusStyle,
		HelpStyle:   m.styles.HelpStyle,
		Bg:          m.styles.colorBg,
	}
}

// statusMsgOrDefault returns the status message or a space to preserve layout.
func (m Model) statusMsgOrDefault() string {
	if m.statusMsg == "" {
		return " "
	}
	return m.statusMsg
}

func (m Model) renderHelp() string {
	switch m.mode {
	case ModeCarry:
		return "h/j/k/l: choose cell | Space/Enter: drop | Esc: cancel"
	case ModePrompt:
		return "Enter: jump | Esc: cancel"
	case ModeModal:
		return "Enter/Esc: close"
	}
	if m.editor.Store().Empty() {
		return "g: generate | ?: help | q: quit"
	}
	return "g: generate | Tab: view | [/]: prev/next | Space: move | e/E: export | y: copy | S: load | /: jump | ?: help | q: quit"
}

func (m Model) renderModal() string {
	switch m.modalType {
	case ModalAlert:
		return view.RenderModalFrame("Notice", m.alertText,
			view.RenderModalButtons(m.styles.Modal, "OK"), m.styles.Modal)
	case ModalSummary:
		return view.RenderModalFrame("Teacher load", m.summaryText(),
			view.RenderModalButtons(m.styles.Modal, "Close"), m.styles.Modal)
	case ModalHelp:
		return view.RenderModalFrame("Keys", helpText, "", m.styles.Modal)
	default:
		return ""
	}
}

const helpText = `g        generate a new timetable
Tab      switch class / teacher view
[ ]      previous / next schedule
arrows   move the cursor (h/j/k/l)
Space    pick up the lesson, Space again to drop
mouse    drag a lesson onto another cell
e        export through the solver service
E        export a local workbook
y        copy the schedule as TSV
S        teacher load summary
/        jump to a group or teacher
q        quit`

func (m Model) summaryText() string {
	s := m.summary
	if s == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d groups, %d lessons, %d teachers", s.Groups, s.Lessons, len(s.Teachers))
	if len(s.Teachers) > 0 {
		b.WriteString("\n")
	}
	for _, t := range s.Teachers {
		fmt.Fprintf(&b, "\n%-18s %3d  busiest %s (%d)", t.Name, t.Lessons, t.BusiestDay, t.BusiestCount)
	}
	if s.Insight != "" {
		b.WriteString("\n\n")
		b.WriteString(s.Insight)
	}
	return b.String()
}
