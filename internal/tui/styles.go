package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/horario/internal/tui/theme"
	"github.com/javiermolinar/horario/internal/tui/view"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	colorBg      lipgloss.Color
	colorFg      lipgloss.Color
	colorFgMuted lipgloss.Color
	colorAccent  lipgloss.Color

	// Header
	TabStyle       lipgloss.Style
	TabActiveStyle lipgloss.Style
	TitleStyle     lipgloss.Style
	MutedStyle     lipgloss.Style

	// Grid
	BorderStyle       lipgloss.Style
	ColumnHeaderStyle lipgloss.Style
	DayStyle          lipgloss.Style
	DayCursorStyle    lipgloss.Style
	EmptyCellStyle    lipgloss.Style
	LessonStyle       lipgloss.Style
	LessonAltStyle    lipgloss.Style // Every other day row
	CursorStyle       lipgloss.Style
	CarrySourceStyle  lipgloss.Style // Where the carried lesson came from
	CarryTargetStyle  lipgloss.Style // Cursor while carrying
	ConflictStyle     lipgloss.Style
	PendingStyle      lipgloss.Style // Optimistic move awaiting its verdict

	// Body messages
	MessageStyle lipgloss.Style
	ErrorStyle   lipgloss.Style

	// Footer
	PromptStyle lipgloss.Style
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style

	// Modal
	ModalBgColor lipgloss.Color
	Modal        view.ModalStyles
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	s := &Styles{}
	p := theme.NewPalette(t)

	s.colorBg = p.Bg
	s.colorFg = p.Fg
	s.colorFgMuted = p.FgMuted
	s.colorAccent = p.Accent

	base := lipgloss.NewStyle().Background(p.Bg).Foreground(p.Fg)

	s.TabStyle = base.Foreground(p.FgMuted)
	s.TabActiveStyle = lipgloss.NewStyle().
		Background(p.Accent).
		Foreground(p.TextOnAccent).
		Bold(true)
	s.TitleStyle = base.Foreground(p.Accent).Bold(true)
	s.MutedStyle = base.Foreground(p.FgMuted)

	s.BorderStyle = base.Foreground(p.Accent)
	s.ColumnHeaderStyle = base.Foreground(p.Accent).Bold(true)
	s.DayStyle = base.Bold(true)
	s.DayCursorStyle = base.Foreground(p.Accent).Bold(true)
	s.EmptyCellStyle = base.Foreground(p.FgMuted)
	s.LessonStyle = lipgloss.NewStyle().Background(p.LessonBg).Foreground(p.TextOnLesson)
	s.LessonAltStyle = lipgloss.NewStyle().Background(p.LessonBgAlt).Foreground(p.TextOnLesson)
	s.CursorStyle = lipgloss.NewStyle().Background(p.BgSelection).Foreground(p.Fg).Bold(true)
	s.CarrySourceStyle = base.Foreground(p.Carry).Faint(true)
	s.CarryTargetStyle = lipgloss.NewStyle().Background(p.CarryBg).Foreground(p.TextOnCarry).Bold(true)
	s.ConflictStyle = lipgloss.NewStyle().Background(p.ConflictBg).Foreground(p.TextOnConflict).Bold(true)
	s.PendingStyle = lipgloss.NewStyle().Background(p.LessonBg).Foreground(p.Warning).Italic(true)

	s.MessageStyle = base.Foreground(p.FgMuted)
	s.ErrorStyle = base.Foreground(p.Conflict).Bold(true)

	s.PromptStyle = base.Foreground(p.Accent)
	s.StatusStyle = base.Foreground(p.Warning)
	s.HelpStyle = base.Foreground(p.FgMuted)

	s.ModalBgColor = p.Modal.Bg
	modalBase := lipgloss.NewStyle().Background(p.Modal.Bg).Foreground(p.Modal.Text)
	s.Modal = view.ModalStyles{
		ModalStyle: modalBase.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Modal.Border).
			BorderBackground(p.Modal.Bg).
			Padding(1, 2),
		ModalHeaderStyle:       modalBase,
		ModalTitleStyle:        modalBase.Foreground(p.Modal.Highlight).Bold(true),
		ModalBodyStyle:         modalBase,
		ModalFooterStyle:       modalBase.Foreground(p.Modal.Muted),
		ModalButtonStyle:       modalBase.Foreground(p.Modal.Muted).Padding(0, 1),
		ModalButtonActiveStyle: lipgloss.NewStyle().Background(p.Accent).Foreground(p.TextOnAccent).Bold(true).Padding(0, 1),
	}

	return s
}
