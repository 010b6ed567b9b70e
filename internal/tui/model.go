// Package tui provides the terminal user interface for horario.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/horario/internal/config"
	"github.com/javiermolinar/horario/internal/editor"
	"github.com/javiermolinar/horario/internal/journal"
	"github.com/javiermolinar/horario/internal/llm"
	"github.com/javiermolinar/horario/internal/solver"
	"github.com/javiermolinar/horario/internal/summary"
	"github.com/javiermolinar/horario/internal/timetable"
	"github.com/javiermolinar/horario/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeCarry       // A lesson is picked up and follows the cursor
	ModePrompt      // Jump-to prompt
	ModeModal
)

// ModalType identifies the type of modal.
type ModalType int

const (
	ModalNone ModalType = iota
	ModalAlert
	ModalSummary
	ModalHelp
)

// Position is a cursor position in the grid: Day is the row, Slot the column.
type Position struct {
	Day  int
	Slot int
}

// carry is a lesson picked up for a move.
type carry struct {
	LessonID timetable.LessonID
	From     Position
	// dragging is set when the pick-up came from a mouse press.
	dragging bool
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	client  solver.Client
	journal journal.Repository
	llm     llm.Client
	config  *config.Config
	logger  *zap.Logger

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Editing state
	editor   editor.Editor
	cursor   Position
	mode     Mode
	carrying *carry

	// Lesson of the newest unresolved move, shown as pending
	pendingLesson timetable.LessonID

	// Modal state
	modalType ModalType
	alertText string
	summary   *summary.Summary

	// Components
	spinner spinner.Model
	prompt  textinput.Model

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg  string
	statusTime time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithJournal records resolved moves in repo.
func WithJournal(repo journal.Repository) ModelOption {
	return func(m *Model) {
		m.journal = repo
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) ModelOption {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithLLMClient sets the client used for summary insight instead of the configured provider.
func WithLLMClient(client llm.Client) ModelOption {
	return func(m *Model) {
		m.llm = client
	}
}

// New creates a new TUI model.
func New(client solver.Client, cfg *config.Config, opts ...ModelOption) *Model {
	if cfg == nil {
		cfg = config.Default()
	}

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.TitleStyle

	prompt := textinput.New()
	prompt.Prompt = "/"
	prompt.Placeholder = "group or teacher name"
	prompt.CharLimit = 64
	prompt.PromptStyle = styles.PromptStyle
	prompt.TextStyle = styles.PromptStyle

	m := &Model{
		client:  client,
		config:  cfg,
		logger:  zap.NewNop(),
		theme:   t,
		styles:  styles,
		editor:  editor.New(),
		mode:    ModeNormal,
		spinner: sp,
		prompt:  prompt,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Editor returns the editing state.
func (m Model) Editor() editor.Editor {
	return m.editor
}

// Run starts the TUI program.
func Run(client solver.Client, cfg *config.Config, opts ...ModelOption) error {
	m := New(client, cfg, opts...)
	p := tea.NewProgram(*m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
