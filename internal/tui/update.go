package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/horario/internal/editor"
	"github.com/javiermolinar/horario/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prompt.Width = msg.Width - 4
		return m, nil

	case spinner.TickMsg:
		if !m.editor.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case commands.GeneratedMsg:
		m.editor = m.editor.Generated(msg.Collection)
		m.cursor = Position{}
		m.pendingLesson = ""
		m.logger.Info("timetable generated",
			zap.Int("schedules", len(msg.Collection)),
			zap.Int("teachers", len(m.editor.Store().Roster())),
		)
		if err := msg.Collection.Validate(); err != nil {
			m.logger.Warn("generated timetable is incomplete", zap.Error(err))
		}
		return m.setStatus(fmt.Sprintf("Generated %d schedules", len(msg.Collection)))

	case commands.GenerateFailedMsg:
		m.editor = m.editor.GenerateFailed(msg.Err)
		m.logger.Error("generation failed", zap.Error(msg.Err))
		return m, nil

	case commands.MoveResolvedMsg:
		return m.resolveMove(msg)

	case commands.ConflictExpiredMsg:
		m.editor = m.editor.ClearConflict(msg.Token)
		return m, nil

	case commands.ExportedMsg:
		m.logger.Info("schedule exported", zap.String("path", msg.Path))
		return m.setStatus("Exported " + msg.Path)

	case commands.ExportFailedMsg:
		m.logger.Error("export failed", zap.Error(msg.Err))
		return m.openAlert(editor.NoticeExportFailed), nil

	case commands.SummaryMsg:
		m.summary = msg.Summary
		m.statusMsg = ""
		return m.openModal(ModalSummary), nil

	case commands.ErrMsg:
		m.logger.Error("command failed", zap.Error(msg.Err))
		m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
		m.statusTime = time.Now().Add(5 * time.Second)
		return m, tea.Tick(5*time.Second, func(time.Time) tea.Msg {
			return commands.ClearStatusMsg{}
		})

	case commands.StatusMsg:
		return m.setStatus(msg.Msg)

	case commands.ClearStatusMsg:
		if !time.Now().Before(m.statusTime) {
			m.statusMsg = ""
		}
		return m, nil
	}

	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}

	return m, nil
}

// resolveMove applies a validation verdict and schedules its side effects.
func (m Model) resolveMove(msg commands.MoveResolvedMsg) (tea.Model, tea.Cmd) {
	var res editor.Resolution
	m.editor, res = m.editor.Resolve(msg.Pending, msg.Verdict, msg.Err)

	fields := []zap.Field{
		zap.Uint64("seq", msg.Pending.Seq),
		zap.String("lesson", string(msg.Pending.LessonID)),
		zap.String("from", msg.Pending.From.String()),
		zap.String("to", msg.Pending.To.String()),
		zap.Stringer("outcome", res.Outcome),
	}
	switch res.Outcome {
	case editor.OutcomeFailed:
		m.logger.Error("move validation failed", append(fields, zap.Error(msg.Err))...)
	case editor.OutcomeRejected:
		m.logger.Info("move rejected", append(fields, zap.String("reason", msg.Verdict.Reason))...)
	default:
		m.logger.Debug("move resolved", fields...)
	}

	if res.Outcome != editor.OutcomeStale {
		m.pendingLesson = ""
	}

	cmds := []tea.Cmd{commands.RecordMove(m.journal, msg.Pending, res, msg.Verdict)}
	if res.ConflictToken != 0 {
		cmds = append(cmds, commands.ExpireConflict(res.ConflictToken))
	}
	if res.Alert != "" {
		m = m.openAlert(res.Alert)
	}
	return m, tea.Batch(cmds...)
}

// setStatus shows a transient message in the footer.
func (m Model) setStatus(msg string) (tea.Model, tea.Cmd) {
	m.statusMsg = msg
	m.statusTime = time.Now().Add(commands.StatusDuration)
	return m, commands.ClearStatusAfter()
}

func (m Model) openModal(t ModalType) Model {
	m.carrying = nil
	m.mode = ModeModal
	m.modalType = t
	return m
}

func (m Model) openAlert(text string) Model {
	m.alertText = text
	return m.openModal(ModalAlert)
}

func (m Model) closeModal() Model {
	m.mode = ModeNormal
	m.modalType = ModalNone
	m.alertText = ""
	return m
}
