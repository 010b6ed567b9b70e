// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/horario/internal/editor"
	"github.com/javiermolinar/horario/internal/export"
	"github.com/javiermolinar/horario/internal/journal"
	"github.com/javiermolinar/horario/internal/solver"
	"github.com/javiermolinar/horario/internal/summary"
	"github.com/javiermolinar/horario/internal/timetable"
)

// StatusDuration is how long transient status messages stay visible.
const StatusDuration = 3 * time.Second

// GeneratedMsg carries a fresh collection from the solver.
type GeneratedMsg struct {
	Collection timetable.Collection
}

// GenerateFailedMsg is sent when generation fails.
type GenerateFailedMsg struct {
	Err error
}

// MoveResolvedMsg carries the verdict, or transport error, for a pending move.
type MoveResolvedMsg struct {
	Pending editor.PendingMove
	Verdict solver.ValidateMoveResponse
	Err     error
}

// ConflictExpiredMsg asks the model to clear the conflict marker owned by Token.
type ConflictExpiredMsg struct {
	Token uint64
}

// ExportedMsg is sent when an export file has been written.
type ExportedMsg struct {
	Path string
}

// ExportFailedMsg is sent when an export fails.
type ExportFailedMsg struct {
	Err error
}

// SummaryMsg is sent when the teacher-load summary is ready.
type SummaryMsg struct {
	Summary *summary.Summary
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsg is sent for temporary status messages.
type StatusMsg struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// Generate asks the solver for a new timetable.
func Generate(client solver.Client) tea.Cmd {
	return func() tea.Msg {
		c, err := client.Generate(context.Background())
		if err != nil {
			return GenerateFailedMsg{Err: err}
		}
		return GeneratedMsg{Collection: c}
	}
}

// ValidateMove sends the proposed timetable for a pending move to the solver.
func ValidateMove(client solver.Client, p editor.PendingMove) tea.Cmd {
	return func() tea.Msg {
		verdict, err := client.ValidateMove(context.Background(), p.Request())
		return MoveResolvedMsg{Pending: p, Verdict: verdict, Err: err}
	}
}

// ExpireConflict fires after the highlight delay for the marker owning token.
func ExpireConflict(token uint64) tea.Cmd {
	return tea.Tick(editor.ConflictHighlightDelay, func(time.Time) tea.Msg {
		return ConflictExpiredMsg{Token: token}
	})
}

// Export downloads the solver's workbook for a schedule and saves it to dir.
func Export(client solver.Client, s timetable.Schedule, dir string) tea.Cmd {
	return func() tea.Msg {
		data, err := client.Export(context.Background(), s)
		if err != nil {
			return ExportFailedMsg{Err: err}
		}
		path, err := export.Save(dir, s, data)
		if err != nil {
			return ExportFailedMsg{Err: err}
		}
		return ExportedMsg{Path: path}
	}
}

// ExportLocal renders the workbook locally and saves it to dir.
func ExportLocal(s timetable.Schedule, dir string) tea.Cmd {
	return func() tea.Msg {
		buf, err := export.Workbook(s)
		if err != nil {
			return ExportFailedMsg{Err: err}
		}
		path, err := export.Save(dir, s, buf.Bytes())
		if err != nil {
			return ExportFailedMsg{Err: err}
		}
		return ExportedMsg{Path: path}
	}
}

// Summary builds the teacher-load summary for the collection.
func Summary(c timetable.Collection, opts summary.BuildOptions) tea.Cmd {
	return func() tea.Msg {
		s, err := summary.Build(context.Background(), c, opts)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return SummaryMsg{Summary: s}
	}
}

// RecordMove appends a resolved move to the journal. A nil repository is a no-op.
func RecordMove(repo journal.Repository, p editor.PendingMove, res editor.Resolution, verdict solver.ValidateMoveResponse) tea.Cmd {
	if repo == nil {
		return nil
	}
	entry := journal.NewEntry(p.Seq, p.Group, p.LessonID, p.From, p.To, res.Outcome.String())
	if res.Outcome == editor.OutcomeRejected {
		entry.Reason = verdict.Reason
		entry.ConflictingLessonID = verdict.ConflictingLessonID
	}
	return func() tea.Msg {
		if err := repo.Record(context.Background(), entry); err != nil {
			return ErrMsg{Err: fmt.Errorf("recording move: %w", err)}
		}
		return nil
	}
}

// CopySchedule copies the schedule to the clipboard as tab-separated values.
func CopySchedule(s timetable.Schedule) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(ScheduleTSV(s)); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return StatusMsg{Msg: "Copied " + s.StudentGroupName}
	}
}

// ScheduleTSV renders a schedule as a header row of timeslots and one row per day.
// Cells hold "subject (teacher)".
func ScheduleTSV(s timetable.Schedule) string {
	grid := timetable.NewGrid(s)
	var b strings.Builder
	b.WriteString("Day")
	for _, ts := range s.Timeslots {
		b.WriteString("\t" + ts)
	}
	b.WriteString("\n")
	for d, day := range s.Days {
		b.WriteString(day)
		for t := range s.Timeslots {
			b.WriteString("\t")
			if l, ok := grid.At(d, t); ok {
				b.WriteString(l.Subject)
				if l.Teacher != "" {
					b.WriteString(" (" + l.Teacher + ")")
				}
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ClearStatusAfter clears the status line after StatusDuration.
func ClearStatusAfter() tea.Cmd {
	return tea.Tick(StatusDuration, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
