package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/horario/internal/solver"
	"github.com/javiermolinar/horario/internal/summary"
	"github.com/javiermolinar/horario/internal/timetable"
	"github.com/javiermolinar/horario/internal/tui/commands"
)

var summarySample = summary.Summary{
	Groups:  2,
	Lessons: 3,
	Days:    []string{"Monday", "Tuesday"},
	Teachers: []summary.TeacherLoad{
		{Name: "Jones", Lessons: 1, BusiestDay: "Tuesday", BusiestCount: 1},
		{Name: "Smith", Lessons: 2, BusiestDay: "Monday", BusiestCount: 2},
	},
	Insight: "Balanced week",
}

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestViewEmptyState(t *testing.T) {
	m := *New(&fakeSolver{}, nil)
	if got := m.View(); got != "Loading..." {
		t.Fatalf("View() before sizing = %q", got)
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	out := m.View()
	for _, want := range []string{"Class View", "Teacher View", msgEmpty, "g: generate"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewRendersGrid(t *testing.T) {
	m := generated(t, &fakeSolver{collection: testCollection()})
	out := m.View()

	for _, want := range []string{"Grade 9A", "1/2", "Day", "Period 1", "Monday", "Tuesday", "Math", "Smith", "Art", emptyCellText} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(out, "Biology") {
		t.Error("view shows a lesson from another group")
	}
}

func TestViewTeacherMode(t *testing.T) {
	m := generated(t, &fakeSolver{collection: testCollection()})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 250, Height: 40})
	m, _ = update(t, m, key("tab"))
	m, _ = update(t, m, key("]"))

	out := m.View()
	for _, want := range []string{"Teacher: Smith", "2/2", "Math (Grade 9A)", "Biology (Grade 9B)", "Saturday"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewGenerationError(t *testing.T) {
	m := *New(&fakeSolver{}, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, key("g"))
	m, _ = update(t, m, commands.GenerateFailedMsg{Err: &solver.GenerationError{}})

	if !strings.Contains(m.View(), "An unknown error occurred.") {
		t.Fatal("view should show the generation error")
	}
}

func TestViewIncompleteSchedule(t *testing.T) {
	c := testCollection()
	c[0].Timeslots = nil
	m := generated(t, &fakeSolver{collection: c})

	if !strings.Contains(m.View(), msgIncomplete) {
		t.Fatal("view should report incomplete data")
	}
}

func TestViewAlertModal(t *testing.T) {
	m := generated(t, &fakeSolver{collection: testCollection()})
	m = m.openAlert("Invalid Move: Room taken")

	out := m.View()
	if !strings.Contains(out, "Invalid Move: Room taken") || !strings.Contains(out, "OK") {
		t.Fatal("view should show the alert modal")
	}
}

func TestViewSummaryModal(t *testing.T) {
	m := generated(t, &fakeSolver{collection: testCollection()})
	m, _ = update(t, m, commands.SummaryMsg{Summary: &summarySample})

	if m.modalType != ModalSummary {
		t.Fatalf("modal = %v, want summary", m.modalType)
	}
	out := m.View()
	for _, want := range []string{"Teacher load", "Smith", "busiest Monday (2)", "Balanced week"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestMouseDragMovesLesson(t *testing.T) {
	client := &fakeSolver{collection: testCollection(), verdict: solver.ValidateMoveResponse{Valid: true}}
	m := generated(t, client)

	// Monday/Period 1 starts at column 9, row 5; Period 2 starts at column 32.
	m, _ = update(t, m, tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.carrying == nil || m.carrying.LessonID != "L1" {
		t.Fatalf("carrying = %+v, want L1", m.carrying)
	}
	m, _ = update(t, m, tea.MouseMsg{X: 40, Y: 6, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if m.cursor != (Position{Day: 0, Slot: 1}) {
		t.Fatalf("cursor during drag = %+v", m.cursor)
	}
	m, cmd := update(t, m, tea.MouseMsg{X: 40, Y: 6, Action: tea.MouseActionRelease})
	if cmd == nil {
		t.Fatal("expected a validation command after the drop")
	}
	if got := lessonCell(t, m, "L1"); got != (timetable.Cell{Day: "Monday", Timeslot: "Period 2"}) {
		t.Fatalf("L1 at %v after drop", got)
	}
	if m.carrying != nil || m.mode != ModeNormal {
		t.Fatal("drag should end on release")
	}
}

func TestMouseReleaseOffGridCancels(t *testing.T) {
	m := generated(t, &fakeSolver{collection: testCollection()})

	m, _ = update(t, m, tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, cmd := update(t, m, tea.MouseMsg{X: 10, Y: 0, Action: tea.MouseActionRelease})
	if cmd != nil {
		t.Fatal("release off the grid must not validate")
	}
	if m.carrying != nil {
		t.Fatal("release off the grid should cancel the drag")
	}
	if got := lessonCell(t, m, "L1"); got != mondayP1 {
		t.Fatalf("L1 moved to %v", got)
	}
}

func TestGridLayoutHit(t *testing.T) {
	s := testCollection()[0]
	l := newGridLayout(timetable.NewGrid(s), 100)

	if l.dayW != len("Tuesday") {
		t.Fatalf("dayW = %d, want %d", l.dayW, len("Tuesday"))
	}
	if l.colW != maxColWidth {
		t.Fatalf("colW = %d, want %d", l.colW, maxColWidth)
	}

	tests := []struct {
		name string
		x, y int
		want Position
		ok   bool
	}{
		{name: "first cell", x: 9, y: 5, want: Position{Day: 0, Slot: 0}, ok: true},
		{name: "first cell second line", x: 30, y: 6, want: Position{Day: 0, Slot: 0}, ok: true},
		{name: "second column", x: 32, y: 5, want: Position{Day: 0, Slot: 1}, ok: true},
		{name: "second row", x: 9, y: 7, want: Position{Day: 1, Slot: 0}, ok: true},
		{name: "column separator", x: 31, y: 5},
		{name: "day column", x: 3, y: 5},
		{name: "header row", x: 9, y: 3},
		{name: "tabs", x: 9, y: 0},
		{name: "below last day", x: 9, y: 9},
		{name: "right of last column", x: 60, y: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := l.hit(tt.x, tt.y)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Fatalf("hit(%d, %d) = %+v, %v, want %+v, %v", tt.x, tt.y, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestGridLayoutNarrowTerminal(t *testing.T) {
	s := testCollection()[0]
	l := newGridLayout(timetable.NewGrid(s), 20)
	if l.colW != minColWidth {
		t.Fatalf("colW = %d, want %d", l.colW, minColWidth)
	}
	if got := l.height(); got != gridHeaderLines+2*cellLines+1 {
		t.Fatalf("height = %d", got)
	}
}
