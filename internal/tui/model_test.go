package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/horario/internal/editor"
	"github.com/javiermolinar/horario/internal/journal"
	"github.com/javiermolinar/horario/internal/solver"
	"github.com/javiermolinar/horario/internal/timetable"
	"github.com/javiermolinar/horario/internal/tui/commands"
)

type fakeSolver struct {
	collection timetable.Collection
	verdict    solver.ValidateMoveResponse
	err        error
}

func (f *fakeSolver) Generate(ctx context.Context) (timetable.Collection, error) {
	return f.collection.Clone(), f.err
}

func (f *fakeSolver) ValidateMove(ctx context.Context, req solver.ValidateMoveRequest) (solver.ValidateMoveResponse, error) {
	return f.verdict, f.err
}

func (f *fakeSolver) Export(ctx context.Context, s timetable.Schedule) ([]byte, error) {
	return nil, f.err
}

type fakeJournal struct {
	entries []*journal.Entry
}

func (f *fakeJournal) Record(ctx context.Context, e *journal.Entry) error {
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeJournal) Recent(ctx context.Context, limit int) ([]*journal.Entry, error) {
	return f.entries, nil
}

func (f *fakeJournal) CountByOutcome(ctx context.Context) (map[string]int, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeJournal) Close() error {
	return nil
}

func testCollection() timetable.Collection {
	axes := func(name string, lessons ...timetable.Lesson) timetable.Schedule {
		return timetable.Schedule{
			StudentGroupName: name,
			Days:             []string{"Monday", "Tuesday"},
			Timeslots:        []string{"Period 1", "Period 2"},
			ScheduledLessons: lessons,
		}
	}
	return timetable.Collection{
		axes("Grade 9A",
			timetable.Lesson{ID: "L1", Subject: "Math", Teacher: "Smith", Day: "Monday", Timeslot: "Period 1"},
			timetable.Lesson{ID: "L2", Subject: "Art", Teacher: "Jones", Day: "Tuesday", Timeslot: "Period 2"},
		),
		axes("Grade 9B",
			timetable.Lesson{ID: "L3", Subject: "Biology", Teacher: "Smith", Day: "Monday", Timeslot: "Period 2"},
		),
	}
}

var (
	mondayP1 = timetable.Cell{Day: "Monday", Timeslot: "Period 1"}
	mondayP2 = timetable.Cell{Day: "Monday", Timeslot: "Period 2"}
)

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	model, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return model, cmd
}

// generated returns a sized model holding testCollection.
func generated(t *testing.T, client *fakeSolver, opts ...ModelOption) Model {
	t.Helper()
	m := *New(client, nil, opts...)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, cmd := update(t, m, key("g"))
	if !m.editor.Loading() {
		t.Fatal("expected loading after g")
	}
	if cmd == nil {
		t.Fatal("expected a generate command")
	}
	m, _ = update(t, m, commands.GeneratedMsg{Collection: client.collection.Clone()})
	return m
}

// moveL1Right picks up L1 at Monday/Period 1 and drops it on Period 2 with the keyboard.
func moveL1Right(t *testing.T, m Model) (Model, commands.MoveResolvedMsg) {
	t.Helper()
	m, _ = update(t, m, key(" "))
	if m.mode != ModeCarry {
		t.Fatalf("mode = %v, want ModeCarry", m.mode)
	}
	m, _ = update(t, m, key("l"))
	m, cmd := update(t, m, key(" "))
	if cmd == nil {
		t.Fatal("expected a validation command")
	}
	msg, ok := cmd().(commands.MoveResolvedMsg)
	if !ok {
		t.Fatal("validation command did not return MoveResolvedMsg")
	}
	return m, msg
}

func lessonCell(t *testing.T, m Model, id timetable.LessonID) timetable.Cell {
	t.Helper()
	_, l, ok := m.editor.Store().Collection().Locate(id)
	if !ok {
		t.Fatalf("lesson %s not found", id)
	}
	return l.Cell()
}

// runAll executes cmd and any batched commands, returning their messages.
func runAll(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runAll(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestGenerateInstallsCollection(t *testing.T) {
	client := &fakeSolver{collection: testCollection()}
	m := generated(t, client)

	if m.editor.Loading() {
		t.Fatal("still loading after GeneratedMsg")
	}
	if m.editor.Store().Len() != 2 {
		t.Fatalf("schedules = %d, want 2", m.editor.Store().Len())
	}
	s, ok := m.editor.Displayed()
	if !ok || s.StudentGroupName != "Grade 9A" {
		t.Fatalf("displayed = %q, %v", s.StudentGroupName, ok)
	}
	if m.statusMsg == "" {
		t.Fatal("expected a status message")
	}
}

func TestGenerateFailureShowsError(t *testing.T) {
	m := *New(&fakeSolver{}, nil)
	m, _ = update(t, m, key("g"))
	m, _ = update(t, m, commands.GenerateFailedMsg{Err: &solver.GenerationError{Message: "No feasible timetable"}})

	if m.editor.Err() != "No feasible timetable" {
		t.Fatalf("err = %q", m.editor.Err())
	}
	if m.editor.Loading() {
		t.Fatal("still loading after failure")
	}
}

func TestKeyboardMoveCommitted(t *testing.T) {
	repo := &fakeJournal{}
	client := &fakeSolver{collection: testCollection(), verdict: solver.ValidateMoveResponse{Valid: true}}
	m := generated(t, client, WithJournal(repo))

	m, msg := moveL1Right(t, m)
	if got := lessonCell(t, m, "L1"); got != mondayP2 {
		t.Fatalf("optimistic cell = %v, want %v", got, mondayP2)
	}
	if !m.editor.InFlight() {
		t.Fatal("expected move in flight")
	}

	m, cmd := update(t, m, msg)
	if m.editor.InFlight() {
		t.Fatal("move still in flight after verdict")
	}
	if got := lessonCell(t, m, "L1"); got != mondayP2 {
		t.Fatalf("committed cell = %v, want %v", got, mondayP2)
	}
	if m.mode != ModeNormal {
		t.Fatalf("mode = %v, want ModeNormal", m.mode)
	}

	runAll(cmd)
	if len(repo.entries) != 1 || repo.entries[0].Outcome != journal.OutcomeCommitted {
		t.Fatalf("journal = %+v", repo.entries)
	}
}

func TestKeyboardMoveRejectedRollsBack(t *testing.T) {
	client := &fakeSolver{
		collection: testCollection(),
		verdict:    solver.ValidateMoveResponse{Valid: false, Reason: "Teacher Smith is busy", ConflictingLessonID: "L3"},
	}
	m := generated(t, client)

	m, msg := moveL1Right(t, m)
	m, cmd := update(t, m, msg)

	if got := lessonCell(t, m, "L1"); got != mondayP1 {
		t.Fatalf("cell after rejection = %v, want %v", got, mondayP1)
	}
	if m.mode != ModeModal || m.modalType != ModalAlert {
		t.Fatalf("mode/modal = %v/%v, want alert", m.mode, m.modalType)
	}
	if m.alertText != "Invalid Move: Teacher Smith is busy" {
		t.Fatalf("alert = %q", m.alertText)
	}
	marker := m.editor.Conflict()
	if marker.LessonID != "L3" {
		t.Fatalf("conflict = %q, want L3", marker.LessonID)
	}
	if cmd == nil {
		t.Fatal("expected journal and expiry commands")
	}

	m, _ = update(t, m, commands.ConflictExpiredMsg{Token: marker.Token})
	if m.editor.Conflict().Active() {
		t.Fatal("conflict marker should clear when its timer fires")
	}

	m, _ = update(t, m, key("enter"))
	if m.mode != ModeNormal {
		t.Fatalf("mode after closing alert = %v", m.mode)
	}
}

func TestOlderConflictTimerKeepsNewerMarker(t *testing.T) {
	client := &fakeSolver{
		collection: testCollection(),
		verdict:    solver.ValidateMoveResponse{Valid: false, Reason: "busy", ConflictingLessonID: "L3"},
	}
	m := generated(t, client)

	m, msg := moveL1Right(t, m)
	m, _ = update(t, m, msg)
	first := m.editor.Conflict().Token
	m, _ = update(t, m, key("enter"))

	m.cursor = Position{}
	m, msg = moveL1Right(t, m)
	m, _ = update(t, m, msg)
	second := m.editor.Conflict().Token
	if second == first {
		t.Fatal("expected a new conflict token")
	}

	m, _ = update(t, m, commands.ConflictExpiredMsg{Token: first})
	if !m.editor.Conflict().Active() {
		t.Fatal("first timer cleared the newer highlight")
	}
}

func TestValidationFailureReverts(t *testing.T) {
	client := &fakeSolver{collection: testCollection()}
	m := generated(t, client)

	m, msg := moveL1Right(t, m)
	msg.Err = errors.New("connection refused")
	m, _ = update(t, m, msg)

	if got := lessonCell(t, m, "L1"); got != mondayP1 {
		t.Fatalf("cell after failure = %v, want %v", got, mondayP1)
	}
	if m.alertText != editor.NoticeValidateFailed {
		t.Fatalf("alert = %q", m.alertText)
	}
	if m.editor.Conflict().Active() {
		t.Fatal("transport failure must not set a conflict marker")
	}
}

func TestVerdictAfterRegenerationIsStale(t *testing.T) {
	repo := &fakeJournal{}
	client := &fakeSolver{
		collection: testCollection(),
		verdict:    solver.ValidateMoveResponse{Valid: false, Reason: "busy"},
	}
	m := generated(t, client, WithJournal(repo))

	m, msg := moveL1Right(t, m)
	m, _ = update(t, m, key("g"))
	m, _ = update(t, m, commands.GeneratedMsg{Collection: testCollection()})

	m, cmd := update(t, m, msg)
	if m.mode == ModeModal {
		t.Fatal("stale verdict must not raise an alert")
	}
	if got := lessonCell(t, m, "L1"); got != mondayP1 {
		t.Fatalf("cell = %v, want fresh %v", got, mondayP1)
	}
	runAll(cmd)
	if len(repo.entries) != 1 || repo.entries[0].Outcome != journal.OutcomeStale {
		t.Fatalf("journal = %+v", repo.entries)
	}
}

func TestSameCellDropIsNoOp(t *testing.T) {
	client := &fakeSolver{collection: testCollection()}
	m := generated(t, client)
	before := m.editor.Store().Generation()

	m, _ = update(t, m, key(" "))
	m, cmd := update(t, m, key(" "))
	if cmd != nil {
		t.Fatal("no-op drop must not request validation")
	}
	if m.editor.InFlight() {
		t.Fatal("no-op drop must not open a move")
	}
	if m.editor.Store().Generation() != before {
		t.Fatal("no-op drop changed the store")
	}
}

func TestCarryCancel(t *testing.T) {
	m := generated(t, &fakeSolver{collection: testCollection()})

	m, _ = update(t, m, key(" "))
	m, _ = update(t, m, key("esc"))
	if m.mode != ModeNormal || m.carrying != nil {
		t.Fatalf("mode = %v, carrying = %v", m.mode, m.carrying)
	}
}

func TestTeacherViewIsReadOnly(t *testing.T) {
	m := generated(t, &fakeSolver{collection: testCollection()})

	m, _ = update(t, m, key("tab"))
	if m.editor.Selector().Mode != editor.ModeTeacher {
		t.Fatal("tab should switch to teacher view")
	}
	s, ok := m.editor.Displayed()
	if !ok || s.StudentGroupName != "Teacher: Jones" {
		t.Fatalf("displayed = %q", s.StudentGroupName)
	}

	m, _ = update(t, m, key(" "))
	if m.mode != ModeNormal || m.carrying != nil {
		t.Fatal("lessons must not be picked up in teacher view")
	}
	if m.statusMsg == "" {
		t.Fatal("expected a status explaining why")
	}
}

func TestSelectorKeys(t *testing.T) {
	m := generated(t, &fakeSolver{collection: testCollection()})

	m, _ = update(t, m, key("]"))
	if s, _ := m.editor.Displayed(); s.StudentGroupName != "Grade 9B" {
		t.Fatalf("after ] displayed = %q", s.StudentGroupName)
	}
	m, _ = update(t, m, key("]"))
	if s, _ := m.editor.Displayed(); s.StudentGroupName != "Grade 9B" {
		t.Fatalf("] should clamp at the last schedule, got %q", s.StudentGroupName)
	}
	m, _ = update(t, m, key("["))
	if s, _ := m.editor.Displayed(); s.StudentGroupName != "Grade 9A" {
		t.Fatalf("after [ displayed = %q", s.StudentGroupName)
	}
}

func TestJumpPrompt(t *testing.T) {
	m := generated(t, &fakeSolver{collection: testCollection()})

	m, _ = update(t, m, key("/"))
	if m.mode != ModePrompt {
		t.Fatalf("mode = %v, want ModePrompt", m.mode)
	}
	m.prompt.SetValue("grade 9b")
	m, _ = update(t, m, key("enter"))
	if s, _ := m.editor.Displayed(); s.StudentGroupName != "Grade 9B" {
		t.Fatalf("displayed = %q, want Grade 9B", s.StudentGroupName)
	}
}

func TestMatchName(t *testing.T) {
	names := []string{"Grade 10", "Grade 1", "Smith"}
	tests := []struct {
		query string
		want  int
		ok    bool
	}{
		{query: "grade 1", want: 1, ok: true},
		{query: "Grade", want: 0, ok: true},
		{query: "smi", want: 2, ok: true},
		{query: "  ", ok: false},
		{query: "zz", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, ok := matchName(names, tt.query)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Fatalf("matchName(%q) = %d, %v, want %d, %v", tt.query, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestExportWithoutScheduleAlerts(t *testing.T) {
	m := *New(&fakeSolver{}, nil)

	for _, k := range []string{"e", "E"} {
		got, cmd := update(t, m, key(k))
		if cmd != nil {
			t.Fatalf("%s: expected no export command", k)
		}
		if got.modalType != ModalAlert || got.alertText != editor.NoticeNothingToExport {
			t.Fatalf("%s: alert = %q", k, got.alertText)
		}
	}
}

func TestExportFailureAlerts(t *testing.T) {
	m := generated(t, &fakeSolver{collection: testCollection()})

	m, _ = update(t, m, commands.ExportFailedMsg{Err: errors.New("500")})
	if m.alertText != editor.NoticeExportFailed {
		t.Fatalf("alert = %q", m.alertText)
	}
}

func TestCursorClamps(t *testing.T) {
	m := generated(t, &fakeSolver{collection: testCollection()})

	for _, k := range []string{"j", "j", "j", "l", "l", "l"} {
		m, _ = update(t, m, key(k))
	}
	if m.cursor != (Position{Day: 1, Slot: 1}) {
		t.Fatalf("cursor = %+v, want {1 1}", m.cursor)
	}
	for _, k := range []string{"k", "k", "h", "h"} {
		m, _ = update(t, m, key(k))
	}
	if m.cursor != (Position{}) {
		t.Fatalf("cursor = %+v, want {0 0}", m.cursor)
	}
}
