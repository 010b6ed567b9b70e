package timetable

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func testCollection() Collection {
	return Collection{
		{
			StudentGroupName: "Grade 9A",
			Days:             []string{"Monday", "Tuesday"},
			Timeslots:        []string{"Period 1", "Period 2"},
			ScheduledLessons: []Lesson{
				{ID: "L1", Subject: "Math", Teacher: "J. Smith", Day: "Monday", Timeslot: "Period 1"},
				{ID: "L2", Subject: "Art", Teacher: "A. Jones", Day: "Tuesday", Timeslot: "Period 2"},
			},
		},
		{
			StudentGroupName: "Grade 10B",
			Days:             []string{"Monday", "Tuesday"},
			Timeslots:        []string{"Period 1", "Period 2"},
			ScheduledLessons: []Lesson{
				{ID: "L9", Subject: "Physics", Teacher: "J. Smith", Day: "Tuesday", Timeslot: "Period 1"},
			},
		},
	}
}

func TestLessonIDJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want LessonID
		out  string
	}{
		{name: "string id", in: `"L1"`, want: "L1", out: `"L1"`},
		{name: "numeric-looking string", in: `"12"`, want: "12", out: `"12"`},
		{name: "leading zeros", in: `"007"`, want: "007", out: `"007"`},
		{name: "signed string", in: `"+5"`, want: "+5", out: `"+5"`},
		{name: "integer id", in: `42`, want: "42", out: `"42"`},
		{name: "null id", in: `null`, want: "", out: `""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id LessonID
			if err := json.Unmarshal([]byte(tt.in), &id); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if id != tt.want {
				t.Fatalf("id = %q, want %q", id, tt.want)
			}
			b, err := json.Marshal(id)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(b) != tt.out {
				t.Fatalf("marshal = %s, want %s", b, tt.out)
			}
		})
	}
}

func TestLessonKeepsIDKind(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{name: "integer", id: `42`},
		{name: "numeric-looking string", id: `"12"`},
		{name: "leading zeros", id: `"007"`},
		{name: "signed string", id: `"+5"`},
		{name: "plain string", id: `"L1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := `{"id":` + tt.id + `,"subject":"Math","teacher":"","day":"Monday","timeslot":"Period 1"}`
			var c Collection
			doc := `[{"student_group_name":"G","days":["Monday"],"timeslots":["Period 1"],"scheduled_lessons":[` + in + `]}]`
			if err := json.Unmarshal([]byte(doc), &c); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}

			moved := MutatePlacement(c.Clone(), 0, c[0].ScheduledLessons[0].ID, Cell{Day: "Monday", Timeslot: "Period 1"})
			out, err := json.Marshal(moved)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var back []struct {
				Lessons []map[string]json.RawMessage `json:"scheduled_lessons"`
			}
			if err := json.Unmarshal(out, &back); err != nil {
				t.Fatalf("decoding output: %v", err)
			}
			if got := string(back[0].Lessons[0]["id"]); got != tt.id {
				t.Fatalf("id = %s, want %s", got, tt.id)
			}
		})
	}
}

func TestLessonPreservesUnknownFields(t *testing.T) {
	in := `{"id":7,"subject":"Math","teacher":"J. Smith","day":"Monday","timeslot":"Period 1","room":"B12","lesson_type":{"lab":true}}`

	var l Lesson
	if err := json.Unmarshal([]byte(in), &l); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if l.ID != "7" || l.Subject != "Math" || l.Day != "Monday" {
		t.Fatalf("decoded lesson = %+v", l)
	}
	if string(l.Extra["room"]) != `"B12"` {
		t.Fatalf("room = %s, want \"B12\"", l.Extra["room"])
	}

	out, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got, want map[string]any
	_ = json.Unmarshal(out, &got)
	_ = json.Unmarshal([]byte(in), &want)
	if len(got) != len(want) {
		t.Fatalf("round trip keys = %v, want %v", got, want)
	}
	if got["id"] != float64(7) {
		t.Fatalf("id = %v, want 7", got["id"])
	}
	if got["room"] != "B12" {
		t.Fatalf("room = %v, want B12", got["room"])
	}
}

func TestCloneIsDeep(t *testing.T) {
	c := Collection{{
		StudentGroupName: "Grade 9A",
		Days:             []string{"Monday"},
		Timeslots:        []string{"Period 1"},
		ScheduledLessons: []Lesson{{
			ID: "L1", Day: "Monday", Timeslot: "Period 1",
			Extra: map[string]json.RawMessage{"room": json.RawMessage(`"B12"`)},
		}},
	}}

	clone := c.Clone()
	clone[0].ScheduledLessons[0].Day = "Tuesday"
	clone[0].Days[0] = "Sunday"
	clone[0].ScheduledLessons[0].Extra["room"] = json.RawMessage(`"C1"`)

	if c[0].ScheduledLessons[0].Day != "Monday" {
		t.Error("clone shares lessons with the original")
	}
	if c[0].Days[0] != "Monday" {
		t.Error("clone shares days with the original")
	}
	if string(c[0].ScheduledLessons[0].Extra["room"]) != `"B12"` {
		t.Error("clone shares extra fields with the original")
	}
}

func TestMutatePlacement(t *testing.T) {
	original := testCollection()
	before := original.Clone()

	updated := MutatePlacement(original, 0, "L1", Cell{Day: "Monday", Timeslot: "Period 2"})

	if !Equal(original, before) {
		t.Fatal("MutatePlacement modified its input")
	}
	l, ok := updated[0].Lesson("L1")
	if !ok {
		t.Fatal("L1 missing after mutation")
	}
	if l.Day != "Monday" || l.Timeslot != "Period 2" {
		t.Fatalf("L1 at %s %s, want Monday Period 2", l.Day, l.Timeslot)
	}
	if !Equal(Collection{updated[1]}, Collection{original[1]}) {
		t.Fatal("other schedules changed")
	}
	other, _ := updated[0].Lesson("L2")
	if other.Cell() != (Cell{Day: "Tuesday", Timeslot: "Period 2"}) {
		t.Fatalf("L2 moved to %v", other.Cell())
	}
}

func TestMutatePlacementUnknownTargets(t *testing.T) {
	original := testCollection()

	tests := []struct {
		name  string
		index int
		id    LessonID
	}{
		{name: "index out of range", index: 5, id: "L1"},
		{name: "negative index", index: -1, id: "L1"},
		{name: "lesson in another schedule", index: 0, id: "L9"},
		{name: "unknown lesson", index: 0, id: "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MutatePlacement(original, tt.index, tt.id, Cell{Day: "Tuesday", Timeslot: "Period 1"})
			if !Equal(got, original) {
				t.Fatal("expected an unchanged copy")
			}
		})
	}
}

func TestLocate(t *testing.T) {
	c := testCollection()

	idx, l, ok := c.Locate("L9")
	if !ok || idx != 1 || l.Subject != "Physics" {
		t.Fatalf("Locate(L9) = %d, %+v, %v", idx, l, ok)
	}
	if _, _, ok := c.Locate("missing"); ok {
		t.Fatal("Locate(missing) found a lesson")
	}
}

func TestEqualTreatsEmptyAndNilAlike(t *testing.T) {
	a := Collection{{StudentGroupName: "G", Days: []string{"Monday"}, Timeslots: []string{"P1"}, ScheduledLessons: []Lesson{}}}
	b := Collection{{StudentGroupName: "G", Days: []string{"Monday"}, Timeslots: []string{"P1"}}}
	if !Equal(a, b) {
		t.Fatal("empty and nil lesson lists should compare equal")
	}
	b[0].StudentGroupName = "H"
	if Equal(a, b) {
		t.Fatal("different group names compared equal")
	}
}

func TestExportFilename(t *testing.T) {
	tests := []struct {
		group string
		want  string
	}{
		{group: "Grade 9A", want: "Grade9A.xlsx"},
		{group: "Teacher: J. Smith", want: "TeacherJ.Smith.xlsx"},
		{group: "  Lab\tGroup : 2 ", want: "LabGroup2.xlsx"},
		{group: "", want: "timetable.xlsx"},
		{group: " : ", want: "timetable.xlsx"},
		{group: "Years 7/8", want: "Years7-8.xlsx"},
		{group: "../escape", want: "..-escape.xlsx"},
		{group: `a\b`, want: "a-b.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.group, func(t *testing.T) {
			if got := ExportFilename(Schedule{StudentGroupName: tt.group}); got != tt.want {
				t.Fatalf("ExportFilename(%q) = %q, want %q", tt.group, got, tt.want)
			}
		})
	}
}

func TestScheduleValidate(t *testing.T) {
	valid := testCollection()[0]
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid schedule: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(s *Schedule)
		field  string
	}{
		{name: "missing group", mutate: func(s *Schedule) { s.StudentGroupName = "" }, field: "StudentGroupName"},
		{name: "missing days", mutate: func(s *Schedule) { s.Days = nil }, field: "Days"},
		{name: "empty timeslots", mutate: func(s *Schedule) { s.Timeslots = []string{} }, field: "Timeslots"},
		{name: "nil lessons", mutate: func(s *Schedule) { s.ScheduledLessons = nil }, field: "ScheduledLessons"},
		{name: "lesson without id", mutate: func(s *Schedule) { s.ScheduledLessons[0].ID = "" }, field: "ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid.Clone()
			tt.mutate(&s)
			err := s.Validate()
			if !errors.Is(err, ErrIncompleteSchedule) {
				t.Fatalf("err = %v, want ErrIncompleteSchedule", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Fatalf("err = %v, want mention of %s", err, tt.field)
			}
		})
	}
}

func TestScheduleValidateAcceptsEmptyLessonList(t *testing.T) {
	s := Schedule{StudentGroupName: "G", Days: []string{"Monday"}, Timeslots: []string{"P1"}, ScheduledLessons: []Lesson{}}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
