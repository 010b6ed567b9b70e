// Package timetable defines the schedule data model shared by the editor, the solver
// client, and the renderers.
package timetable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// LessonID identifies a lesson across the whole collection.
// The solver may send ids as JSON strings or numbers; numbers are kept as their literal
// text. A lone LessonID always encodes as a JSON string; a decoded Lesson remembers
// which kind it received and writes that kind back.
type LessonID string

// UnmarshalJSON accepts both string and numeric ids.
func (id *LessonID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("lesson id: %w", err)
		}
		*id = LessonID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("lesson id: %w", err)
	}
	*id = LessonID(n.String())
	return nil
}

// MarshalJSON writes the id as a JSON string.
func (id LessonID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// numericLiteral reports whether raw is a JSON number rather than a string or null.
func numericLiteral(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] != '"' && !bytes.Equal(raw, []byte("null"))
}

// Lesson is one scheduled period of a subject for a group.
type Lesson struct {
	ID       LessonID `json:"id" validate:"required"`
	Subject  string   `json:"subject"`
	Teacher  string   `json:"teacher"`
	Day      string   `json:"day" validate:"required"`
	Timeslot string   `json:"timeslot" validate:"required"`

	// Extra holds fields the solver sent that this client does not interpret.
	Extra map[string]json.RawMessage `json:"-" validate:"-"`

	// numericID is set when the solver sent the id as a JSON number.
	numericID bool
}

var lessonKnownFields = map[string]bool{
	"id":       true,
	"subject":  true,
	"teacher":  true,
	"day":      true,
	"timeslot": true,
}

type lessonFields struct {
	ID       LessonID `json:"id"`
	Subject  string   `json:"subject"`
	Teacher  string   `json:"teacher"`
	Day      string   `json:"day"`
	Timeslot string   `json:"timeslot"`
}

// UnmarshalJSON decodes a lesson, keeping unknown fields in Extra.
func (l *Lesson) UnmarshalJSON(data []byte) error {
	var known lessonFields
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*l = Lesson{
		ID:        known.ID,
		Subject:   known.Subject,
		Teacher:   known.Teacher,
		Day:       known.Day,
		Timeslot:  known.Timeslot,
		numericID: numericLiteral(raw["id"]),
	}
	for k, v := range raw {
		if lessonKnownFields[k] {
			continue
		}
		if l.Extra == nil {
			l.Extra = make(map[string]json.RawMessage)
		}
		l.Extra[k] = v
	}
	return nil
}

// MarshalJSON encodes a lesson together with its preserved unknown fields.
func (l Lesson) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(l.Extra)+5)
	for k, v := range l.Extra {
		out[k] = v
	}
	id, err := l.EncodedID()
	if err != nil {
		return nil, err
	}
	out["id"] = id
	out["subject"] = l.Subject
	out["teacher"] = l.Teacher
	out["day"] = l.Day
	out["timeslot"] = l.Timeslot
	return json.Marshal(out)
}

// EncodedID returns the id in the JSON kind the solver used for it: a number when it
// was received as one, a string otherwise.
func (l Lesson) EncodedID() (json.RawMessage, error) {
	if l.numericID && json.Valid([]byte(l.ID)) {
		return json.RawMessage(l.ID), nil
	}
	return json.Marshal(string(l.ID))
}

// Cell returns the lesson's current placement.
func (l Lesson) Cell() Cell {
	return Cell{Day: l.Day, Timeslot: l.Timeslot}
}

func (l Lesson) clone() Lesson {
	c := l
	if l.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(l.Extra))
		for k, v := range l.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return c
}

// Schedule is one student group's weekly grid.
type Schedule struct {
	StudentGroupName string   `json:"student_group_name" validate:"required"`
	Days             []string `json:"days" validate:"required,min=1,dive,required"`
	Timeslots        []string `json:"timeslots" validate:"required,min=1,dive,required"`
	ScheduledLessons []Lesson `json:"scheduled_lessons" validate:"required,dive"`
}

// Clone returns a deep copy of the schedule.
func (s Schedule) Clone() Schedule {
	c := Schedule{StudentGroupName: s.StudentGroupName}
	if s.Days != nil {
		c.Days = append([]string{}, s.Days...)
	}
	if s.Timeslots != nil {
		c.Timeslots = append([]string{}, s.Timeslots...)
	}
	if s.ScheduledLessons != nil {
		c.ScheduledLessons = make([]Lesson, len(s.ScheduledLessons))
		for i, l := range s.ScheduledLessons {
			c.ScheduledLessons[i] = l.clone()
		}
	}
	return c
}

// Lesson returns the lesson with the given id.
func (s Schedule) Lesson(id LessonID) (Lesson, bool) {
	for _, l := range s.ScheduledLessons {
		if l.ID == id {
			return l, true
		}
	}
	return Lesson{}, false
}

// HasCell reports whether the cell lies on the schedule's day and timeslot axes.
func (s Schedule) HasCell(c Cell) bool {
	return indexOf(s.Days, c.Day) >= 0 && indexOf(s.Timeslots, c.Timeslot) >= 0
}

// Collection is the ordered set of schedules produced by one generation run.
type Collection []Schedule

// Clone returns a deep copy of the collection.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	for i, s := range c {
		out[i] = s.Clone()
	}
	return out
}

// Locate finds the schedule holding the lesson.
func (c Collection) Locate(id LessonID) (int, Lesson, bool) {
	for i, s := range c {
		if l, ok := s.Lesson(id); ok {
			return i, l, true
		}
	}
	return -1, Lesson{}, false
}

// Names returns the group names in collection order.
func (c Collection) Names() []string {
	names := make([]string, len(c))
	for i, s := range c {
		names[i] = s.StudentGroupName
	}
	return names
}

// Equal reports structural equality of two collections.
func Equal(a, b Collection) bool {
	if len(a) != len(b) {
		return false
	}
	return reflect.DeepEqual(normalize(a), normalize(b))
}

// normalize maps empty slices and maps to nil and drops the id's wire kind so that
// decoded and hand-built collections compare by content.
func normalize(c Collection) Collection {
	out := c.Clone()
	for i := range out {
		if len(out[i].Days) == 0 {
			out[i].Days = nil
		}
		if len(out[i].Timeslots) == 0 {
			out[i].Timeslots = nil
		}
		if len(out[i].ScheduledLessons) == 0 {
			out[i].ScheduledLessons = nil
		}
		for j := range out[i].ScheduledLessons {
			if len(out[i].ScheduledLessons[j].Extra) == 0 {
				out[i].ScheduledLessons[j].Extra = nil
			}
			out[i].ScheduledLessons[j].numericID = false
		}
	}
	return out
}

// MutatePlacement returns a new collection in which the lesson is placed at the cell
// within the schedule at scheduleIndex. The input collection is not modified. An
// out-of-range index or an unknown lesson yields an unchanged copy.
func MutatePlacement(c Collection, scheduleIndex int, id LessonID, to Cell) Collection {
	out := make(Collection, len(c))
	copy(out, c)
	if scheduleIndex < 0 || scheduleIndex >= len(out) {
		return out
	}

	src := out[scheduleIndex]
	lessons := make([]Lesson, len(src.ScheduledLessons))
	copy(lessons, src.ScheduledLessons)
	for i := range lessons {
		if lessons[i].ID != id {
			continue
		}
		moved := lessons[i].clone()
		moved.Day = to.Day
		moved.Timeslot = to.Timeslot
		lessons[i] = moved
		break
	}
	src.ScheduledLessons = lessons
	out[scheduleIndex] = src
	return out
}

func indexOf(values []string, v string) int {
	for i, s := range values {
		if s == v {
			return i
		}
	}
	return -1
}
