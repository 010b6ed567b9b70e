package editor

import "github.com/javiermolinar/horario/internal/timetable"

// Mode selects which projection is displayed.
type Mode int

// View modes.
const (
	ModeClass Mode = iota
	ModeTeacher
)

func (m Mode) String() string {
	switch m {
	case ModeClass:
		return "class"
	case ModeTeacher:
		return "teacher"
	default:
		return "unknown"
	}
}

// Selector is the {mode, index} pair choosing the displayed schedule.
type Selector struct {
	Mode  Mode
	Index int
}

// SwitchMode changes the mode. The index resets to 0 only when the mode changes.
func (s Selector) SwitchMode(m Mode) Selector {
	if s.Mode == m {
		return s
	}
	return Selector{Mode: m}
}

// Toggle flips between class and teacher mode.
func (s Selector) Toggle() Selector {
	if s.Mode == ModeClass {
		return s.SwitchMode(ModeTeacher)
	}
	return s.SwitchMode(ModeClass)
}

// Select picks an index within the current mode.
func (s Selector) Select(index int) Selector {
	s.Index = index
	return s
}

// Next advances the index, clamped to count-1.
func (s Selector) Next(count int) Selector {
	s.Index = clamp(s.Index+1, count)
	return s
}

// Prev moves the index back, clamped to 0.
func (s Selector) Prev(count int) Selector {
	s.Index = clamp(s.Index-1, count)
	return s
}

// Count returns the number of selectable entries for the current mode.
func (s Selector) Count(st Store) int {
	if s.Mode == ModeTeacher {
		return len(st.Roster())
	}
	return st.Len()
}

// Names returns the selectable labels for the current mode.
func (s Selector) Names(st Store) []string {
	if s.Mode == ModeTeacher {
		return st.Roster()
	}
	return st.Collection().Names()
}

// Effective returns the index actually displayed. Teacher mode clamps a stale index
// left over from a longer roster.
func (s Selector) Effective(st Store) int {
	if s.Mode == ModeTeacher {
		return clamp(s.Index, len(st.Roster()))
	}
	return s.Index
}

// Displayed derives the schedule to show. It reports false when there is nothing to
// show: an empty collection, an out-of-range class index, or an empty roster.
func (s Selector) Displayed(st Store) (timetable.Schedule, bool) {
	switch s.Mode {
	case ModeClass:
		c := st.Collection()
		if s.Index < 0 || s.Index >= len(c) {
			return timetable.Schedule{}, false
		}
		return c[s.Index], true
	case ModeTeacher:
		roster := st.Roster()
		if len(roster) == 0 {
			return timetable.Schedule{}, false
		}
		return timetable.ProjectTeacher(st.Collection(), roster[clamp(s.Index, len(roster))]), true
	default:
		return timetable.Schedule{}, false
	}
}

func clamp(i, count int) int {
	if count <= 0 || i < 0 {
		return 0
	}
	if i > count-1 {
		return count - 1
	}
	return i
}
