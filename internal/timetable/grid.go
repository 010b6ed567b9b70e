package timetable

// Grid indexes a schedule's lessons by day and timeslot position.
// Lessons placed outside the schedule's axes are not shown. When two lessons share a
// cell the later one in the schedule wins.
type Grid struct {
	Days      []string
	Timeslots []string
	cells     [][]*Lesson
}

// NewGrid builds the day×timeslot index for a schedule.
func NewGrid(s Schedule) Grid {
	g := Grid{
		Days:      s.Days,
		Timeslots: s.Timeslots,
		cells:     make([][]*Lesson, len(s.Days)),
	}
	for d := range g.cells {
		g.cells[d] = make([]*Lesson, len(s.Timeslots))
	}
	for i := range s.ScheduledLessons {
		l := &s.ScheduledLessons[i]
		d := indexOf(s.Days, l.Day)
		t := indexOf(s.Timeslots, l.Timeslot)
		if d < 0 || t < 0 {
			continue
		}
		g.cells[d][t] = l
	}
	return g
}

// Size returns the number of days and timeslots.
func (g Grid) Size() (days, timeslots int) {
	return len(g.Days), len(g.Timeslots)
}

// InBounds reports whether the position exists.
func (g Grid) InBounds(day, slot int) bool {
	return day >= 0 && day < len(g.Days) && slot >= 0 && slot < len(g.Timeslots)
}

// At returns the lesson at a position.
func (g Grid) At(day, slot int) (Lesson, bool) {
	if !g.InBounds(day, slot) || g.cells[day][slot] == nil {
		return Lesson{}, false
	}
	return *g.cells[day][slot], true
}

// CellAt returns the cell address of a position.
func (g Grid) CellAt(day, slot int) (Cell, bool) {
	if !g.InBounds(day, slot) {
		return Cell{}, false
	}
	return Cell{Day: g.Days[day], Timeslot: g.Timeslots[slot]}, true
}

// Position returns the row and column of a cell.
func (g Grid) Position(c Cell) (day, slot int, ok bool) {
	day = indexOf(g.Days, c.Day)
	slot = indexOf(g.Timeslots, c.Timeslot)
	if day < 0 || slot < 0 {
		return 0, 0, false
	}
	return day, slot, true
}

// Find returns the position of the lesson with the given id.
func (g Grid) Find(id LessonID) (day, slot int, ok bool) {
	for d, row := range g.cells {
		for t, l := range row {
			if l != nil && l.ID == id {
				return d, t, true
			}
		}
	}
	return 0, 0, false
}
