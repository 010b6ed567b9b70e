package timetable

import (
	"sort"
	"strings"
	"unicode"
)

// UnknownGroup annotates a projected lesson whose origin schedule cannot be found.
const UnknownGroup = "N/A"

// TeacherLabelPrefix prefixes the group name of a teacher view.
const TeacherLabelPrefix = "Teacher: "

// CanonicalDays are the day axis of every teacher view.
var CanonicalDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// CanonicalTimeslots are the timeslot axis of every teacher view.
var CanonicalTimeslots = []string{
	"Period 1", "Period 2", "Period 3", "Period 4",
	"Period 5", "Period 6", "Period 7", "Period 8",
}

// ProjectTeacher builds a synthetic schedule holding every lesson taught by the named
// teacher, each subject annotated with the lesson's origin group. The collection is
// not modified and a new schedule is returned on every call.
func ProjectTeacher(c Collection, teacher string) Schedule {
	origin := make(map[LessonID]string)
	for _, s := range c {
		for _, l := range s.ScheduledLessons {
			if _, seen := origin[l.ID]; !seen {
				origin[l.ID] = s.StudentGroupName
			}
		}
	}

	lessons := []Lesson{}
	for _, s := range c {
		for _, l := range s.ScheduledLessons {
			if l.Teacher != teacher {
				continue
			}
			group, ok := origin[l.ID]
			if !ok {
				group = UnknownGroup
			}
			projected := l.clone()
			projected.Subject = l.Subject + " (" + group + ")"
			lessons = append(lessons, projected)
		}
	}

	return Schedule{
		StudentGroupName: TeacherLabelPrefix + teacher,
		Days:             append([]string{}, CanonicalDays...),
		Timeslots:        append([]string{}, CanonicalTimeslots...),
		ScheduledLessons: lessons,
	}
}

// Roster returns the distinct teacher names in the collection, sorted.
func Roster(c Collection) []string {
	seen := make(map[string]bool)
	var names []string
	for _, s := range c {
		for _, l := range s.ScheduledLessons {
			if l.Teacher == "" || seen[l.Teacher] {
				continue
			}
			seen[l.Teacher] = true
			names = append(names, l.Teacher)
		}
	}
	sort.Strings(names)
	return names
}

// ExportFilename derives the download name for a schedule: the group name with
// whitespace and colons removed and path separators turned into dashes, suffixed
// ".xlsx". The result never names a directory.
func ExportFilename(s Schedule) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r == ':' || unicode.IsSpace(r):
			return -1
		case r == '/' || r == '\\':
			return '-'
		}
		return r
	}, s.StudentGroupName)
	if name == "" {
		name = "timetable"
	}
	return name + ".xlsx"
}
