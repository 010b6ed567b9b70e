package editor

import (
	"time"

	"github.com/javiermolinar/horario/internal/timetable"
)

// ConflictHighlightDelay is how long a conflict marker stays visible.
const ConflictHighlightDelay = 3 * time.Second

// ConflictMarker points at the lesson that blocked the last rejected move.
// Token identifies the timer allowed to clear it.
type ConflictMarker struct {
	LessonID timetable.LessonID
	Token    uint64
}

// Active reports whether a lesson is highlighted.
func (m ConflictMarker) Active() bool {
	return m.LessonID != ""
}

// Conflict returns the current marker.
func (e Editor) Conflict() ConflictMarker {
	return e.conflict
}

// SetConflict highlights a lesson and returns the token its expiry must present.
func (e Editor) SetConflict(id timetable.LessonID) (Editor, uint64) {
	e.tokens++
	e.conflict = ConflictMarker{LessonID: id, Token: e.tokens}
	return e, e.tokens
}

// ClearConflict expires the marker if token still owns it. Expiries from earlier
// markers are ignored so they cannot cut a newer highlight short.
func (e Editor) ClearConflict(token uint64) Editor {
	if e.conflict.Token != token {
		return e
	}
	e.conflict = ConflictMarker{}
	return e
}
