package editor

import (
	"errors"

	"github.com/javiermolinar/horario/internal/solver"
	"github.com/javiermolinar/horario/internal/timetable"
)

// User-facing notices.
const (
	NoticeUnknownGenerateError = "An unknown error occurred."
	NoticeGenerateFailed       = "Failed to generate timetable."
	NoticeNothingToExport      = "Please generate a timetable and select a schedule to export."
	NoticeExportFailed         = "Failed to export timetable. Please try again."
	NoticeValidateFailed       = "An error occurred while validating the move. Reverting."
)

// ErrNothingToExport is returned by ExportTarget when no schedule is displayed.
var ErrNothingToExport = errors.New(NoticeNothingToExport)

// Editor is the whole editing state. The zero value is an empty class view.
type Editor struct {
	store    Store
	selector Selector
	conflict ConflictMarker
	chain    moveChain

	seq    uint64
	tokens uint64

	loading bool
	err     string
}

// New returns an empty editor.
func New() Editor {
	return Editor{}
}

// Store returns the schedule store.
func (e Editor) Store() Store {
	return e.store
}

// Selector returns the view selector.
func (e Editor) Selector() Selector {
	return e.selector
}

// Displayed returns the schedule currently shown.
func (e Editor) Displayed() (timetable.Schedule, bool) {
	return e.selector.Displayed(e.store)
}

// Loading reports whether a generation run is in flight.
func (e Editor) Loading() bool {
	return e.loading
}

// Err returns the last generation error message.
func (e Editor) Err() string {
	return e.err
}

// InFlight reports whether an optimistic move is awaiting its verdict.
func (e Editor) InFlight() bool {
	return e.chain.open
}

// SwitchMode changes the view mode.
func (e Editor) SwitchMode(m Mode) Editor {
	e.selector = e.selector.SwitchMode(m)
	return e
}

// ToggleMode flips between class and teacher view.
func (e Editor) ToggleMode() Editor {
	e.selector = e.selector.Toggle()
	return e
}

// Select picks an index within the current mode.
func (e Editor) Select(index int) Editor {
	e.selector = e.selector.Select(index)
	return e
}

// Next moves to the next schedule or teacher.
func (e Editor) Next() Editor {
	e.selector = e.selector.Next(e.selector.Count(e.store))
	return e
}

// Prev moves to the previous schedule or teacher.
func (e Editor) Prev() Editor {
	e.selector = e.selector.Prev(e.selector.Count(e.store))
	return e
}

// BeginGenerate clears the store and marks a generation run in flight. Verdicts for
// moves issued before this point become stale.
func (e Editor) BeginGenerate() Editor {
	e.loading = true
	e.err = ""
	e.store = e.store.Clear()
	e.chain = moveChain{}
	return e
}

// Generated installs a fresh collection and selects its first entry.
func (e Editor) Generated(c timetable.Collection) Editor {
	e.loading = false
	e.err = ""
	e.store = e.store.ReplaceAll(c)
	e.selector = e.selector.Select(0)
	e.chain = moveChain{}
	return e
}

// GenerateFailed records a failed run. Business failures show the service's message;
// anything else shows a generic notice.
func (e Editor) GenerateFailed(err error) Editor {
	e.loading = false
	var genErr *solver.GenerationError
	switch {
	case errors.As(err, &genErr) && genErr.Message != "":
		e.err = genErr.Message
	case errors.As(err, &genErr):
		e.err = NoticeUnknownGenerateError
	default:
		e.err = NoticeGenerateFailed
	}
	return e
}

// ExportTarget returns the displayed schedule, or ErrNothingToExport.
func (e Editor) ExportTarget() (timetable.Schedule, error) {
	s, ok := e.Displayed()
	if !ok {
		return timetable.Schedule{}, ErrNothingToExport
	}
	return s, nil
}
