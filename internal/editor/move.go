package editor

import (
	"errors"

	"github.com/javiermolinar/horario/internal/solver"
	"github.com/javiermolinar/horario/internal/timetable"
)

// Move errors.
var (
	ErrMoveInTeacherView   = errors.New("lessons can only be moved in class view")
	ErrNoSchedule          = errors.New("no schedule selected")
	ErrLessonNotInSchedule = errors.New("lesson is not in the selected schedule")
	ErrUnknownCell         = errors.New("target cell is not on the schedule grid")
)

// InvalidMovePrefix starts every rejection alert.
const InvalidMovePrefix = "Invalid Move: "

// DragCompleted is a drop of a lesson onto a grid cell.
type DragCompleted struct {
	LessonID timetable.LessonID
	Target   timetable.Cell
}

// PendingMove is an optimistically applied move awaiting its verdict.
type PendingMove struct {
	Seq           uint64
	Generation    uint64
	ScheduleIndex int
	Group         string
	LessonID      timetable.LessonID
	From          timetable.Cell
	To            timetable.Cell
	Proposed      timetable.Collection
}

// Request builds the validation payload carrying the full proposed timetable.
func (p PendingMove) Request() solver.ValidateMoveRequest {
	return solver.ValidateMoveRequest{
		AllSchedules:  p.Proposed,
		MovedLessonID: p.LessonID,
		NewDay:        p.To.Day,
		NewTimeslot:   p.To.Timeslot,
	}
}

// Outcome classifies how a pending move resolved.
type Outcome int

// Move outcomes.
const (
	OutcomeCommitted Outcome = iota
	OutcomeRejected
	OutcomeFailed
	OutcomeStale
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	case OutcomeStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Resolution reports what Resolve did.
type Resolution struct {
	Outcome Outcome
	// Alert is the message to show the user, empty when nothing needs saying.
	Alert string
	// ConflictToken is non-zero when a conflict marker was set and needs an expiry.
	ConflictToken uint64
}

// moveChain tracks consecutive unresolved moves. The snapshot is taken before the
// first of them; only the newest move's verdict can resolve the chain.
type moveChain struct {
	open     bool
	snapshot timetable.Collection
	latest   uint64
}

// Drop applies a move optimistically. It returns a nil PendingMove when the drop is a
// no-op, in which case no validation must be requested.
func (e Editor) Drop(d DragCompleted) (Editor, *PendingMove, error) {
	if e.selector.Mode != ModeClass {
		return e, nil, ErrMoveInTeacherView
	}
	idx := e.selector.Index
	current := e.store.Collection()
	if idx < 0 || idx >= len(current) {
		return e, nil, ErrNoSchedule
	}
	schedule := current[idx]
	lesson, ok := schedule.Lesson(d.LessonID)
	if !ok {
		return e, nil, ErrLessonNotInSchedule
	}
	if !schedule.HasCell(d.Target) {
		return e, nil, ErrUnknownCell
	}
	if lesson.Cell() == d.Target {
		return e, nil, nil
	}

	if !e.chain.open {
		e.chain = moveChain{open: true, snapshot: current.Clone()}
	}
	e.seq++
	e.chain.latest = e.seq

	proposed := timetable.MutatePlacement(current, idx, d.LessonID, d.Target)
	e.store = e.store.install(proposed)

	return e, &PendingMove{
		Seq:           e.seq,
		Generation:    e.store.Generation(),
		ScheduleIndex: idx,
		Group:         schedule.StudentGroupName,
		LessonID:      d.LessonID,
		From:          lesson.Cell(),
		To:            d.Target,
		Proposed:      proposed,
	}, nil
}

// Resolve applies the validator's verdict, or the transport error, for a pending move.
// Verdicts for superseded moves or earlier generations are discarded.
func (e Editor) Resolve(p PendingMove, verdict solver.ValidateMoveResponse, err error) (Editor, Resolution) {
	if !e.chain.open || p.Generation != e.store.Generation() || p.Seq != e.chain.latest {
		return e, Resolution{Outcome: OutcomeStale}
	}

	snapshot := e.chain.snapshot
	e.chain = moveChain{}

	if err != nil {
		e.store = e.store.install(snapshot)
		return e, Resolution{Outcome: OutcomeFailed, Alert: NoticeValidateFailed}
	}
	if verdict.Valid {
		return e, Resolution{Outcome: OutcomeCommitted}
	}

	e.store = e.store.install(snapshot)
	res := Resolution{Outcome: OutcomeRejected, Alert: InvalidMovePrefix + verdict.Reason}
	if verdict.ConflictingLessonID != "" {
		e, res.ConflictToken = e.SetConflict(verdict.ConflictingLessonID)
	}
	return e, res
}
