// Package journal keeps an audit trail of move attempts.
package journal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/javiermolinar/horario/internal/timetable"
)

// Outcome values recorded for a move.
const (
	OutcomeCommitted = "committed"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
	OutcomeStale     = "stale"
)

// ErrInvalidOutcome is returned when an entry carries an unknown outcome.
var ErrInvalidOutcome = errors.New("invalid move outcome")

// Entry is one resolved move attempt.
type Entry struct {
	ID                  int64
	Ref                 string // correlation id, also logged
	Seq                 uint64
	Group               string
	LessonID            timetable.LessonID
	From                timetable.Cell
	To                  timetable.Cell
	Outcome             string
	Reason              string
	ConflictingLessonID timetable.LessonID
	CreatedAt           time.Time
}

// NewEntry fills in the correlation id and timestamp.
func NewEntry(seq uint64, group string, id timetable.LessonID, from, to timetable.Cell, outcome string) *Entry {
	return &Entry{
		Ref:       uuid.NewString(),
		Seq:       seq,
		Group:     group,
		LessonID:  id,
		From:      from,
		To:        to,
		Outcome:   outcome,
		CreatedAt: time.Now(),
	}
}

func validOutcome(o string) bool {
	switch o {
	case OutcomeCommitted, OutcomeRejected, OutcomeFailed, OutcomeStale:
		return true
	}
	return false
}

// Repository stores move entries. Entries are never read back into the editor.
type Repository interface {
	// Record appends an entry and sets its ID.
	Record(ctx context.Context, e *Entry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]*Entry, error)

	// CountByOutcome returns how many entries each outcome has.
	CountByOutcome(ctx context.Context) (map[string]int, error)

	// Close releases any resources held by the repository.
	Close() error
}
