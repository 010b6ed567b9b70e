// Package solver talks to the remote timetable service that generates schedule
// collections, judges proposed moves, and renders schedules as workbooks.
package solver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/javiermolinar/horario/internal/timetable"
)

// Client is the contract the editor relies on.
type Client interface {
	// Generate asks the service for a fresh schedule collection.
	Generate(ctx context.Context) (timetable.Collection, error)

	// ValidateMove submits a full proposed timetable for a legality check.
	ValidateMove(ctx context.Context, req ValidateMoveRequest) (ValidateMoveResponse, error)

	// Export renders one schedule as an opaque document.
	Export(ctx context.Context, s timetable.Schedule) ([]byte, error)
}

// ValidateMoveRequest is the body of POST /validate-move/.
type ValidateMoveRequest struct {
	AllSchedules  timetable.Collection `json:"all_schedules"`
	MovedLessonID timetable.LessonID   `json:"moved_lesson_id"`
	NewDay        string               `json:"new_day"`
	NewTimeslot   string               `json:"new_timeslot"`
}

// MarshalJSON sends the moved id in the same JSON kind the solver used for that
// lesson, so a numeric id goes back as a number.
func (r ValidateMoveRequest) MarshalJSON() ([]byte, error) {
	id, err := json.Marshal(r.MovedLessonID)
	if err != nil {
		return nil, err
	}
	if _, l, ok := r.AllSchedules.Locate(r.MovedLessonID); ok {
		if id, err = l.EncodedID(); err != nil {
			return nil, err
		}
	}
	return json.Marshal(struct {
		AllSchedules  timetable.Collection `json:"all_schedules"`
		MovedLessonID json.RawMessage      `json:"moved_lesson_id"`
		NewDay        string               `json:"new_day"`
		NewTimeslot   string               `json:"new_timeslot"`
	}{
		AllSchedules:  r.AllSchedules,
		MovedLessonID: id,
		NewDay:        r.NewDay,
		NewTimeslot:   r.NewTimeslot,
	})
}

// ValidateMoveResponse is the validator's verdict.
type ValidateMoveResponse struct {
	Valid               bool               `json:"valid"`
	Reason              string             `json:"reason,omitempty"`
	ConflictingLessonID timetable.LessonID `json:"conflicting_lesson_id,omitempty"`
}

type generateResponse struct {
	Schedules *timetable.Collection `json:"schedules"`
	Message   string                `json:"message"`
}

type exportRequest struct {
	Schedule timetable.Schedule `json:"schedule"`
}

// ErrEmptyBaseURL is returned when the client has nowhere to send requests.
var ErrEmptyBaseURL = errors.New("solver base URL is empty")

// GenerationError reports a generation run that finished without schedules.
type GenerationError struct {
	Message string
}

func (e *GenerationError) Error() string {
	if e.Message == "" {
		return "generation returned no schedules"
	}
	return "generation failed: " + e.Message
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Endpoint, e.Code)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Endpoint, e.Code, e.Body)
}
