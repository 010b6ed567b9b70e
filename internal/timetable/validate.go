package timetable

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrIncompleteSchedule is returned when a schedule lacks fields the grid needs.
var ErrIncompleteSchedule = errors.New("timetable data is incomplete")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks that the schedule carries a group name, both axes, and a lesson list
// whose entries have an id and a placement.
func (s Schedule) Validate() error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Namespace())
		}
		return fmt.Errorf("%w: %s", ErrIncompleteSchedule, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", ErrIncompleteSchedule, err)
}

// Validate checks every schedule in the collection.
func (c Collection) Validate() error {
	for i, s := range c {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("schedule %d: %w", i, err)
		}
	}
	return nil
}
