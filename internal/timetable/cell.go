package timetable

import (
	"errors"
	"fmt"
	"strings"
)

// CellSeparator joins day and timeslot in a cell identifier.
const CellSeparator = "-"

// Cell errors.
var (
	ErrInvalidCellID   = errors.New("cell id must have the form <day>-<timeslot>")
	ErrAmbiguousCellID = errors.New("cell id is ambiguous: day or timeslot contains the separator")
)

// Cell is a structured (day, timeslot) grid address.
type Cell struct {
	Day      string
	Timeslot string
}

// ID returns the wire form "<day>-<timeslot>".
func (c Cell) ID() string {
	return c.Day + CellSeparator + c.Timeslot
}

// String implements fmt.Stringer.
func (c Cell) String() string {
	return c.Day + " " + c.Timeslot
}

// IsZero reports whether the cell is unset.
func (c Cell) IsZero() bool {
	return c.Day == "" && c.Timeslot == ""
}

// ParseCellID decodes a "<day>-<timeslot>" identifier. Identifiers with more than one
// separator cannot be split reliably and are rejected.
func ParseCellID(id string) (Cell, error) {
	parts := strings.Split(id, CellSeparator)
	switch {
	case len(parts) < 2:
		return Cell{}, fmt.Errorf("%w: %q", ErrInvalidCellID, id)
	case len(parts) > 2:
		return Cell{}, fmt.Errorf("%w: %q", ErrAmbiguousCellID, id)
	}
	if parts[0] == "" || parts[1] == "" {
		return Cell{}, fmt.Errorf("%w: %q", ErrInvalidCellID, id)
	}
	return Cell{Day: parts[0], Timeslot: parts[1]}, nil
}

// SafeLabel reports whether a day or timeslot label can appear in a cell id.
func SafeLabel(label string) bool {
	return label != "" && !strings.Contains(label, CellSeparator)
}
