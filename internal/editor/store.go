// Package editor holds the interactive editing state: the schedule store, the view
// selector, the optimistic move protocol, and the conflict highlight.
//
// Every type here is a value. Transitions return a new value and never touch the
// receiver, so the TUI can treat the editor as plain model state.
package editor

import "github.com/javiermolinar/horario/internal/timetable"

// Store holds the schedule collection produced by the last generation run.
type Store struct {
	collection timetable.Collection
	roster     []string
	generation uint64
}

// Collection returns the current collection. Callers must not modify it.
func (s Store) Collection() timetable.Collection {
	return s.collection
}

// Roster returns the teacher names derived when the collection was installed.
func (s Store) Roster() []string {
	return s.roster
}

// Generation counts wholesale replacements. Moves issued under an older generation
// are stale.
func (s Store) Generation() uint64 {
	return s.generation
}

// Len returns the number of schedules.
func (s Store) Len() int {
	return len(s.collection)
}

// Empty reports whether there is nothing to show.
func (s Store) Empty() bool {
	return len(s.collection) == 0
}

// ReplaceAll installs a new collection and derives its teacher roster.
func (s Store) ReplaceAll(c timetable.Collection) Store {
	return Store{
		collection: c,
		roster:     timetable.Roster(c),
		generation: s.generation + 1,
	}
}

// Clear drops the collection and roster.
func (s Store) Clear() Store {
	return Store{generation: s.generation + 1}
}

// install swaps the collection without touching roster or generation. Moves and
// rollbacks go through here.
func (s Store) install(c timetable.Collection) Store {
	s.collection = c
	return s
}
