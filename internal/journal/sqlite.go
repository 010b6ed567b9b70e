package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/horario/internal/timetable"
)

// SQLite implements Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

// New opens (creating if needed) the journal database and runs migrations.
func New(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Record appends an entry.
func (s *SQLite) Record(ctx context.Context, e *Entry) error {
	if !validOutcome(e.Outcome) {
		return fmt.Errorf("%w: %q", ErrInvalidOutcome, e.Outcome)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO moves (
			ref, seq, group_name, lesson_id, from_day, from_timeslot, to_day, to_timeslot,
			outcome, reason, conflicting_lesson_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		e.Ref,
		int64(e.Seq),
		e.Group,
		string(e.LessonID),
		e.From.Day,
		e.From.Timeslot,
		e.To.Day,
		e.To.Timeslot,
		e.Outcome,
		nullString(e.Reason),
		nullString(string(e.ConflictingLessonID)),
		e.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting move: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	e.ID = id

	return nil
}

// Recent returns up to limit entries, newest first. A non-positive limit returns all.
func (s *SQLite) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	query := `
		SELECT id, ref, seq, group_name, lesson_id, from_day, from_timeslot, to_day, to_timeslot,
		       outcome, reason, conflicting_lesson_id, created_at
		FROM moves
		ORDER BY id DESC
		LIMIT ?
	`
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying moves: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*Entry
	for rows.Next() {
		var (
			e           Entry
			seq         int64
			lessonID    string
			reason      sql.NullString
			conflicting sql.NullString
			createdAt   string
		)

		err := rows.Scan(
			&e.ID,
			&e.Ref,
			&seq,
			&e.Group,
			&lessonID,
			&e.From.Day,
			&e.From.Timeslot,
			&e.To.Day,
			&e.To.Timeslot,
			&e.Outcome,
			&reason,
			&conflicting,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning move: %w", err)
		}

		e.Seq = uint64(seq)
		e.LessonID = timetable.LessonID(lessonID)
		e.Reason = reason.String
		e.ConflictingLessonID = timetable.LessonID(conflicting.String)
		e.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created at: %w", err)
		}

		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating moves: %w", err)
	}

	return entries, nil
}

// CountByOutcome returns how many entries each outcome has.
func (s *SQLite) CountByOutcome(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM moves GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("counting moves: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			outcome string
			n       int
		)
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[outcome] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating counts: %w", err)
	}
	return counts, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
