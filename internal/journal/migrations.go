package journal

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS moves (
			id                    INTEGER PRIMARY KEY AUTOINCREMENT,
			ref                   TEXT NOT NULL,
			seq                   INTEGER NOT NULL,
			group_name            TEXT NOT NULL,
			lesson_id             TEXT NOT NULL,
			from_day              TEXT NOT NULL,
			from_timeslot         TEXT NOT NULL,
			to_day                TEXT NOT NULL,
			to_timeslot           TEXT NOT NULL,
			outcome               TEXT NOT NULL CHECK(outcome IN ('committed', 'rejected', 'failed', 'stale')),
			reason                TEXT,
			conflicting_lesson_id TEXT,
			created_at            DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_moves_created ON moves(created_at);
		CREATE INDEX IF NOT EXISTS idx_moves_outcome ON moves(outcome);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating moves table: %w", err)
	}

	return nil
}
