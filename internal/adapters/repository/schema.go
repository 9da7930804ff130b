package repository

import "github.com/jmoiron/sqlx"

// Migrate creates the diary tables when they are missing. The schema is
// the generic tuple form: one row per (group, date, category, field)
// write, with free-text notes split into their own table.
func Migrate(db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS observations (
		id          UUID PRIMARY KEY,
		group_id    TEXT NOT NULL,
		occurred_on TEXT NOT NULL,
		category    TEXT NOT NULL,
		field       TEXT NOT NULL,
		value       TEXT NOT NULL DEFAULT '',
		author      TEXT NOT NULL DEFAULT '',
		recorded_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_observations_group_date
		ON observations (group_id, occurred_on, recorded_at);

	CREATE TABLE IF NOT EXISTS notes (
		id          UUID PRIMARY KEY,
		group_id    TEXT NOT NULL,
		occurred_on TEXT NOT NULL,
		text        TEXT NOT NULL,
		author      TEXT NOT NULL DEFAULT '',
		recorded_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_notes_group_date
		ON notes (group_id, occurred_on, recorded_at);
	`

	_, err := db.Exec(schema)
	return err
}
