package commands

import (
	"github.com/pkg/errors"

	"oza-attendance/backend/internal/pkg/repository/postgresql"
)

type Scheme struct {
	Index       int
	Description string
	Query       string
}

var scheme = []Scheme{
	{
		Index:       1,
		Description: "Create table: attendance_log.",
		Query: `
        CREATE TABLE IF NOT EXISTS attendance_log (
            id serial PRIMARY KEY,
            log_date text NOT NULL,
            log_day text NOT NULL,
            teacher_id text NOT NULL,
            start_time text NOT NULL DEFAULT '',
            end_time text NOT NULL DEFAULT '',
            campus_id text NOT NULL DEFAULT '',
            campus_name text NOT NULL DEFAULT '',
            category text NOT NULL DEFAULT '',
            teacher_name text NOT NULL DEFAULT '',
            student_count int NOT NULL DEFAULT 0,
            source text NOT NULL DEFAULT 'manual'
        );`,
	},
	{
		Index:       2,
		Description: "Index the bulk dedup key.",
		Query: `
        CREATE INDEX IF NOT EXISTS attendance_log_slot_idx
            ON attendance_log (log_day, teacher_id, start_time);`,
	},
	{
		Index:       3,
		Description: "Create table: campus.",
		Query: `
        CREATE TABLE IF NOT EXISTS campus (
            campus_id text PRIMARY KEY,
            name text NOT NULL
        );`,
	},
}

// Migrate creates the scheme in the database. Every statement is written to
// be re-runnable.
func Migrate(db *postgresql.Database) error {
	for _, s := range scheme {
		if _, err := db.Exec(s.Query); err != nil {
			return errors.Wrapf(err, "migrate %d: %s", s.Index, s.Description)
		}
	}

	return nil
}
