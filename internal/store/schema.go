package store

import "github.com/jmoiron/sqlx"

// Timestamps are stored as RFC 3339 text so the database file stays
// readable with any SQLite client.
const schema = `
CREATE TABLE IF NOT EXISTS students (
	id          TEXT PRIMARY KEY,
	first_name  TEXT NOT NULL,
	last_name   TEXT NOT NULL,
	lrn         TEXT NOT NULL DEFAULT '',
	grade_level INTEGER NOT NULL,
	section     TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS assessments (
	id           TEXT PRIMARY KEY,
	student_id   TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
	stage        TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL,
	completed_at TEXT,
	final_level  TEXT NOT NULL DEFAULT '',
	languages    TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_assessments_student ON assessments(student_id);

CREATE TABLE IF NOT EXISTS gst_results (
	id                  TEXT PRIMARY KEY,
	assessment_id       TEXT NOT NULL REFERENCES assessments(id) ON DELETE CASCADE,
	language            TEXT NOT NULL,
	answers             TEXT NOT NULL,
	score               INTEGER NOT NULL,
	total_items         INTEGER NOT NULL,
	triggers_individual INTEGER NOT NULL,
	submitted_at        TEXT NOT NULL,
	UNIQUE (assessment_id, language)
);

CREATE TABLE IF NOT EXISTS passage_results (
	id                    TEXT PRIMARY KEY,
	assessment_id         TEXT NOT NULL REFERENCES assessments(id) ON DELETE CASCADE,
	passage_id            TEXT NOT NULL,
	language              TEXT NOT NULL,
	grade_level           INTEGER NOT NULL,
	passage_set           TEXT NOT NULL,
	total_words           INTEGER NOT NULL,
	reading_time_ms       INTEGER NOT NULL,
	wpm                   INTEGER NOT NULL,
	miscues               TEXT NOT NULL,
	miscue_count          INTEGER NOT NULL,
	word_accuracy_pct     REAL NOT NULL,
	comprehension_answers TEXT NOT NULL,
	correct_comp_count    INTEGER NOT NULL,
	total_questions       INTEGER NOT NULL,
	comprehension_pct     REAL NOT NULL,
	reading_level         TEXT NOT NULL,
	word_accuracy_level   TEXT NOT NULL,
	comprehension_level   TEXT NOT NULL,
	completed_at          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_passage_results_assessment ON passage_results(assessment_id);

CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

func initSchema(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	return err
}
