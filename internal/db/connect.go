package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:naijaprep.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/naijaprep?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL,
  password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS mock_tests (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  exam_type TEXT NOT NULL,
  status TEXT NOT NULL,
  subjects_json TEXT NOT NULL,
  exam_id TEXT UNIQUE,
  current_subject TEXT NOT NULL DEFAULT '',
  completed_json TEXT NOT NULL,
  responses_json TEXT NOT NULL,
  score INTEGER NOT NULL DEFAULT 0,
  total_questions INTEGER NOT NULL DEFAULT 0,
  performance_json TEXT NOT NULL,
  violations_json TEXT NOT NULL,
  unlocks_json TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  submitted_at INTEGER
);

CREATE INDEX IF NOT EXISTS idx_mock_tests_active
  ON mock_tests (user_id, exam_type, status);

CREATE TABLE IF NOT EXISTS attempt_records (
  user_id TEXT NOT NULL,
  exam_type TEXT NOT NULL,
  last_attempt_at INTEGER,
  last_subjects_json TEXT NOT NULL,
  subjects_changed_at INTEGER,
  PRIMARY KEY (user_id, exam_type)
);

CREATE TABLE IF NOT EXISTS questions (
  id TEXT PRIMARY KEY,
  exam_type TEXT NOT NULL,
  subject TEXT NOT NULL,
  prompt TEXT NOT NULL,
  choices_json TEXT NOT NULL,
  correct_answer TEXT NOT NULL,
  active INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_questions_subject
  ON questions (exam_type, subject);

CREATE TABLE IF NOT EXISTS event_log (
  event_offset INTEGER PRIMARY KEY AUTOINCREMENT, -- BIGSERIAL in Postgres
  site_id TEXT NOT NULL DEFAULT 'local',
  typ TEXT NOT NULL,                              -- e.g., AttemptSubmitted
  key TEXT NOT NULL,                              -- natural key: session ID
  data TEXT NOT NULL,                             -- JSON payload
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL,
  password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS mock_tests (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  exam_type TEXT NOT NULL,
  status TEXT NOT NULL,
  subjects_json TEXT NOT NULL,
  exam_id TEXT UNIQUE,
  current_subject TEXT NOT NULL DEFAULT '',
  completed_json TEXT NOT NULL,
  responses_json TEXT NOT NULL,
  score INTEGER NOT NULL DEFAULT 0,
  total_questions INTEGER NOT NULL DEFAULT 0,
  performance_json TEXT NOT NULL,
  violations_json TEXT NOT NULL,
  unlocks_json TEXT NOT NULL,
  created_at BIGINT NOT NULL,
  submitted_at BIGINT
);

CREATE INDEX IF NOT EXISTS idx_mock_tests_active
  ON mock_tests (user_id, exam_type, status);

CREATE TABLE IF NOT EXISTS attempt_records (
  user_id TEXT NOT NULL,
  exam_type TEXT NOT NULL,
  last_attempt_at BIGINT,
  last_subjects_json TEXT NOT NULL,
  subjects_changed_at BIGINT,
  PRIMARY KEY (user_id, exam_type)
);

CREATE TABLE IF NOT EXISTS questions (
  id TEXT PRIMARY KEY,
  exam_type TEXT NOT NULL,
  subject TEXT NOT NULL,
  prompt TEXT NOT NULL,
  choices_json TEXT NOT NULL,
  correct_answer TEXT NOT NULL,
  active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE INDEX IF NOT EXISTS idx_questions_subject
  ON questions (exam_type, subject);

CREATE TABLE IF NOT EXISTS event_log (
  event_offset BIGSERIAL PRIMARY KEY,
  site_id TEXT NOT NULL DEFAULT 'local',
  typ TEXT NOT NULL,
  key TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`
