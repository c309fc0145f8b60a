// Package store persists all Phil-IRI records in a local SQLite file. The
// rest of the system only sees the per-entity repository interfaces
// declared next to their record types; nothing outside this package
// depends on the storage technology.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/nbwedev/phil-iri/internal/assessment"
	"github.com/nbwedev/phil-iri/internal/gst"
	"github.com/nbwedev/phil-iri/internal/passage"
	"github.com/nbwedev/phil-iri/internal/roster"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the database handle and hands out repositories.
type Store struct {
	db  *sqlx.DB
	log *zap.Logger
}

// Open connects to the SQLite database at dsn, applies the recommended
// pragmas, and creates any missing tables.
func Open(dsn string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single-user tool; one writer keeps SQLite happy.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// DB returns the underlying handle for raw queries.
func (s *Store) DB() *sqlx.DB { return s.db }

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// Students returns the student repository.
func (s *Store) Students() roster.Repository {
	return &studentRepo{db: s.db, log: s.log}
}

// Assessments returns the assessment repository.
func (s *Store) Assessments() assessment.Repository {
	return &assessmentRepo{db: s.db, log: s.log}
}

// GSTResults returns the GST result repository.
func (s *Store) GSTResults() gst.Repository {
	return &gstResultRepo{db: s.db, log: s.log}
}

// PassageResults returns the passage result repository.
func (s *Store) PassageResults() passage.Repository {
	return &passageResultRepo{db: s.db, log: s.log}
}

// applyPragmas configures SQLite for single-user local use.
func applyPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. PHILIRI_DB environment variable
// 2. $XDG_DATA_HOME/philiri/philiri.db
// 3. ~/.local/share/philiri/philiri.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("PHILIRI_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "philiri", "philiri.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
