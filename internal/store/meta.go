package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const appVersionKey = "app_version"

// AppVersion returns the version stamped into the database, or "" when
// the file predates version stamping.
func (s *Store) AppVersion(ctx context.Context) (string, error) {
	var v string
	err := s.db.GetContext(ctx, &v, `SELECT value FROM meta WHERE key = ?`, appVersionKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read app version: %w", err)
	}
	return v, nil
}

// StampAppVersion records the running application version so future
// releases can detect older data files. Returns the previously stamped
// version ("" on a fresh database).
func (s *Store) StampAppVersion(ctx context.Context, version string) (string, error) {
	prev, err := s.AppVersion(ctx)
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		appVersionKey, version)
	if err != nil {
		return "", fmt.Errorf("stamp app version: %w", err)
	}
	if prev != "" && prev != version {
		s.log.Info("database version updated",
			zap.String("from", prev), zap.String("to", version))
	}
	return prev, nil
}

// Reset deletes every Phil-IRI record while keeping the database file
// and schema in place.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"gst_results", "passage_results", "assessments", "students", "meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	s.log.Info("database reset")
	return nil
}
