package db

import (
	"database/sql"
	"fmt"
)

// All contains the ordered list of migrations to apply.
var All = []string{
	`CREATE TABLE files (
		id         INTEGER PRIMARY KEY,
		file_path  TEXT UNIQUE NOT NULL,
		feature    TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT (datetime('now')),
		updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE TABLE scenarios (
		id         INTEGER PRIMARY KEY,
		file_id    INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		outline    INTEGER NOT NULL DEFAULT 0,
		line       INTEGER NOT NULL,
		position   INTEGER NOT NULL,
		created_at DATETIME NOT NULL DEFAULT (datetime('now')),
		updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE TABLE scenario_tags (
		scenario_id INTEGER NOT NULL REFERENCES scenarios(id) ON DELETE CASCADE,
		tag         TEXT NOT NULL,
		position    INTEGER NOT NULL,
		PRIMARY KEY (scenario_id, tag)
	)`,
	`CREATE INDEX idx_scenario_tags_tag ON scenario_tags(tag)`,
}

// Migrate brings db up to the latest schema version. Each migration runs in
// its own transaction together with the version bump.
func Migrate(db *sql.DB) error {
	current, err := schemaVersion(db)
	if err != nil {
		return err
	}
	for v := current; v < len(All); v++ {
		if err := apply(db, v+1, All[v]); err != nil {
			return err
		}
	}
	return nil
}

func schemaVersion(db *sql.DB) (int, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return 0, fmt.Errorf("creating schema_version table: %w", err)
	}

	var version int
	err := db.QueryRow(`SELECT version FROM schema_version`).Scan(&version)
	if err == sql.ErrNoRows {
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return 0, fmt.Errorf("initializing schema version: %w", err)
		}
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

func apply(db *sql.DB, version int, stmt string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning migration %d: %w", version, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(stmt); err != nil {
		return fmt.Errorf("migration %d failed: %w", version, err)
	}
	if _, err := tx.Exec(`UPDATE schema_version SET version = ?`, version); err != nil {
		return fmt.Errorf("updating schema version to %d: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %d: %w", version, err)
	}
	return nil
}
