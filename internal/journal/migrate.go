package journal

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the latest schema version supported by the migrator.
const SchemaVersion = 1

func migrate(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("migrate: db is nil")
	}

	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY);`)
	if err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}

	var current int
	err = db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations;`).Scan(&current)
	if err != nil {
		return fmt.Errorf("migrate: read current version: %w", err)
	}
	if current >= SchemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migrate: begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS nudges (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			trigger_tag TEXT NOT NULL,
			message TEXT NOT NULL,
			at TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("migrate: create nudges table: %w", err)
	}

	_, err = tx.Exec(`
		CREATE TABLE IF NOT EXISTS mood_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mood_label TEXT NOT NULL,
			momentum REAL NOT NULL,
			stability REAL NOT NULL,
			confidence REAL NOT NULL,
			at TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("migrate: create mood_history table: %w", err)
	}

	_, err = tx.Exec(`CREATE INDEX IF NOT EXISTS idx_nudges_at ON nudges(at);`)
	if err != nil {
		return fmt.Errorf("migrate: create idx_nudges_at: %w", err)
	}

	_, err = tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?);`, SchemaVersion)
	if err != nil {
		return fmt.Errorf("migrate: record version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate: commit: %w", err)
	}
	return nil
}
