// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines the Profiles and Records tables and their foreign key.
package storage

import (
	"database/sql"

	"go.uber.org/zap"
)

// schemaStatements is the persisted layout. Table and column names are a
// compatibility contract with existing database files.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS Profiles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		age INTEGER NULL,
		gender TEXT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS Records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		profile_id INTEGER NOT NULL REFERENCES Profiles(id),
		systolic INTEGER,
		diastolic INTEGER,
		pulse INTEGER,
		weight REAL,
		measured_at TEXT,
		position TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_records_profile_measured ON Records(profile_id, measured_at DESC, id DESC)`,
}

// Initialize creates the schema if it does not exist. It is idempotent and
// runs in a single transaction, so a failure never leaves half the tables.
func (d *DB) Initialize() error {
	return d.withTx("initialize schema", func(tx *sql.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := tx.Exec(stmt); err != nil {
				return err
			}
		}
		d.log.Debug("schema initialized", zap.Int("statements", len(schemaStatements)))
		return nil
	})
}
