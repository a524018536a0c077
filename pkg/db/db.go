// Package db pkg/db/db.go provides SQLite persistence for the command log, the
// node directory and user preferences.
package db

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	// SQL statements for database initialization.
	createTablesSQL = `
	-- Command history
	CREATE TABLE IF NOT EXISTS command_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sender_id TEXT NOT NULL,
		base_command TEXT NOT NULL,
		sub_commands TEXT,
		args TEXT,
		handler TEXT NOT NULL,
		timestamp TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS unknown_requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sender_id TEXT NOT NULL,
		message TEXT NOT NULL,
		timestamp TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS responder_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sender_id TEXT NOT NULL,
		message TEXT NOT NULL,
		responder TEXT NOT NULL,
		timestamp TIMESTAMP NOT NULL
	);

	-- Node identities, in first-seen order by rowid
	CREATE TABLE IF NOT EXISTS nodes (
		node_id TEXT PRIMARY KEY,
		short_name TEXT NOT NULL DEFAULT '',
		long_name TEXT NOT NULL DEFAULT '',
		mac_addr BLOB,
		hw_model TEXT NOT NULL DEFAULT '',
		public_key BLOB,
		is_licensed BOOLEAN NOT NULL DEFAULT 0,
		first_seen TIMESTAMP NOT NULL,
		last_updated TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS positions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		node_id TEXT NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		altitude INTEGER NOT NULL DEFAULT 0,
		location_source TEXT NOT NULL DEFAULT '',
		reported_time TIMESTAMP,
		logged_time TIMESTAMP NOT NULL,
		FOREIGN KEY (node_id) REFERENCES nodes(node_id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS device_metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		node_id TEXT NOT NULL,
		battery_level INTEGER NOT NULL DEFAULT 0,
		voltage REAL NOT NULL DEFAULT 0,
		channel_utilization REAL NOT NULL DEFAULT 0,
		air_util_tx REAL NOT NULL DEFAULT 0,
		uptime_seconds INTEGER NOT NULL DEFAULT 0,
		logged_time TIMESTAMP NOT NULL,
		FOREIGN KEY (node_id) REFERENCES nodes(node_id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS user_prefs (
		user_id TEXT PRIMARY KEY,
		respond_to_testing BOOLEAN NOT NULL DEFAULT 0,
		updated_at TIMESTAMP NOT NULL
	);

	PRAGMA foreign_keys=ON;
	`
)

// DB represents the database connection and operations.
type DB struct {
	*sql.DB
	now func() time.Time
}

var _ Service = (*DB)(nil)

// New creates a new database connection, initializes the schema and applies
// pending migrations.
func New(dbPath string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	// foreign_keys is per connection.
	sqlDB.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent access
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("%w: %w", ErrFailedToEnableWAL, err)
	}

	db := &DB{DB: sqlDB, now: time.Now}

	if err := db.initSchema(); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("%w: %w", ErrFailedToInit, err)
	}

	if err := db.migrate(); err != nil {
		_ = sqlDB.Close()

		return nil, err
	}

	return db, nil
}

// initSchema creates the database tables if they don't exist.
func (db *DB) initSchema() error {
	_, err := db.Exec(createTablesSQL)

	return err
}

// timestamp is the current time in UTC; all stored times are UTC so that
// range comparisons on the text encoding hold.
func (db *DB) timestamp() time.Time {
	return db.now().UTC()
}

func rollbackOnError(tx *sql.Tx, err error) {
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Printf("Error rolling back transaction: %v", rbErr)
		}
	}
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		log.Printf("Error closing rows: %v", err)
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}

	return sql.NullTime{Time: t.UTC(), Valid: true}
}
