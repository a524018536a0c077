/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package db

import (
	"fmt"
	"log"
)

type migration struct {
	name string
	up   func(db *DB) error
}

// migrations run in order; the count applied is kept in PRAGMA user_version.
var migrations = []migration{
	{name: "add history indexes", up: migrateHistoryIndexes},
	{name: "add short name index", up: migrateShortNameIndex},
}

func (db *DB) migrate() error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("%w: reading schema version: %w", ErrFailedToMigrate, err)
	}

	for i := version; i < len(migrations); i++ {
		m := migrations[i]

		log.Printf("Running migration %d: %s", i+1, m.name)

		if err := m.up(db); err != nil {
			return fmt.Errorf("%w %q: %w", ErrFailedToMigrate, m.name, err)
		}

		// PRAGMA does not accept bound parameters.
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			return fmt.Errorf("%w %q: %w", ErrFailedToMigrate, m.name, err)
		}
	}

	return nil
}

func migrateHistoryIndexes(db *DB) error {
	_, err := db.Exec(`
	CREATE INDEX IF NOT EXISTS idx_command_log_sender_time
		ON command_log(sender_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_unknown_requests_sender_time
		ON unknown_requests(sender_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_responder_log_sender_time
		ON responder_log(sender_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_positions_node_time
		ON positions(node_id, logged_time);
	CREATE INDEX IF NOT EXISTS idx_device_metrics_node_time
		ON device_metrics(node_id, logged_time);
	`)

	return err
}

func migrateShortNameIndex(db *DB) error {
	_, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_nodes_short_name ON nodes(short_name COLLATE NOCASE)`)

	return err
}
