package db

import (
	"fmt"
	"time"
)

// retainedTables hold time-stamped rows that CleanOldData prunes. Node
// identities and preferences are never pruned.
var retainedTables = []struct {
	table  string
	column string
}{
	{table: "positions", column: "logged_time"},
	{table: "device_metrics", column: "logged_time"},
	{table: "command_log", column: "timestamp"},
	{table: "unknown_requests", column: "timestamp"},
	{table: "responder_log", column: "timestamp"},
}

// CleanOldData removes history older than retentionPeriod.
func (db *DB) CleanOldData(retentionPeriod time.Duration) (err error) {
	cutoff := db.timestamp().Add(-retentionPeriod)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToBeginTx, err)
	}
	defer func() { rollbackOnError(tx, err) }()

	for _, t := range retainedTables {
		query := fmt.Sprintf("DELETE FROM %s WHERE %s < ?", t.table, t.column)

		if _, err = tx.Exec(query, cutoff); err != nil {
			return fmt.Errorf("%w %s: %w", ErrFailedToClean, t.table, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToClean, err)
	}

	return nil
}
