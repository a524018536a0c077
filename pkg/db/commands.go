package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mfreeman451/meshbot/pkg/dispatch"
	"github.com/mfreeman451/meshbot/pkg/models"
)

func (db *DB) LogCommand(senderID models.NodeID, cmd dispatch.Command, message string) error {
	base, subs, args := cmd.DescribeForLogging(message)

	_, err := db.Exec(`
		INSERT INTO command_log (sender_id, base_command, sub_commands, args, handler, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		senderID, base, nullString(strings.Join(subs, " ")), nullString(args), cmd.Name(), db.timestamp())
	if err != nil {
		return fmt.Errorf("%w command: %w", ErrFailedToInsert, err)
	}

	return nil
}

func (db *DB) LogUnknownRequest(senderID models.NodeID, message string) error {
	_, err := db.Exec(`
		INSERT INTO unknown_requests (sender_id, message, timestamp)
		VALUES (?, ?, ?)`,
		senderID, message, db.timestamp())
	if err != nil {
		return fmt.Errorf("%w unknown request: %w", ErrFailedToInsert, err)
	}

	return nil
}

func (db *DB) LogResponderHandled(senderID models.NodeID, responder dispatch.Responder, message string) error {
	_, err := db.Exec(`
		INSERT INTO responder_log (sender_id, message, responder, timestamp)
		VALUES (?, ?, ?, ?)`,
		senderID, message, responder.Name(), db.timestamp())
	if err != nil {
		return fmt.Errorf("%w responder log: %w", ErrFailedToInsert, err)
	}

	return nil
}

// historyFilter builds the WHERE clause shared by the history queries. An
// empty senderID matches every sender.
func historyFilter(since time.Time, senderID models.NodeID) (clause string, args []interface{}) {
	clause = "WHERE timestamp >= ?"
	args = []interface{}{since.UTC()}

	if senderID != "" {
		clause += " AND sender_id = ?"
		args = append(args, senderID)
	}

	return clause, args
}

// CommandHistory returns commands logged at or after since, oldest first.
func (db *DB) CommandHistory(since time.Time, senderID models.NodeID) ([]CommandLogEntry, error) {
	where, args := historyFilter(since, senderID)

	rows, err := db.Query(`
		SELECT sender_id, base_command, sub_commands, args, handler, timestamp
		FROM command_log `+where+`
		ORDER BY timestamp ASC, id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("%w command history: %w", ErrFailedToQuery, err)
	}
	defer closeRows(rows)

	var entries []CommandLogEntry

	for rows.Next() {
		var (
			e          CommandLogEntry
			subs, rest sql.NullString
		)

		if err := rows.Scan(&e.SenderID, &e.BaseCommand, &subs, &rest, &e.Handler, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("%w command history: %w", ErrFailedToScan, err)
		}

		if subs.Valid {
			e.SubCommands = strings.Fields(subs.String)
		}

		e.Args = rest.String
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (db *DB) UnknownRequestHistory(since time.Time, senderID models.NodeID) ([]UnknownRequestEntry, error) {
	where, args := historyFilter(since, senderID)

	rows, err := db.Query(`
		SELECT sender_id, message, timestamp
		FROM unknown_requests `+where+`
		ORDER BY timestamp ASC, id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("%w unknown requests: %w", ErrFailedToQuery, err)
	}
	defer closeRows(rows)

	var entries []UnknownRequestEntry

	for rows.Next() {
		var e UnknownRequestEntry

		if err := rows.Scan(&e.SenderID, &e.Message, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("%w unknown requests: %w", ErrFailedToScan, err)
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (db *DB) ResponderHistory(since time.Time, senderID models.NodeID) ([]ResponderLogEntry, error) {
	where, args := historyFilter(since, senderID)

	rows, err := db.Query(`
		SELECT sender_id, message, responder, timestamp
		FROM responder_log `+where+`
		ORDER BY timestamp ASC, id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("%w responder history: %w", ErrFailedToQuery, err)
	}
	defer closeRows(rows)

	var entries []ResponderLogEntry

	for rows.Next() {
		var e ResponderLogEntry

		if err := rows.Scan(&e.SenderID, &e.Message, &e.Responder, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("%w responder history: %w", ErrFailedToScan, err)
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
