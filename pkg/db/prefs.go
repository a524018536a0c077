package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mfreeman451/meshbot/pkg/models"
	"github.com/mfreeman451/meshbot/pkg/prefs"
)

// Get returns the stored preferences for id, or the defaults when none exist.
func (db *DB) Get(id models.NodeID) (*prefs.UserPrefs, error) {
	p := prefs.Default(id)

	err := db.QueryRow("SELECT respond_to_testing FROM user_prefs WHERE user_id = ?", id).
		Scan(&p.RespondToTesting)
	if errors.Is(err, sql.ErrNoRows) {
		return p, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w user prefs: %w", ErrFailedToScan, err)
	}

	return p, nil
}

func (db *DB) Put(p *prefs.UserPrefs) error {
	_, err := db.Exec(`
		INSERT INTO user_prefs (user_id, respond_to_testing, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			respond_to_testing = excluded.respond_to_testing,
			updated_at = excluded.updated_at`,
		p.UserID, p.RespondToTesting, db.timestamp())
	if err != nil {
		return fmt.Errorf("%w user prefs: %w", ErrFailedToInsert, err)
	}

	return nil
}
