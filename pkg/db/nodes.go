package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mfreeman451/meshbot/pkg/models"
	"github.com/mfreeman451/meshbot/pkg/nodes"
)

const (
	selectUserSQL = `
		SELECT node_id, short_name, long_name, mac_addr, hw_model, public_key, is_licensed
		FROM nodes`

	selectPositionSQL = `
		SELECT latitude, longitude, altitude, location_source, reported_time, logged_time
		FROM positions`

	selectMetricsSQL = `
		SELECT battery_level, voltage, channel_utilization, air_util_tx, uptime_seconds, logged_time
		FROM device_metrics`
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// Upsert stores user and appends the optional samples in one transaction.
// A sample equal to the node's latest one, apart from its logged time, is
// not stored again.
func (db *DB) Upsert(user *models.User, pos *models.Position, metrics *models.DeviceMetrics) (created bool, err error) {
	if user == nil || user.ID == "" {
		return false, nodes.ErrInvalidIdentity
	}

	tx, err := db.Begin()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrFailedToBeginTx, err)
	}
	defer func() { rollbackOnError(tx, err) }()

	now := db.timestamp()

	var exists int

	err = tx.QueryRow("SELECT COUNT(*) FROM nodes WHERE node_id = ?", user.ID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w node: %w", ErrFailedToQuery, err)
	}

	_, err = tx.Exec(`
		INSERT INTO nodes (node_id, short_name, long_name, mac_addr, hw_model, public_key, is_licensed,
			first_seen, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(node_id) DO UPDATE SET
			short_name = excluded.short_name,
			long_name = excluded.long_name,
			mac_addr = excluded.mac_addr,
			hw_model = excluded.hw_model,
			public_key = excluded.public_key,
			is_licensed = excluded.is_licensed,
			last_updated = excluded.last_updated`,
		user.ID, user.ShortName, user.LongName, user.MacAddr, user.HwModel, user.PublicKey, user.IsLicensed,
		now, now)
	if err != nil {
		return false, fmt.Errorf("%w node: %w", ErrFailedToInsert, err)
	}

	if pos != nil {
		if err = insertPosition(tx, user.ID, pos, now); err != nil {
			return false, err
		}
	}

	if metrics != nil {
		if err = insertMetrics(tx, user.ID, metrics, now); err != nil {
			return false, err
		}
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("%w node: %w", ErrFailedToInsert, err)
	}

	return exists == 0, nil
}

func insertPosition(tx *sql.Tx, id models.NodeID, pos *models.Position, now time.Time) error {
	p := *pos
	if p.LoggedTime.IsZero() {
		p.LoggedTime = now
	}

	last, err := scanPosition(tx.QueryRow(selectPositionSQL+` WHERE node_id = ? ORDER BY id DESC LIMIT 1`, id))

	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("%w position: %w", ErrFailedToQuery, err)
	case last.Latitude == p.Latitude && last.Longitude == p.Longitude && last.Altitude == p.Altitude &&
		last.LocationSource == p.LocationSource && last.ReportedTime.Equal(p.ReportedTime):
		return nil
	}

	_, err = tx.Exec(`
		INSERT INTO positions (node_id, latitude, longitude, altitude, location_source, reported_time, logged_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, p.Latitude, p.Longitude, p.Altitude, p.LocationSource, nullTime(p.ReportedTime), p.LoggedTime.UTC())
	if err != nil {
		return fmt.Errorf("%w position: %w", ErrFailedToInsert, err)
	}

	return nil
}

func insertMetrics(tx *sql.Tx, id models.NodeID, metrics *models.DeviceMetrics, now time.Time) error {
	d := *metrics
	if d.LoggedTime.IsZero() {
		d.LoggedTime = now
	}

	last, err := scanMetrics(tx.QueryRow(selectMetricsSQL+` WHERE node_id = ? ORDER BY id DESC LIMIT 1`, id))

	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("%w device metrics: %w", ErrFailedToQuery, err)
	default:
		cmp := d
		cmp.LoggedTime = last.LoggedTime

		if *last == cmp {
			return nil
		}
	}

	_, err = tx.Exec(`
		INSERT INTO device_metrics (node_id, battery_level, voltage, channel_utilization, air_util_tx,
			uptime_seconds, logged_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, d.BatteryLevel, d.Voltage, d.ChannelUtilization, d.AirUtilTx, d.UptimeSeconds, d.LoggedTime.UTC())
	if err != nil {
		return fmt.Errorf("%w device metrics: %w", ErrFailedToInsert, err)
	}

	return nil
}

func scanUser(row scanner) (*models.User, error) {
	var u models.User

	if err := row.Scan(&u.ID, &u.ShortName, &u.LongName, &u.MacAddr, &u.HwModel, &u.PublicKey, &u.IsLicensed); err != nil {
		return nil, err
	}

	return &u, nil
}

func scanPosition(row scanner) (*models.Position, error) {
	var (
		p        models.Position
		reported sql.NullTime
	)

	if err := row.Scan(&p.Latitude, &p.Longitude, &p.Altitude, &p.LocationSource, &reported, &p.LoggedTime); err != nil {
		return nil, err
	}

	if reported.Valid {
		p.ReportedTime = reported.Time
	}

	return &p, nil
}

func scanMetrics(row scanner) (*models.DeviceMetrics, error) {
	var (
		d                          models.DeviceMetrics
		voltage, chanUtil, airUtil float64
	)

	if err := row.Scan(&d.BatteryLevel, &voltage, &chanUtil, &airUtil, &d.UptimeSeconds, &d.LoggedTime); err != nil {
		return nil, err
	}

	d.Voltage = float32(voltage)
	d.ChannelUtilization = float32(chanUtil)
	d.AirUtilTx = float32(airUtil)

	return &d, nil
}

func notFound(err error, id interface{}) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", nodes.ErrNodeNotFound, id)
	}

	return fmt.Errorf("%w node: %w", ErrFailedToScan, err)
}

func (db *DB) GetByID(id models.NodeID) (*models.User, error) {
	u, err := scanUser(db.QueryRow(selectUserSQL+` WHERE node_id = ?`, id))
	if err != nil {
		return nil, notFound(err, id)
	}

	return u, nil
}

// GetByShortName compares ASCII case-insensitively and returns the node seen
// first.
func (db *DB) GetByShortName(name string) (*models.User, error) {
	u, err := scanUser(db.QueryRow(selectUserSQL+` WHERE short_name = ? COLLATE NOCASE ORDER BY rowid LIMIT 1`, name))
	if err != nil {
		return nil, notFound(err, "short name "+name)
	}

	return u, nil
}

func (db *DB) List() ([]*models.User, error) {
	rows, err := db.Query(selectUserSQL + ` ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("%w nodes: %w", ErrFailedToQuery, err)
	}
	defer closeRows(rows)

	var users []*models.User

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%w node: %w", ErrFailedToScan, err)
		}

		users = append(users, u)
	}

	return users, rows.Err()
}

func (db *DB) Snapshot(id models.NodeID) (*models.NodeSnapshot, error) {
	row := db.QueryRow(`
		SELECT node_id, short_name, long_name, mac_addr, hw_model, public_key, is_licensed,
			first_seen, last_updated
		FROM nodes WHERE node_id = ?`, id)

	var snap models.NodeSnapshot

	u := &snap.User
	if err := row.Scan(&u.ID, &u.ShortName, &u.LongName, &u.MacAddr, &u.HwModel, &u.PublicKey, &u.IsLicensed,
		&snap.FirstSeen, &snap.LastUpdated); err != nil {
		return nil, notFound(err, id)
	}

	pos, err := db.LastPosition(id)
	if err == nil {
		snap.LastPosition = pos
	} else if !errors.Is(err, nodes.ErrNoSamples) {
		return nil, err
	}

	metrics, err := db.LastDeviceMetrics(id)
	if err == nil {
		snap.LastMetrics = metrics
	} else if !errors.Is(err, nodes.ErrNoSamples) {
		return nil, err
	}

	return &snap, nil
}

func (db *DB) requireNode(id models.NodeID) error {
	var n int

	if err := db.QueryRow("SELECT COUNT(*) FROM nodes WHERE node_id = ?", id).Scan(&n); err != nil {
		return fmt.Errorf("%w node: %w", ErrFailedToQuery, err)
	}

	if n == 0 {
		return fmt.Errorf("%w: %s", nodes.ErrNodeNotFound, id)
	}

	return nil
}

// rangeFilter restricts logged_time to [start, end]; zero bounds are open.
func rangeFilter(id models.NodeID, start, end time.Time) (clause string, args []interface{}) {
	clause = " WHERE node_id = ?"
	args = []interface{}{id}

	if !start.IsZero() {
		clause += " AND logged_time >= ?"
		args = append(args, start.UTC())
	}

	if !end.IsZero() {
		clause += " AND logged_time <= ?"
		args = append(args, end.UTC())
	}

	return clause, args
}

func (db *DB) PositionLog(id models.NodeID, start, end time.Time) ([]models.Position, error) {
	if err := db.requireNode(id); err != nil {
		return nil, err
	}

	where, args := rangeFilter(id, start, end)

	rows, err := db.Query(selectPositionSQL+where+` ORDER BY logged_time ASC, id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("%w positions: %w", ErrFailedToQuery, err)
	}
	defer closeRows(rows)

	out := []models.Position{}

	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("%w position: %w", ErrFailedToScan, err)
		}

		out = append(out, *p)
	}

	return out, rows.Err()
}

func (db *DB) DeviceMetricsLog(id models.NodeID, start, end time.Time) ([]models.DeviceMetrics, error) {
	if err := db.requireNode(id); err != nil {
		return nil, err
	}

	where, args := rangeFilter(id, start, end)

	rows, err := db.Query(selectMetricsSQL+where+` ORDER BY logged_time ASC, id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("%w device metrics: %w", ErrFailedToQuery, err)
	}
	defer closeRows(rows)

	out := []models.DeviceMetrics{}

	for rows.Next() {
		d, err := scanMetrics(rows)
		if err != nil {
			return nil, fmt.Errorf("%w device metrics: %w", ErrFailedToScan, err)
		}

		out = append(out, *d)
	}

	return out, rows.Err()
}

func (db *DB) LastPosition(id models.NodeID) (*models.Position, error) {
	if err := db.requireNode(id); err != nil {
		return nil, err
	}

	p, err := scanPosition(db.QueryRow(selectPositionSQL+` WHERE node_id = ? ORDER BY logged_time DESC, id DESC LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: position for %s", nodes.ErrNoSamples, id)
	}

	if err != nil {
		return nil, fmt.Errorf("%w position: %w", ErrFailedToScan, err)
	}

	return p, nil
}

func (db *DB) LastDeviceMetrics(id models.NodeID) (*models.DeviceMetrics, error) {
	if err := db.requireNode(id); err != nil {
		return nil, err
	}

	d, err := scanMetrics(db.QueryRow(selectMetricsSQL+` WHERE node_id = ? ORDER BY logged_time DESC, id DESC LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: device metrics for %s", nodes.ErrNoSamples, id)
	}

	if err != nil {
		return nil, fmt.Errorf("%w device metrics: %w", ErrFailedToScan, err)
	}

	return d, nil
}
