package nodes

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mfreeman451/meshbot/pkg/models"
)

type record struct {
	User        models.User            `json:"user"`
	FirstSeen   time.Time              `json:"first_seen"`
	LastUpdated time.Time              `json:"last_updated"`
	Positions   []models.Position      `json:"positions"`
	Metrics     []models.DeviceMetrics `json:"device_metrics"`
}

// Memory is an in-memory Directory with a JSON snapshot.
type Memory struct {
	mu           sync.RWMutex
	order        []models.NodeID
	records      map[models.NodeID]*record
	historyLimit int
	now          func() time.Time
}

var _ Directory = (*Memory)(nil)

// MemoryOption customizes a Memory directory.
type MemoryOption func(*Memory)

// WithClock replaces the directory's clock.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.now = now
	}
}

// WithHistoryLimit keeps at most n samples of each kind per node.
func WithHistoryLimit(n int) MemoryOption {
	return func(m *Memory) {
		m.historyLimit = n
	}
}

func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		records: make(map[models.NodeID]*record),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *Memory) Upsert(user *models.User, pos *models.Position, metrics *models.DeviceMetrics) (bool, error) {
	if user == nil || user.ID == "" {
		return false, ErrInvalidIdentity
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()

	rec, ok := m.records[user.ID]
	if !ok {
		rec = &record{FirstSeen: now}
		m.records[user.ID] = rec
		m.order = append(m.order, user.ID)
	}

	rec.User = *user
	rec.LastUpdated = now

	if pos != nil {
		p := *pos
		if p.LoggedTime.IsZero() {
			p.LoggedTime = now
		}

		if n := len(rec.Positions); n == 0 || !samePosition(rec.Positions[n-1], p) {
			rec.Positions = trim(append(rec.Positions, p), m.historyLimit)
		}
	}

	if metrics != nil {
		d := *metrics
		if d.LoggedTime.IsZero() {
			d.LoggedTime = now
		}

		if n := len(rec.Metrics); n == 0 || !sameMetrics(rec.Metrics[n-1], d) {
			rec.Metrics = trim(append(rec.Metrics, d), m.historyLimit)
		}
	}

	return !ok, nil
}

// samePosition ignores the logged time so a replayed announcement does not
// grow the history.
func samePosition(a, b models.Position) bool {
	return a.Latitude == b.Latitude &&
		a.Longitude == b.Longitude &&
		a.Altitude == b.Altitude &&
		a.LocationSource == b.LocationSource &&
		a.ReportedTime.Equal(b.ReportedTime)
}

func sameMetrics(a, b models.DeviceMetrics) bool {
	a.LoggedTime, b.LoggedTime = time.Time{}, time.Time{}

	return a == b
}

func trim[T any](s []T, limit int) []T {
	if limit <= 0 || len(s) <= limit {
		return s
	}

	return append(s[:0:0], s[len(s)-limit:]...)
}

func (m *Memory) GetByID(id models.NodeID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	u := rec.User

	return &u, nil
}

func (m *Memory) GetByShortName(name string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range m.order {
		rec := m.records[id]
		if strings.EqualFold(rec.User.ShortName, name) {
			u := rec.User

			return &u, nil
		}
	}

	return nil, fmt.Errorf("%w: short name %q", ErrNodeNotFound, name)
}

// List returns every node in insertion order.
func (m *Memory) List() ([]*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]*models.User, 0, len(m.order))

	for _, id := range m.order {
		u := m.records[id].User
		users = append(users, &u)
	}

	return users, nil
}

// Len is the number of known nodes.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.order)
}

func (m *Memory) Snapshot(id models.NodeID) (*models.NodeSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	snap := &models.NodeSnapshot{
		User:        rec.User,
		FirstSeen:   rec.FirstSeen,
		LastUpdated: rec.LastUpdated,
	}

	if p, ok := latest(rec.Positions, func(p models.Position) time.Time { return p.LoggedTime }); ok {
		snap.LastPosition = &p
	}

	if d, ok := latest(rec.Metrics, func(d models.DeviceMetrics) time.Time { return d.LoggedTime }); ok {
		snap.LastMetrics = &d
	}

	return snap, nil
}

func (m *Memory) PositionLog(id models.NodeID, start, end time.Time) ([]models.Position, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	return inRange(rec.Positions, start, end, func(p models.Position) time.Time { return p.LoggedTime }), nil
}

func (m *Memory) DeviceMetricsLog(id models.NodeID, start, end time.Time) ([]models.DeviceMetrics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	return inRange(rec.Metrics, start, end, func(d models.DeviceMetrics) time.Time { return d.LoggedTime }), nil
}

func (m *Memory) LastPosition(id models.NodeID) (*models.Position, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	p, ok := latest(rec.Positions, func(p models.Position) time.Time { return p.LoggedTime })
	if !ok {
		return nil, fmt.Errorf("%w: position for %s", ErrNoSamples, id)
	}

	return &p, nil
}

func (m *Memory) LastDeviceMetrics(id models.NodeID) (*models.DeviceMetrics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	d, ok := latest(rec.Metrics, func(d models.DeviceMetrics) time.Time { return d.LoggedTime })
	if !ok {
		return nil, fmt.Errorf("%w: device metrics for %s", ErrNoSamples, id)
	}

	return &d, nil
}

func inRange[T any](samples []T, start, end time.Time, at func(T) time.Time) []T {
	out := make([]T, 0, len(samples))

	for _, s := range samples {
		t := at(s)

		if !start.IsZero() && t.Before(start) {
			continue
		}

		if !end.IsZero() && t.After(end) {
			continue
		}

		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool { return at(out[i]).Before(at(out[j])) })

	return out
}

func latest[T any](samples []T, at func(T) time.Time) (T, bool) {
	var best T

	if len(samples) == 0 {
		return best, false
	}

	best = samples[0]
	for _, s := range samples[1:] {
		if !at(s).Before(at(best)) {
			best = s
		}
	}

	return best, true
}

type snapshotFile struct {
	Nodes []*record `json:"nodes"`
}

// Load replaces the directory with the snapshot at path. On error the
// directory is left unchanged.
func (m *Memory) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w %s: %w", errSnapshotRead, path, err)
	}

	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w %s: %w", errSnapshotDecode, path, err)
	}

	records := make(map[models.NodeID]*record, len(snap.Nodes))
	order := make([]models.NodeID, 0, len(snap.Nodes))

	for _, rec := range snap.Nodes {
		if rec == nil || rec.User.ID == "" {
			continue
		}

		if _, dup := records[rec.User.ID]; dup {
			continue
		}

		records[rec.User.ID] = rec
		order = append(order, rec.User.ID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = records
	m.order = order

	return nil
}

// Save writes every node in insertion order to path.
func (m *Memory) Save(path string) error {
	m.mu.RLock()

	snap := snapshotFile{Nodes: make([]*record, 0, len(m.order))}
	for _, id := range m.order {
		snap.Nodes = append(snap.Nodes, m.records[id])
	}

	data, err := json.MarshalIndent(snap, "", "  ")

	m.mu.RUnlock()

	if err != nil {
		return fmt.Errorf("%w: %w", errSnapshotWrite, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", errSnapshotWrite, err)
	}

	if _, err = tmp.Write(data); err == nil {
		err = tmp.Close()
	} else {
		_ = tmp.Close()
	}

	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}

	if err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("%w: %w", errSnapshotWrite, err)
	}

	return nil
}
