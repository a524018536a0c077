package nodes

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreeman451/meshbot/pkg/models"
)

var base = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(time.Minute)

	return c.now
}

func newTestMemory() *Memory {
	return NewMemory(WithClock((&stepClock{now: base}).Now))
}

func user(id models.NodeID, short string) *models.User {
	return &models.User{ID: id, ShortName: short, LongName: "Node " + short, HwModel: "HELTEC_V3"}
}

func TestUpsertCreatesAndUpdates(t *testing.T) {
	m := newTestMemory()

	created, err := m.Upsert(user("!00000001", "AAA"), nil, nil)
	require.NoError(t, err)
	assert.True(t, created)

	u := user("!00000001", "AAA")
	u.LongName = "Renamed"

	created, err = m.Upsert(u, nil, nil)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := m.GetByID("!00000001")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.LongName)
	assert.Equal(t, 1, m.Len())
}

func TestUpsertRejectsMissingIdentity(t *testing.T) {
	m := newTestMemory()

	_, err := m.Upsert(nil, nil, nil)
	require.ErrorIs(t, err, ErrInvalidIdentity)

	_, err = m.Upsert(&models.User{ShortName: "x"}, nil, nil)
	require.ErrorIs(t, err, ErrInvalidIdentity)
}

func TestReplayedAnnouncementIsIdempotent(t *testing.T) {
	m := newTestMemory()

	pos := &models.Position{Latitude: 1.5, Longitude: 2.5, ReportedTime: base}
	metrics := &models.DeviceMetrics{BatteryLevel: 90, Voltage: 4.1}

	for i := 0; i < 2; i++ {
		_, err := m.Upsert(user("!00000001", "AAA"), pos, metrics)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, m.Len())

	positions, err := m.PositionLog("!00000001", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, positions, 1)

	samples, err := m.DeviceMetricsLog("!00000001", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, samples, 1)
}

func TestGetByShortName(t *testing.T) {
	m := newTestMemory()

	for _, u := range []*models.User{user("!00000001", "abc"), user("!00000002", "ABC"), user("!00000003", "xyz")} {
		_, err := m.Upsert(u, nil, nil)
		require.NoError(t, err)
	}

	tests := []struct {
		name    string
		query   string
		want    models.NodeID
		wantErr error
	}{
		{name: "first match wins", query: "ABC", want: "!00000001"},
		{name: "case insensitive", query: "XyZ", want: "!00000003"},
		{name: "no partial match", query: "ab", wantErr: ErrNodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.GetByShortName(tt.query)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	m := newTestMemory()

	for _, id := range []models.NodeID{"!00000003", "!00000001", "!00000002"} {
		_, err := m.Upsert(user(id, string(id)), nil, nil)
		require.NoError(t, err)
	}

	_, err := m.Upsert(user("!00000003", "again"), nil, nil)
	require.NoError(t, err)

	users, err := m.List()
	require.NoError(t, err)

	ids := make([]models.NodeID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	assert.Equal(t, []models.NodeID{"!00000003", "!00000001", "!00000002"}, ids)
}

func TestHistoryRangeAndOrder(t *testing.T) {
	m := newTestMemory()
	id := models.NodeID("!00000001")

	for i, lat := range []float64{1, 2, 3, 4} {
		pos := &models.Position{Latitude: lat, LoggedTime: base.Add(time.Duration(4-i) * time.Hour)}
		_, err := m.Upsert(user(id, "AAA"), pos, nil)
		require.NoError(t, err)
	}

	got, err := m.PositionLog(id, base.Add(2*time.Hour), base.Add(4*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.InDelta(t, 3.0, got[0].Latitude, 0)
	assert.InDelta(t, 2.0, got[1].Latitude, 0)
	assert.InDelta(t, 1.0, got[2].Latitude, 0)

	last, err := m.LastPosition(id)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, last.Latitude, 0)

	_, err = m.LastDeviceMetrics(id)
	require.ErrorIs(t, err, ErrNoSamples)

	_, err = m.PositionLog("!0000000f", time.Time{}, time.Time{})
	require.ErrorIs(t, err, ErrNodeNotFound)
}

func TestHistoryLimit(t *testing.T) {
	m := NewMemory(WithHistoryLimit(2))

	for i := 0; i < 5; i++ {
		_, err := m.Upsert(user("!00000001", "AAA"), nil, &models.DeviceMetrics{BatteryLevel: uint32(i)})
		require.NoError(t, err)
	}

	got, err := m.DeviceMetricsLog("!00000001", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint32(3), got[0].BatteryLevel)
	assert.Equal(t, uint32(4), got[1].BatteryLevel)
}

func TestSnapshot(t *testing.T) {
	m := newTestMemory()

	_, err := m.Upsert(user("!00000001", "AAA"), &models.Position{Latitude: 1}, nil)
	require.NoError(t, err)
	_, err = m.Upsert(user("!00000001", "AAA"), nil, &models.DeviceMetrics{BatteryLevel: 50})
	require.NoError(t, err)

	snap, err := m.Snapshot("!00000001")
	require.NoError(t, err)

	assert.Equal(t, base.Add(time.Minute), snap.FirstSeen)
	assert.Equal(t, base.Add(2*time.Minute), snap.LastUpdated)
	require.NotNil(t, snap.LastPosition)
	require.NotNil(t, snap.LastMetrics)
	assert.Equal(t, uint32(50), snap.LastMetrics.BatteryLevel)
}

func TestSaveLoad(t *testing.T) {
	m := newTestMemory()

	_, err := m.Upsert(user("!00000002", "BBB"), &models.Position{Latitude: 1, Longitude: 2}, nil)
	require.NoError(t, err)
	_, err = m.Upsert(user("!00000001", "AAA"), nil, &models.DeviceMetrics{BatteryLevel: 80})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nodes.json")
	require.NoError(t, m.Save(path))

	loaded := NewMemory()
	require.NoError(t, loaded.Load(path))

	users, err := loaded.List()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, models.NodeID("!00000002"), users[0].ID)

	last, err := loaded.LastDeviceMetrics("!00000001")
	require.NoError(t, err)
	assert.Equal(t, uint32(80), last.BatteryLevel)
}

func TestLoadErrorsLeaveDirectoryUnchanged(t *testing.T) {
	m := newTestMemory()

	_, err := m.Upsert(user("!00000001", "AAA"), nil, nil)
	require.NoError(t, err)

	dir := t.TempDir()

	err = m.Load(filepath.Join(dir, "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("[1,2"), 0o600))

	err = m.Load(corrupt)
	require.ErrorIs(t, err, errSnapshotDecode)
	assert.Equal(t, 1, m.Len())
}
