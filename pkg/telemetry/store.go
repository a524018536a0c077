// Package telemetry pkg/telemetry/store.go tracks per-node last-heard times and
// daily packet counters.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/mfreeman451/meshbot/pkg/models"
)

const DefaultOnlineThreshold = 2 * time.Hour

// NodeCount pairs a node with its packet count for the day.
type NodeCount struct {
	ID    models.NodeID `json:"id"`
	Count int           `json:"count"`
}

// Store is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	lastHeard map[models.NodeID]time.Time
	packets   map[models.NodeID]int
	breakdown map[models.NodeID]map[string]int
	resetTime time.Time
	threshold time.Duration
	now       func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithClock replaces the store's clock.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty store. A zero threshold uses DefaultOnlineThreshold.
func NewStore(threshold time.Duration, opts ...Option) *Store {
	if threshold <= 0 {
		threshold = DefaultOnlineThreshold
	}

	s := &Store{
		lastHeard: make(map[models.NodeID]time.Time),
		packets:   make(map[models.NodeID]int),
		breakdown: make(map[models.NodeID]map[string]int),
		threshold: threshold,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.resetTime = s.now()

	return s
}

// Now reads the store's clock.
func (s *Store) Now() time.Time {
	return s.now()
}

// Threshold is the online window.
func (s *Store) Threshold() time.Duration {
	return s.threshold
}

// RecordPacket marks id as heard now and counts one packet of port type.
func (s *Store) RecordPacket(id models.NodeID, port models.PortNum) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastHeard[id] = s.now()
	s.packets[id]++

	b, ok := s.breakdown[id]
	if !ok {
		b = make(map[string]int)
		s.breakdown[id] = b
	}

	b[port.String()]++
}

// Touch sets id's last-heard time without counting a packet. Zero times and
// times older than the current value are ignored.
func (s *Store) Touch(id models.NodeID, heard time.Time) {
	if heard.IsZero() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.lastHeard[id]; ok && prev.After(heard) {
		return
	}

	s.lastHeard[id] = heard
}

// ResetDaily clears the packet counters and breakdowns together and records
// the reset time. Last-heard times are kept.
func (s *Store) ResetDaily() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
}

func (s *Store) resetLocked() {
	s.packets = make(map[models.NodeID]int)
	s.breakdown = make(map[models.NodeID]map[string]int)
	s.resetTime = s.now()
}

// CounterResetTime is when the counters were last cleared.
func (s *Store) CounterResetTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.resetTime
}

// Online lists nodes heard within the threshold, sorted by id.
func (s *Store) Online() []models.NodeID {
	online, _ := s.partition()

	return online
}

// Offline lists known nodes not heard within the threshold, sorted by id.
func (s *Store) Offline() []models.NodeID {
	_, offline := s.partition()

	return offline
}

func (s *Store) partition() (online, offline []models.NodeID) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := s.now().Add(-s.threshold)

	online = []models.NodeID{}
	offline = []models.NodeID{}

	for id, heard := range s.lastHeard {
		if !heard.After(cutoff) {
			offline = append(offline, id)
		} else {
			online = append(online, id)
		}
	}

	sortIDs(online)
	sortIDs(offline)

	return online, offline
}

func sortIDs(ids []models.NodeID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

// IsOnline reports whether id was heard within the threshold.
func (s *Store) IsOnline(id models.NodeID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	heard, ok := s.lastHeard[id]

	return ok && heard.After(s.now().Add(-s.threshold))
}

// LastHeard returns id's last-heard time, if known.
func (s *Store) LastHeard(id models.NodeID) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.lastHeard[id]

	return t, ok
}

// PacketsToday is zero for unknown ids.
func (s *Store) PacketsToday(id models.NodeID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.packets[id]
}

// BreakdownToday returns a copy of id's per-port counts; empty for unknown ids.
func (s *Store) BreakdownToday(id models.NodeID) map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int, len(s.breakdown[id]))
	for k, v := range s.breakdown[id] {
		out[k] = v
	}

	return out
}

// NonZeroCounts returns today's counts for nodes that sent anything.
func (s *Store) NonZeroCounts() map[models.NodeID]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[models.NodeID]int)

	for id, n := range s.packets {
		if n > 0 {
			out[id] = n
		}
	}

	return out
}

// Busiest returns up to n nodes with the most packets today, highest first.
func (s *Store) Busiest(n int) []NodeCount {
	counts := s.NonZeroCounts()

	list := make([]NodeCount, 0, len(counts))
	for id, c := range counts {
		list = append(list, NodeCount{ID: id, Count: c})
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].Count != list[j].Count {
			return list[i].Count > list[j].Count
		}

		return list[i].ID < list[j].ID
	})

	if n > 0 && len(list) > n {
		list = list[:n]
	}

	return list
}

// TotalPacketsToday sums every node's counter.
func (s *Store) TotalPacketsToday() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, n := range s.packets {
		total += n
	}

	return total
}

type snapshot struct {
	LastHeard map[models.NodeID]time.Time      `json:"last_heard"`
	Packets   map[models.NodeID]int            `json:"packets_today"`
	Breakdown map[models.NodeID]map[string]int `json:"packet_breakdown_today"`
	ResetTime time.Time                        `json:"counter_reset_time"`
}

// Load replaces the store's state with the snapshot at path. On error the
// store is left unchanged. A snapshot whose reset date is not today has its
// counters reset immediately.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w %s: %w", errSnapshotRead, path, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w %s: %w", errSnapshotDecode, path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastHeard = orEmpty(snap.LastHeard)
	s.packets = orEmpty(snap.Packets)
	s.breakdown = orEmpty(snap.Breakdown)
	s.resetTime = snap.ResetTime

	if !sameDay(s.resetTime, s.now()) {
		s.resetLocked()
	}

	return nil
}

func orEmpty[V any](m map[models.NodeID]V) map[models.NodeID]V {
	if m == nil {
		return make(map[models.NodeID]V)
	}

	return m
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()

	return ay == by && am == bm && ad == bd
}

// Save writes the full state to path, replacing any previous snapshot.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	data, err := json.MarshalIndent(snapshot{
		LastHeard: s.lastHeard,
		Packets:   s.packets,
		Breakdown: s.breakdown,
		ResetTime: s.resetTime,
	}, "", "  ")
	s.mu.RUnlock()

	if err != nil {
		return fmt.Errorf("%w: %w", errSnapshotWrite, err)
	}

	return writeFileAtomic(path, data)
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", errSnapshotWrite, err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("%w: %w", errSnapshotWrite, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("%w: %w", errSnapshotWrite, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", errSnapshotWrite, err)
	}

	return nil
}
