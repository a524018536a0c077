// Package prefs pkg/prefs/prefs.go stores per-user bot preferences.
package prefs

import (
	"sync"

	"github.com/mfreeman451/meshbot/pkg/models"
)

//go:generate mockgen -destination=mock_prefs.go -package=prefs github.com/mfreeman451/meshbot/pkg/prefs Store

// UserPrefs are the settings a user controls through !prefs and !enroll.
type UserPrefs struct {
	UserID           models.NodeID `json:"user_id"`
	RespondToTesting bool          `json:"respond_to_testing"`
}

// Default returns the preferences of a user who never changed anything.
func Default(id models.NodeID) *UserPrefs {
	return &UserPrefs{UserID: id}
}

// Store persists UserPrefs. Get returns Default for unknown users.
type Store interface {
	Get(id models.NodeID) (*UserPrefs, error)
	Put(p *UserPrefs) error
}

// Memory is an in-process Store.
type Memory struct {
	mu    sync.RWMutex
	prefs map[models.NodeID]UserPrefs
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{prefs: make(map[models.NodeID]UserPrefs)}
}

func (m *Memory) Get(id models.NodeID) (*UserPrefs, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.prefs[id]
	if !ok {
		return Default(id), nil
	}

	return &p, nil
}

func (m *Memory) Put(p *UserPrefs) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prefs[p.UserID] = *p

	return nil
}
