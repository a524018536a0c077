package transport

import (
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// State is the connection state of a Transport.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnectBackoff
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnectBackoff:
		return "reconnect_backoff"
	default:
		return "disconnected"
	}
}

const (
	defaultInitialDelay      = 5 * time.Second
	defaultMaxDelay          = 300 * time.Second
	defaultMultiplier        = 1.5
	defaultHeartbeatInterval = 5 * time.Minute
)

// Backoff describes the reconnect delay schedule.
type Backoff struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

// DefaultBackoff starts at 5s, grows by 1.5x and caps at five minutes.
func DefaultBackoff() Backoff {
	return Backoff{Initial: defaultInitialDelay, Max: defaultMaxDelay, Multiplier: defaultMultiplier}
}

// Next returns the delay to use after cur.
func (b Backoff) Next(cur time.Duration) time.Duration {
	next := time.Duration(float64(cur) * b.Multiplier)
	if next > b.Max || next < cur {
		return b.Max
	}

	return next
}

func (b Backoff) Validate() error {
	if b.Initial <= 0 || b.Max < b.Initial {
		return fmt.Errorf("%w: initial=%v max=%v", errInvalidBackoff, b.Initial, b.Max)
	}

	if b.Multiplier <= 1 {
		return fmt.Errorf("%w: multiplier must be > 1, got %v", errInvalidBackoff, b.Multiplier)
	}

	return nil
}

// Config configures a Transport.
type Config struct {
	Address           string
	HeartbeatInterval time.Duration
	Backoff           Backoff
	// MaxAttempts bounds consecutive reconnect attempts. Zero retries forever.
	MaxAttempts int
	// MaxBuffered caps the outbound buffer. Zero means unbounded.
	MaxBuffered int
	// ReplayRate paces buffer replay in packets per second. Zero disables pacing.
	ReplayRate  float64
	ReplayBurst int
}

func (c *Config) setDefaults() {
	if c.HeartbeatInterval == 0 {
		c.HeartbeatInterval = defaultHeartbeatInterval
	}

	if c.Backoff == (Backoff{}) {
		c.Backoff = DefaultBackoff()
	}

	if c.ReplayBurst == 0 {
		c.ReplayBurst = 1
	}
}

func (c *Config) replayLimit() rate.Limit {
	if c.ReplayRate <= 0 {
		return rate.Inf
	}

	return rate.Limit(c.ReplayRate)
}
