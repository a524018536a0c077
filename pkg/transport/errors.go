package transport

import (
	"errors"
	"fmt"
)

var (
	ErrTransportClosed          = errors.New("transport closed")
	ErrNotConnected             = errors.New("not connected")
	ErrReconnectBudgetExhausted = errors.New("reconnect budget exhausted")
	errInvalidBackoff           = errors.New("invalid backoff configuration")
	errAddressRequired          = errors.New("gateway address is required")
)

// ConnectionError reports a failed dial or handshake.
type ConnectionError struct {
	Address string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to %s failed: %v", e.Address, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ReconnectError is delivered on Transport.Errors when the reconnect budget
// is used up. The owner decides whether to exit.
type ReconnectError struct {
	Address  string
	Attempts int
	LastErr  error
}

func (e *ReconnectError) Error() string {
	return fmt.Sprintf("%v: %d attempts to %s, last error: %v",
		ErrReconnectBudgetExhausted, e.Attempts, e.Address, e.LastErr)
}

func (e *ReconnectError) Unwrap() []error {
	return []error{ErrReconnectBudgetExhausted, e.LastErr}
}
