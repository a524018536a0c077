// Package meshtastic pkg/meshtastic/errors.go
package meshtastic

import "errors"

var (
	ErrFrameTooLarge    = errors.New("frame payload too large")
	ErrMalformedMessage = errors.New("malformed protobuf message")
	ErrHandshakeTimeout = errors.New("timed out waiting for config complete")
	ErrHandshakeFailed  = errors.New("handshake failed")
	ErrClientClosed     = errors.New("client closed")
	ErrNoDecodedPayload = errors.New("packet has no decoded payload")

	// ErrPacketRejected marks outbound packets that can never be sent as
	// built. Retrying them on a new session fails the same way.
	ErrPacketRejected = errors.New("outbound packet rejected")
)
