package router

import (
	"time"

	"github.com/mfreeman451/meshbot/pkg/models"
)

const (
	defaultQueueSize       = 256
	defaultMirrorQueueSize = 256
	defaultHandlerTimeout  = 30 * time.Second
	defaultResetAt         = "00:00"
	mirrorTimeout          = 10 * time.Second
)

// Config controls the router's queues and daily maintenance.
type Config struct {
	// DailyResetAt is the local wall-clock time, as HH:MM, at which the
	// packet counters are reset. "off" disables the schedule.
	DailyResetAt string `json:"daily_reset_at"`
	QueueSize    int    `json:"queue_size"`
	// HandlerTimeout bounds how long the event loop waits on one command or
	// responder. A handler that ignores its context keeps running after
	// the router has moved on.
	HandlerTimeout time.Duration `json:"handler_timeout"`
	// MirrorQueueSize bounds mirror writes waiting for the storage backend.
	// Writes beyond it are dropped.
	MirrorQueueSize int `json:"mirror_queue_size"`
}

// EventType names what an Event describes.
type EventType string

const (
	EventConnected      EventType = "connected"
	EventPacket         EventType = "packet"
	EventNodeDiscovered EventType = "node_discovered"
	EventNodeUpdated    EventType = "node_updated"
	EventCommand        EventType = "command"
	EventUnknownRequest EventType = "unknown_request"
	EventResponder      EventType = "responder"
	EventCountersReset  EventType = "counters_reset"
)

// Event is the externally visible record of something the router handled.
type Event struct {
	Type    EventType     `json:"type"`
	Time    time.Time     `json:"time"`
	NodeID  models.NodeID `json:"node_id,omitempty"`
	PortNum string        `json:"portnum,omitempty"`
	Text    string        `json:"text,omitempty"`
	Handler string        `json:"handler,omitempty"`
	Count   int           `json:"count,omitempty"`
}

type eventKind int

const (
	kindConnected eventKind = iota
	kindPacket
	kindNodeUpdated
	kindBarrier
)

type event struct {
	kind    eventKind
	myID    models.NodeID
	pkt     *models.Packet
	info    *models.NodeInfo
	barrier chan struct{}
}
