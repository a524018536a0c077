package models

import (
	"strings"
	"time"
)

// PortNum is the application-level tag on a mesh packet.
type PortNum uint32

const (
	PortUnknown       PortNum = 0
	PortTextMessage   PortNum = 1
	PortRemoteHW      PortNum = 2
	PortPosition      PortNum = 3
	PortNodeInfo      PortNum = 4
	PortRouting       PortNum = 5
	PortAdmin         PortNum = 6
	PortWaypoint      PortNum = 8
	PortDetectionSens PortNum = 10
	PortRangeTest     PortNum = 66
	PortTelemetry     PortNum = 67
	PortStoreForward  PortNum = 65
	PortTraceroute    PortNum = 70
	PortNeighborInfo  PortNum = 71
	PortMapReport     PortNum = 73
)

var portNames = map[PortNum]string{
	PortUnknown:       "UNKNOWN_APP",
	PortTextMessage:   "TEXT_MESSAGE_APP",
	PortRemoteHW:      "REMOTE_HARDWARE_APP",
	PortPosition:      "POSITION_APP",
	PortNodeInfo:      "NODEINFO_APP",
	PortRouting:       "ROUTING_APP",
	PortAdmin:         "ADMIN_APP",
	PortWaypoint:      "WAYPOINT_APP",
	PortDetectionSens: "DETECTION_SENSOR_APP",
	PortRangeTest:     "RANGE_TEST_APP",
	PortTelemetry:     "TELEMETRY_APP",
	PortStoreForward:  "STORE_FORWARD_APP",
	PortTraceroute:    "TRACEROUTE_APP",
	PortNeighborInfo:  "NEIGHBORINFO_APP",
	PortMapReport:     "MAP_REPORT_APP",
}

func (p PortNum) String() string {
	if name, ok := portNames[p]; ok {
		return name
	}

	return "UNKNOWN_APP"
}

// Packet is one decoded inbound mesh packet.
type Packet struct {
	ID       uint32    `json:"id"`
	From     NodeID    `json:"from_id"`
	To       NodeID    `json:"to_id"`
	FromNum  uint32    `json:"from"`
	ToNum    uint32    `json:"to"`
	Channel  uint32    `json:"channel"`
	PortNum  PortNum   `json:"portnum"`
	Payload  []byte    `json:"payload,omitempty"`
	Text     string    `json:"text,omitempty"`
	HopStart uint32    `json:"hop_start"`
	HopLimit uint32    `json:"hop_limit"`
	RxTime   time.Time `json:"rx_time"`
	RxSNR    float32   `json:"rx_snr,omitempty"`
	RxRSSI   int32     `json:"rx_rssi,omitempty"`
	ReplyID  uint32    `json:"reply_id,omitempty"`
	Emoji    bool      `json:"emoji,omitempty"`
	WantAck  bool      `json:"want_ack,omitempty"`
	Raw      []byte    `json:"-"`
}

// HopsAway is the number of relays the packet traveled.
func (p *Packet) HopsAway() int {
	if p.HopStart < p.HopLimit {
		return 0
	}

	return int(p.HopStart - p.HopLimit)
}

// IsText reports whether the packet carries a text message.
func (p *Packet) IsText() bool {
	return p.PortNum == PortTextMessage
}

// FirstToken returns the first whitespace-delimited word of the text.
func (p *Packet) FirstToken() string {
	fields := strings.Fields(p.Text)
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}

// Target addresses an outbound packet at a channel or a single node.
// An empty To means broadcast on Channel.
type Target struct {
	Channel uint32 `json:"channel"`
	To      NodeID `json:"to,omitempty"`
}

// ChannelTarget addresses a broadcast on the given channel index.
func ChannelTarget(channel uint32) Target {
	return Target{Channel: channel}
}

// DirectTarget addresses a single node.
func DirectTarget(id NodeID) Target {
	return Target{To: id}
}

// IsDirect reports whether the target is a single node.
func (t Target) IsDirect() bool {
	return t.To != "" && t.To != BroadcastID
}

// DestinationNum resolves the numeric destination.
func (t Target) DestinationNum() (uint32, error) {
	if !t.IsDirect() {
		return BroadcastNum, nil
	}

	return t.To.Num()
}

// OutboundPacket holds everything needed to resend a packet verbatim.
type OutboundPacket struct {
	Target   Target    `json:"target"`
	PortNum  PortNum   `json:"portnum"`
	Payload  []byte    `json:"payload"`
	WantAck  bool      `json:"want_ack"`
	ReplyID  uint32    `json:"reply_id,omitempty"`
	Emoji    bool      `json:"emoji,omitempty"`
	QueuedAt time.Time `json:"queued_at"`
}
