package transport

import (
	"log"
	"strconv"

	"github.com/mfreeman451/meshbot/pkg/models"
)

// OutboundBuffer is a FIFO of packets waiting to be resent. It is not safe
// for concurrent use; Transport guards it with its own mutex.
type OutboundBuffer struct {
	entries []*models.OutboundPacket
	limit   int
	evicted int
}

// NewOutboundBuffer creates a buffer holding at most limit entries. A limit
// of zero is unbounded.
func NewOutboundBuffer(limit int) *OutboundBuffer {
	return &OutboundBuffer{limit: limit}
}

// Push appends pkt, evicting the oldest entry when full.
func (b *OutboundBuffer) Push(pkt *models.OutboundPacket) {
	if b.limit > 0 && len(b.entries) >= b.limit {
		dropped := b.entries[0]
		b.entries[0] = nil
		b.entries = b.entries[1:]
		b.evicted++

		log.Printf("Outbound buffer full (%d), dropping oldest packet to %s queued at %s",
			b.limit, describeTarget(dropped.Target), dropped.QueuedAt.Format("15:04:05"))
	}

	b.entries = append(b.entries, pkt)
}

// Peek returns the oldest entry without removing it.
func (b *OutboundBuffer) Peek() (*models.OutboundPacket, bool) {
	if len(b.entries) == 0 {
		return nil, false
	}

	return b.entries[0], true
}

// Pop removes the oldest entry if it is pkt.
func (b *OutboundBuffer) Pop(pkt *models.OutboundPacket) bool {
	if len(b.entries) == 0 || b.entries[0] != pkt {
		return false
	}

	b.entries[0] = nil
	b.entries = b.entries[1:]

	return true
}

func (b *OutboundBuffer) Len() int {
	return len(b.entries)
}

// Evicted counts entries dropped because the buffer was full.
func (b *OutboundBuffer) Evicted() int {
	return b.evicted
}

// Snapshot copies the pending entries in replay order.
func (b *OutboundBuffer) Snapshot() []*models.OutboundPacket {
	out := make([]*models.OutboundPacket, len(b.entries))
	copy(out, b.entries)

	return out
}

func describeTarget(t models.Target) string {
	if t.IsDirect() {
		return t.To.String()
	}

	return "channel " + strconv.FormatUint(uint64(t.Channel), 10)
}
