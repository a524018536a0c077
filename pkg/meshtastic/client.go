package meshtastic

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mfreeman451/meshbot/pkg/models"
)

const (
	DefaultPort             = "4403"
	defaultDialTimeout      = 10 * time.Second
	defaultHandshakeTimeout = 30 * time.Second
	defaultWriteTimeout     = 10 * time.Second
	defaultHopLimit         = 3
)

// Handler receives inbound traffic from a Client. Calls are made from the
// client's reader goroutine, in arrival order.
type Handler interface {
	HandlePacket(pkt *models.Packet)
	HandleNodeInfo(info *models.NodeInfo)
}

// Options tunes a Client. Zero values use defaults.
type Options struct {
	DialTimeout      time.Duration
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	HopLimit         uint32
}

func (o *Options) setDefaults() {
	if o.DialTimeout == 0 {
		o.DialTimeout = defaultDialTimeout
	}

	if o.HandshakeTimeout == 0 {
		o.HandshakeTimeout = defaultHandshakeTimeout
	}

	if o.WriteTimeout == 0 {
		o.WriteTimeout = defaultWriteTimeout
	}

	if o.HopLimit == 0 {
		o.HopLimit = defaultHopLimit
	}
}

// Client is one TCP session with a radio's stream API.
type Client struct {
	conn    net.Conn
	opts    Options
	handler Handler
	now     func() time.Time

	writeMu sync.Mutex
	nextID  atomic.Uint32

	myNodeNum  atomic.Uint32
	configID   uint32
	configDone chan struct{}
	configOnce sync.Once

	// nodes is only touched by the reader goroutine.
	nodes map[uint32]*NodeInfo

	done      chan struct{}
	err       error
	failOnce  sync.Once
	closing   atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// Dial connects to the radio at address, performs the config handshake and
// returns once the radio has sent its node database.
func Dial(ctx context.Context, address string, handler Handler, opts Options) (*Client, error) {
	opts.setDefaults()

	if _, _, err := net.SplitHostPort(address); err != nil {
		address = net.JoinHostPort(address, DefaultPort)
	}

	dialer := &net.Dialer{Timeout: opts.DialTimeout}

	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", address, err)
	}

	c := newClient(conn, handler, opts)

	go c.readLoop()

	if err := c.handshake(ctx); err != nil {
		_ = c.Close()

		return nil, err
	}

	return c, nil
}

func newClient(conn net.Conn, handler Handler, opts Options) *Client {
	c := &Client{
		conn:       conn,
		opts:       opts,
		handler:    handler,
		now:        time.Now,
		configID:   rand.Uint32() | 1,
		configDone: make(chan struct{}),
		nodes:      make(map[uint32]*NodeInfo),
		done:       make(chan struct{}),
	}

	c.nextID.Store(rand.Uint32())

	return c
}

func (c *Client) handshake(ctx context.Context) error {
	if err := c.write(&ToRadio{WantConfigID: c.configID}); err != nil {
		return fmt.Errorf("%w: %w", ErrHandshakeFailed, err)
	}

	timer := time.NewTimer(c.opts.HandshakeTimeout)
	defer timer.Stop()

	select {
	case <-c.configDone:
		return nil
	case <-c.done:
		return fmt.Errorf("%w: %w", ErrHandshakeFailed, c.err)
	case <-timer.C:
		return ErrHandshakeTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// MyNodeNum is the radio's own node number, known after the handshake.
func (c *Client) MyNodeNum() uint32 {
	return c.myNodeNum.Load()
}

// Done is closed when the reader stops.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err reports why the reader stopped. Valid once Done is closed.
func (c *Client) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// SendPacket writes one application packet and returns its packet id.
func (c *Client) SendPacket(_ context.Context, out *models.OutboundPacket) (uint32, error) {
	dest, err := out.Target.DestinationNum()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPacketRejected, err)
	}

	id := c.nextID.Add(1)
	if id == 0 {
		id = c.nextID.Add(1)
	}

	data := &Data{
		PortNum: out.PortNum,
		Payload: out.Payload,
		ReplyID: out.ReplyID,
	}

	if out.Emoji {
		data.Emoji = 1
	}

	pkt := &MeshPacket{
		To:       dest,
		Channel:  out.Target.Channel,
		Decoded:  data,
		ID:       id,
		HopLimit: c.opts.HopLimit,
		WantAck:  out.WantAck,
	}

	if err := c.write(&ToRadio{Packet: pkt}); err != nil {
		return 0, err
	}

	return id, nil
}

// SendHeartbeat writes a keepalive so a dead socket is noticed.
func (c *Client) SendHeartbeat(_ context.Context) error {
	return c.write(&ToRadio{Heartbeat: true})
}

func (c *Client) write(msg *ToRadio) error {
	payload := EncodeToRadio(msg)
	if len(payload) > MaxPayloadSize {
		return fmt.Errorf("%w: %w: %d bytes", ErrPacketRejected, ErrFrameTooLarge, len(payload))
	}

	select {
	case <-c.done:
		return fmt.Errorf("%w: %w", ErrClientClosed, c.err)
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout)); err != nil {
		return err
	}

	return WriteFrame(c.conn, payload)
}

// Close shuts the connection down. Safe to call more than once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closing.Store(true)

		if err := c.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			c.closeErr = err
		}

		c.fail(ErrClientClosed)
	})

	return c.closeErr
}

func (c *Client) fail(err error) {
	c.failOnce.Do(func() {
		c.err = err
		close(c.done)
	})
}

func (c *Client) readLoop() {
	fr := NewFrameReader(c.conn)

	for {
		payload, err := fr.ReadFrame()
		if err != nil {
			if c.closing.Load() || errors.Is(err, net.ErrClosed) {
				c.fail(ErrClientClosed)
			} else {
				c.fail(err)
			}

			_ = c.conn.Close()

			return
		}

		msg, err := DecodeFromRadio(payload)
		if err != nil {
			log.Printf("Dropping undecodable frame from radio: %v", err)

			continue
		}

		c.handleFromRadio(msg)
	}
}

func (c *Client) handleFromRadio(msg *FromRadio) {
	switch {
	case msg.HasMyInfo:
		c.myNodeNum.Store(msg.MyNodeNum)
	case msg.NodeInfo != nil:
		c.nodes[msg.NodeInfo.Num] = msg.NodeInfo
		c.handler.HandleNodeInfo(ToNodeInfo(msg.NodeInfo, c.now()))
	case msg.Packet != nil:
		c.handleMeshPacket(msg.Packet)
	case msg.ConfigCompleteID != 0:
		if msg.ConfigCompleteID == c.configID {
			c.configOnce.Do(func() { close(c.configDone) })
		}
	case msg.Rebooted:
		log.Printf("Radio reported a reboot")
	}
}

// handleMeshPacket publishes the node update a packet implies before the
// packet itself, so the sender is known when the packet is processed.
func (c *Client) handleMeshPacket(p *MeshPacket) {
	now := c.now()

	if update := c.nodeUpdateFrom(p, now); update != nil {
		c.handler.HandleNodeInfo(update)
	}

	c.handler.HandlePacket(ToPacket(p, now))
}

// nodeUpdateFrom merges identity, position and telemetry packets into the
// session's node cache. The returned update carries only the new sample.
func (c *Client) nodeUpdateFrom(p *MeshPacket, now time.Time) *models.NodeInfo {
	d := p.Decoded
	if d == nil {
		return nil
	}

	entry, ok := c.nodes[p.From]
	if !ok {
		entry = &NodeInfo{Num: p.From}
		c.nodes[p.From] = entry
	}

	entry.LastHeard = p.RxTime
	if entry.LastHeard == 0 {
		entry.LastHeard = uint32(now.Unix())
	}

	update := &NodeInfo{Num: p.From, LastHeard: entry.LastHeard, SNR: p.RxSNR}
	if p.HopStart >= p.HopLimit {
		update.HopsAway = p.HopStart - p.HopLimit
	}

	switch d.PortNum {
	case models.PortNodeInfo:
		u, err := DecodeUser(d.Payload)
		if err != nil {
			log.Printf("Bad NODEINFO payload from %s: %v", models.FormatNodeID(p.From), err)

			return nil
		}

		entry.User = u
	case models.PortPosition:
		pos, err := DecodePosition(d.Payload)
		if err != nil {
			log.Printf("Bad POSITION payload from %s: %v", models.FormatNodeID(p.From), err)

			return nil
		}

		entry.Position = pos
		update.Position = pos
	case models.PortTelemetry:
		t, err := DecodeTelemetry(d.Payload)
		if err != nil {
			log.Printf("Bad TELEMETRY payload from %s: %v", models.FormatNodeID(p.From), err)

			return nil
		}

		if t.DeviceMetrics == nil {
			return nil
		}

		entry.DeviceMetrics = t.DeviceMetrics
		update.DeviceMetrics = t.DeviceMetrics
	default:
		return nil
	}

	update.User = entry.User

	return ToNodeInfo(update, now)
}
