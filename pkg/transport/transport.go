/*-
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package transport keeps a radio session alive across connection drops.
// Sends never block on reconnection: a packet that cannot be written is
// buffered and replayed, in order, once a new session is established.
package transport

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/mfreeman451/meshbot/pkg/meshtastic"
	"github.com/mfreeman451/meshbot/pkg/models"
	"golang.org/x/time/rate"
)

// Option customizes a Transport.
type Option func(*Transport)

// WithSleep replaces the context-aware sleep used between reconnect attempts.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(t *Transport) {
		t.sleep = fn
	}
}

// WithClock replaces the clock used to stamp buffered packets.
func WithClock(now func() time.Time) Option {
	return func(t *Transport) {
		t.now = now
	}
}

// WithStateHook registers fn to be called after every state change.
func WithStateHook(fn func(State)) Option {
	return func(t *Transport) {
		t.onState = fn
	}
}

// Transport is the resilient wrapper around a radio Client.
type Transport struct {
	cfg     Config
	dialer  Dialer
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
	onState func(State)
	limiter *rate.Limiter
	errCh   chan error

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// sendMu orders live sends against buffer replay.
	sendMu sync.Mutex

	mu           sync.Mutex
	state        State
	client       Client
	buffer       *OutboundBuffer
	myID         models.NodeID
	reconnecting bool
	replaying    bool
	heartbeating bool
	closed       bool

	obsMu     sync.RWMutex
	observers map[int]Observer
	nextObsID int
}

// New creates a disconnected Transport. Call Connect to start it.
func New(cfg Config, dialer Dialer, opts ...Option) (*Transport, error) {
	if cfg.Address == "" {
		return nil, errAddressRequired
	}

	cfg.setDefaults()

	if err := cfg.Backoff.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	t := &Transport{
		cfg:       cfg,
		dialer:    dialer,
		now:       time.Now,
		sleep:     sleepContext,
		limiter:   rate.NewLimiter(cfg.replayLimit(), cfg.ReplayBurst),
		errCh:     make(chan error, 1),
		ctx:       ctx,
		cancel:    cancel,
		buffer:    NewOutboundBuffer(cfg.MaxBuffered),
		observers: make(map[int]Observer),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Subscribe registers o for transport events and returns a function that
// removes it again.
func (t *Transport) Subscribe(o Observer) func() {
	t.obsMu.Lock()
	id := t.nextObsID
	t.nextObsID++
	t.observers[id] = o
	t.obsMu.Unlock()

	return func() {
		t.obsMu.Lock()
		delete(t.observers, id)
		t.obsMu.Unlock()
	}
}

func (t *Transport) observerList() []Observer {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()

	ids := make([]int, 0, len(t.observers))
	for id := range t.observers {
		ids = append(ids, id)
	}

	sort.Ints(ids)

	list := make([]Observer, 0, len(ids))
	for _, id := range ids {
		list = append(list, t.observers[id])
	}

	return list
}

// inbound adapts the transport's observers to the client's handler.
type inbound struct {
	t *Transport
}

func (in inbound) HandlePacket(pkt *models.Packet) {
	for _, o := range in.t.observerList() {
		o.OnPacketReceived(pkt)
	}
}

func (in inbound) HandleNodeInfo(info *models.NodeInfo) {
	for _, o := range in.t.observerList() {
		o.OnNodeUpdated(info)
	}
}

// State returns the current connection state.
func (t *Transport) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state
}

// Buffered returns the number of packets waiting for replay.
func (t *Transport) Buffered() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.buffer.Len()
}

// MyID returns the radio's node id from the most recent session.
func (t *Transport) MyID() models.NodeID {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.myID
}

// Errors delivers a *ReconnectError when the reconnect budget runs out.
func (t *Transport) Errors() <-chan error {
	return t.errCh
}

// setStateLocked must be called with mu held. It reports whether the state
// changed so the hook can be fired after unlocking.
func (t *Transport) setStateLocked(s State) bool {
	if t.closed || t.state == s {
		return false
	}

	t.state = s

	return true
}

func (t *Transport) setState(s State) {
	t.mu.Lock()
	changed := t.setStateLocked(s)
	t.mu.Unlock()

	t.emitState(changed, s)
}

func (t *Transport) emitState(changed bool, s State) {
	if changed && t.onState != nil {
		t.onState(s)
	}
}

// Connect opens the first session and starts the heartbeat.
func (t *Transport) Connect(ctx context.Context) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()

	if closed {
		return ErrTransportClosed
	}

	t.setState(StateConnecting)

	if _, err := t.establish(ctx); err != nil {
		t.setState(StateDisconnected)

		return err
	}

	t.startHeartbeat()

	if err := t.replayBuffer(t.ctx); err != nil {
		log.Printf("Buffer replay interrupted: %v", err)
	}

	return nil
}

func (t *Transport) establish(ctx context.Context) (Client, error) {
	client, err := t.dialer.Dial(ctx, t.cfg.Address, inbound{t: t})
	if err != nil {
		return nil, &ConnectionError{Address: t.cfg.Address, Err: err}
	}

	myID := models.FormatNodeID(client.MyNodeNum())

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		t.closeClient(client)

		return nil, ErrTransportClosed
	}

	t.client = client
	t.myID = myID
	changed := t.setStateLocked(StateConnected)
	t.wg.Add(1)
	t.mu.Unlock()

	t.emitState(changed, StateConnected)

	go t.watch(client)

	log.Printf("Connected to %s as %s", t.cfg.Address, myID)

	for _, o := range t.observerList() {
		o.OnConnectionEstablished(myID)
	}

	return client, nil
}

// watch turns a dead reader into a reconnect.
func (t *Transport) watch(client Client) {
	defer t.wg.Done()

	select {
	case <-client.Done():
		t.handleFailure(client, client.Err())
	case <-t.ctx.Done():
	}
}

func (t *Transport) closeClient(client Client) {
	if err := client.Close(); err != nil {
		log.Printf("Error closing radio session: %v", err)
	}
}

// handleFailure tears client down and starts the reconnect loop unless one
// is already running. Failures reported for a stale client are ignored.
func (t *Transport) handleFailure(client Client, cause error) {
	t.mu.Lock()
	if t.closed || t.client != client {
		t.mu.Unlock()

		return
	}

	t.client = nil
	changed := t.setStateLocked(StateReconnectBackoff)

	start := !t.reconnecting
	if start {
		t.reconnecting = true
		t.wg.Add(1)
	}
	t.mu.Unlock()

	t.emitState(changed, StateReconnectBackoff)

	log.Printf("Lost connection to %s: %v", t.cfg.Address, cause)

	t.closeClient(client)

	if start {
		go t.reconnectLoop()
	}
}

func (t *Transport) reconnectLoop() {
	defer t.wg.Done()

	delay := t.cfg.Backoff.Initial

	for attempt := 1; ; attempt++ {
		log.Printf("Reconnecting to %s in %v (attempt %d)", t.cfg.Address, delay, attempt)

		if err := t.sleep(t.ctx, delay); err != nil {
			t.stopReconnecting()

			return
		}

		t.setState(StateConnecting)

		err := t.reconnectOnce()
		if err == nil {
			if t.finishReconnect() {
				// packets buffered by sends that failed on the old session
				// after the replay above finished
				t.startReplay()

				return
			}

			// dropped again straight after reconnecting; start a fresh schedule
			attempt, delay = 0, t.cfg.Backoff.Initial

			continue
		}

		if errors.Is(err, ErrTransportClosed) || t.ctx.Err() != nil {
			t.stopReconnecting()

			return
		}

		log.Printf("Reconnect attempt %d to %s failed: %v", attempt, t.cfg.Address, err)

		if t.cfg.MaxAttempts > 0 && attempt >= t.cfg.MaxAttempts {
			t.giveUp(attempt, err)

			return
		}

		t.setState(StateReconnectBackoff)

		delay = t.cfg.Backoff.Next(delay)
	}
}

func (t *Transport) reconnectOnce() error {
	if _, err := t.establish(t.ctx); err != nil {
		return err
	}

	return t.replayBuffer(t.ctx)
}

func (t *Transport) finishReconnect() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateConnected {
		return false
	}

	t.reconnecting = false

	return true
}

func (t *Transport) stopReconnecting() {
	t.mu.Lock()
	t.reconnecting = false
	t.mu.Unlock()
}

func (t *Transport) giveUp(attempts int, lastErr error) {
	t.mu.Lock()
	t.reconnecting = false
	changed := t.setStateLocked(StateDisconnected)
	pending := t.buffer.Len()
	t.mu.Unlock()

	t.emitState(changed, StateDisconnected)

	rerr := &ReconnectError{Address: t.cfg.Address, Attempts: attempts, LastErr: lastErr}

	log.Printf("Giving up: %v (%d packets still buffered)", rerr, pending)

	select {
	case t.errCh <- rerr:
	default:
	}
}

func (t *Transport) startHeartbeat() {
	t.mu.Lock()
	if t.heartbeating || t.closed {
		t.mu.Unlock()

		return
	}

	t.heartbeating = true
	t.wg.Add(1)
	t.mu.Unlock()

	go t.heartbeatLoop()
}

func (t *Transport) heartbeatLoop() {
	defer t.wg.Done()

	ticker := time.NewTicker(t.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.ctx.Done():
			return
		case <-ticker.C:
			t.SendHeartbeat()
		}
	}
}

// SendHeartbeat probes the current session. A failed probe starts the
// reconnect sequence.
func (t *Transport) SendHeartbeat() {
	t.mu.Lock()
	client := t.client
	connected := t.state == StateConnected
	t.mu.Unlock()

	if !connected || client == nil {
		return
	}

	if err := client.SendHeartbeat(t.ctx); err != nil {
		t.handleFailure(client, err)
	}
}

// SendText sends a text message. It never blocks on reconnection.
func (t *Transport) SendText(text string, target models.Target, wantAck bool) {
	t.send(&models.OutboundPacket{
		Target:  target,
		PortNum: models.PortTextMessage,
		Payload: []byte(text),
		WantAck: wantAck,
	})
}

// SendReaction sends emoji as a tapback on the packet replyID.
func (t *Transport) SendReaction(emoji string, replyID uint32, target models.Target) {
	t.send(&models.OutboundPacket{
		Target:  target,
		PortNum: models.PortTextMessage,
		Payload: []byte(emoji),
		ReplyID: replyID,
		Emoji:   true,
	})
}

func (t *Transport) send(pkt *models.OutboundPacket) {
	pkt.QueuedAt = t.now()

	if _, err := pkt.Target.DestinationNum(); err != nil {
		log.Printf("Dropping packet to %s: %v", describeTarget(pkt.Target), err)

		return
	}

	t.sendMu.Lock()
	defer t.sendMu.Unlock()

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		log.Printf("Transport closed, dropping packet to %s", describeTarget(pkt.Target))

		return
	}

	client := t.client

	// anything already buffered must go out first
	if client == nil || t.state != StateConnected || t.buffer.Len() > 0 {
		t.buffer.Push(pkt)
		t.mu.Unlock()

		t.startReplay()

		return
	}
	t.mu.Unlock()

	_, err := client.SendPacket(t.ctx, pkt)

	switch {
	case err == nil:
	case isRejected(err):
		log.Printf("Dropping packet to %s: %v", describeTarget(pkt.Target), err)
	default:
		log.Printf("Send to %s failed, buffering: %v", describeTarget(pkt.Target), err)

		t.mu.Lock()
		t.buffer.Push(pkt)
		t.mu.Unlock()

		// A stale client fails after its replacement already replayed;
		// the live session must pick this packet up.
		t.handleFailure(client, err)
		t.startReplay()
	}
}

// isRejected reports errors that depend on the packet, not the link.
// Resending such a packet on any session fails the same way.
func isRejected(err error) bool {
	return errors.Is(err, meshtastic.ErrPacketRejected) ||
		errors.Is(err, meshtastic.ErrFrameTooLarge) ||
		errors.Is(err, models.ErrInvalidNodeID)
}

// startReplay drains the buffer on the live session when neither a
// reconnect nor another replay is already doing it.
func (t *Transport) startReplay() {
	t.mu.Lock()
	if t.closed || t.replaying || t.reconnecting || t.state != StateConnected || t.buffer.Len() == 0 {
		t.mu.Unlock()

		return
	}

	t.replaying = true
	t.wg.Add(1)
	t.mu.Unlock()

	go func() {
		defer t.wg.Done()

		for {
			err := t.replayBuffer(t.ctx)
			if err != nil {
				log.Printf("Buffer replay interrupted: %v", err)
			}

			t.mu.Lock()
			again := err == nil && !t.closed && !t.reconnecting &&
				t.state == StateConnected && t.buffer.Len() > 0
			if !again {
				t.replaying = false
			}
			t.mu.Unlock()

			if !again {
				return
			}
		}
	}()
}

// replayBuffer resends buffered packets oldest first. It stops at the first
// failure and leaves the rest buffered.
func (t *Transport) replayBuffer(ctx context.Context) error {
	replayed := 0

	for {
		t.mu.Lock()
		pending := t.buffer.Len()
		t.mu.Unlock()

		if pending == 0 {
			if replayed > 0 {
				log.Printf("Replayed %d buffered packets", replayed)
			}

			return nil
		}

		if err := t.limiter.Wait(ctx); err != nil {
			return err
		}

		sent, err := t.replayOne(ctx)
		if err != nil {
			return err
		}

		if !sent {
			return nil
		}

		replayed++
	}
}

func (t *Transport) replayOne(ctx context.Context) (bool, error) {
	t.sendMu.Lock()
	defer t.sendMu.Unlock()

	t.mu.Lock()
	pkt, ok := t.buffer.Peek()
	client := t.client
	connected := t.state == StateConnected && !t.closed
	t.mu.Unlock()

	if !ok {
		return false, nil
	}

	if !connected || client == nil {
		return false, ErrNotConnected
	}

	if _, err := client.SendPacket(ctx, pkt); err != nil {
		if !isRejected(err) {
			t.handleFailure(client, err)

			return false, fmt.Errorf("replay to %s failed: %w", describeTarget(pkt.Target), err)
		}

		log.Printf("Dropping buffered packet to %s: %v", describeTarget(pkt.Target), err)
	}

	t.mu.Lock()
	t.buffer.Pop(pkt)
	t.mu.Unlock()

	return true, nil
}

// Close stops reconnecting, closes the session and waits for background
// loops to exit. Safe to call more than once.
func (t *Transport) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()

		return
	}

	changed := t.state != StateDisconnected
	t.state = StateDisconnected
	t.closed = true
	client := t.client
	t.client = nil
	pending := t.buffer.Len()
	t.mu.Unlock()

	t.cancel()

	if client != nil {
		t.closeClient(client)
	}

	t.wg.Wait()

	t.emitState(changed, StateDisconnected)

	if pending > 0 {
		log.Printf("Transport closed with %d unsent packets", pending)
	}
}
