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

// Package router pkg/router/router.go is the single consumer of transport
// events. It records telemetry, keeps the node directory current and
// dispatches text messages to commands and responders.
package router

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/mfreeman451/meshbot/pkg/dispatch"
	"github.com/mfreeman451/meshbot/pkg/models"
	"github.com/mfreeman451/meshbot/pkg/nodes"
	"github.com/mfreeman451/meshbot/pkg/telemetry"
)

// Deps are the collaborators the router drives. Responders, Mirror and Sink
// are optional.
type Deps struct {
	Nodes      nodes.Directory
	Telemetry  *telemetry.Store
	Commands   dispatch.CommandFactory
	Responders dispatch.ResponderFactory
	Logger     dispatch.CommandLogger
	Mirror     dispatch.StorageMirror
	Sink       EventSink
}

// Router serializes all event processing on the goroutine running Run.
type Router struct {
	Deps

	cfg      Config
	resetAt  *timeOfDay
	events   chan event
	mirrorQ  chan mirrorJob
	stopped  chan struct{}
	stopOnce sync.Once
	now      func() time.Time
	newTimer func(d time.Duration) resetTimer

	mu           sync.RWMutex
	myID         models.NodeID
	initComplete bool
}

// Option customizes a Router.
type Option func(*Router)

// WithClock replaces the router's clock.
func WithClock(now func() time.Time) Option {
	return func(r *Router) {
		r.now = now
	}
}

// resetTimer is the part of *time.Timer the daily schedule uses.
type resetTimer interface {
	Chan() <-chan time.Time
	Reset(d time.Duration) bool
	Stop() bool
}

type stdTimer struct {
	*time.Timer
}

func (t stdTimer) Chan() <-chan time.Time {
	return t.C
}

func newStdTimer(d time.Duration) resetTimer {
	return stdTimer{time.NewTimer(d)}
}

// mirrorJob is one write waiting for the storage mirror.
type mirrorJob struct {
	what  string
	store func(ctx context.Context) error
}

func New(cfg Config, deps Deps, opts ...Option) (*Router, error) {
	if deps.Nodes == nil || deps.Telemetry == nil || deps.Commands == nil || deps.Logger == nil {
		return nil, errMissingCollab
	}

	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}

	if cfg.MirrorQueueSize <= 0 {
		cfg.MirrorQueueSize = defaultMirrorQueueSize
	}

	if cfg.HandlerTimeout <= 0 {
		cfg.HandlerTimeout = defaultHandlerTimeout
	}

	if cfg.DailyResetAt == "" {
		cfg.DailyResetAt = defaultResetAt
	}

	r := &Router{
		Deps:     deps,
		cfg:      cfg,
		events:   make(chan event, cfg.QueueSize),
		stopped:  make(chan struct{}),
		now:      time.Now,
		newTimer: newStdTimer,
	}

	if deps.Mirror != nil {
		r.mirrorQ = make(chan mirrorJob, cfg.MirrorQueueSize)
	}

	if !strings.EqualFold(cfg.DailyResetAt, "off") {
		tod, err := parseTimeOfDay(cfg.DailyResetAt)
		if err != nil {
			return nil, err
		}

		r.resetAt = &tod
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// MyID is the bot's own node id, empty until the first connection.
func (r *Router) MyID() models.NodeID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.myID
}

// InitComplete reports whether a connection has been established.
func (r *Router) InitComplete() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.initComplete
}

func (r *Router) OnConnectionEstablished(myID models.NodeID) {
	r.enqueue(event{kind: kindConnected, myID: myID})
}

func (r *Router) OnPacketReceived(pkt *models.Packet) {
	r.enqueue(event{kind: kindPacket, pkt: pkt})
}

func (r *Router) OnNodeUpdated(info *models.NodeInfo) {
	r.enqueue(event{kind: kindNodeUpdated, info: info})
}

// enqueue blocks while the queue is full and gives up only once Run has
// exited.
func (r *Router) enqueue(ev event) {
	select {
	case r.events <- ev:
	case <-r.stopped:
		log.Printf("Router stopped, dropping event of kind %d", ev.kind)
	}
}

// Sync waits until every event queued before the call has been processed.
func (r *Router) Sync(ctx context.Context) error {
	done := make(chan struct{})

	select {
	case r.events <- event{kind: kindBarrier, barrier: done}:
	case <-r.stopped:
		return errRouterStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-r.stopped:
		return errRouterStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes events and the daily counter reset until ctx is cancelled.
// Mirror writes still queued at that point are flushed before it returns.
func (r *Router) Run(ctx context.Context) error {
	defer r.stopOnce.Do(func() { close(r.stopped) })

	if r.mirrorQ != nil {
		done := make(chan struct{})

		go func() {
			defer close(done)

			r.runMirror(ctx)
		}()

		// only the loop below enqueues, so closing here is safe
		defer func() {
			close(r.mirrorQ)
			<-done
		}()
	}

	var (
		resetC <-chan time.Time
		timer  resetTimer
	)

	if r.resetAt != nil {
		timer = r.newTimer(r.resetAt.until(r.now()))
		defer timer.Stop()

		resetC = timer.Chan()

		log.Printf("Daily packet counter reset scheduled at %s", r.resetAt)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-r.events:
			r.handle(ctx, ev)
		case <-resetC:
			r.ResetCounters()
			timer.Reset(r.resetAt.until(r.now()))
		}
	}
}

func (r *Router) handle(ctx context.Context, ev event) {
	switch ev.kind {
	case kindConnected:
		r.handleConnected(ev.myID)
	case kindPacket:
		r.handlePacket(ctx, ev.pkt)
	case kindNodeUpdated:
		r.handleNodeUpdated(ev.info)
	case kindBarrier:
		close(ev.barrier)
	}
}

func (r *Router) handleConnected(myID models.NodeID) {
	r.mu.Lock()
	r.myID = myID
	r.initComplete = true
	r.mu.Unlock()

	online := r.Telemetry.Online()
	offline := r.Telemetry.Offline()

	log.Printf("Connected to mesh as %s: %d nodes online, %d offline", myID, len(online), len(offline))

	r.publish(Event{Type: EventConnected, NodeID: myID, Count: len(online)})
}

func (r *Router) handlePacket(ctx context.Context, pkt *models.Packet) {
	if pkt == nil {
		return
	}

	if r.Mirror != nil {
		r.mirror(fmt.Sprintf("packet %d from %s", pkt.ID, pkt.From), func(ctx context.Context) error {
			return r.Mirror.StoreRawPacket(ctx, pkt)
		})
	}

	if _, err := r.Nodes.GetByID(pkt.From); err != nil {
		if !errors.Is(err, nodes.ErrNodeNotFound) {
			log.Printf("Failed to look up sender %s: %v", pkt.From, err)
		}

		return
	}

	myID := r.MyID()

	// The radio's own periodic telemetry would dominate the busiest-node
	// statistics, so it is not counted. Other self traffic is.
	if pkt.From != myID || pkt.PortNum != models.PortTelemetry {
		r.Telemetry.RecordPacket(pkt.From, pkt.PortNum)
	}

	r.publish(Event{Type: EventPacket, NodeID: pkt.From, PortNum: pkt.PortNum.String()})

	if !pkt.IsText() || pkt.Emoji || pkt.From == myID {
		return
	}

	if myID != "" && pkt.To == myID {
		r.dispatchCommand(ctx, pkt)

		return
	}

	r.dispatchResponder(ctx, pkt)
}

func (r *Router) dispatchCommand(ctx context.Context, pkt *models.Packet) {
	log.Printf("Received private message from %s: %q", pkt.From, pkt.Text)

	cmd, ok := r.Commands.Resolve(pkt.FirstToken())
	if !ok {
		if err := r.Logger.LogUnknownRequest(pkt.From, pkt.Text); err != nil {
			log.Printf("Failed to log unknown request from %s: %v", pkt.From, err)
		}

		r.publish(Event{Type: EventUnknownRequest, NodeID: pkt.From, Text: pkt.Text})

		return
	}

	if err := r.Logger.LogCommand(pkt.From, cmd, pkt.Text); err != nil {
		log.Printf("Failed to log command %s from %s: %v", cmd.Name(), pkt.From, err)
	}

	r.publish(Event{Type: EventCommand, NodeID: pkt.From, Text: pkt.Text, Handler: cmd.Name()})

	err := r.invoke(ctx, func(ctx context.Context) error {
		return cmd.HandlePacket(ctx, pkt)
	})
	if err != nil {
		log.Printf("Command %s failed for %s (%q): %v", cmd.Name(), pkt.From, pkt.Text, err)
	}
}

func (r *Router) dispatchResponder(ctx context.Context, pkt *models.Packet) {
	if r.Responders == nil {
		return
	}

	responder, ok := r.Responders.Match(pkt.Text)
	if !ok {
		return
	}

	var handled bool

	err := r.invoke(ctx, func(ctx context.Context) error {
		var err error

		handled, err = responder.HandlePacket(ctx, pkt)

		return err
	})
	if err != nil {
		log.Printf("Responder %s failed for %s (%q): %v", responder.Name(), pkt.From, pkt.Text, err)

		return
	}

	if !handled {
		return
	}

	if err := r.Logger.LogResponderHandled(pkt.From, responder, pkt.Text); err != nil {
		log.Printf("Failed to log responder %s for %s: %v", responder.Name(), pkt.From, err)
	}

	r.publish(Event{Type: EventResponder, NodeID: pkt.From, Text: pkt.Text, Handler: responder.Name()})
}

// invoke runs fn with the handler timeout, converting a panic into an error.
// It stops waiting once the timeout expires even if fn has not returned.
func (r *Router) invoke(ctx context.Context, fn func(ctx context.Context) error) error {
	hctx, cancel := context.WithTimeout(ctx, r.cfg.HandlerTimeout)
	defer cancel()

	done := make(chan error, 1)

	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- fmt.Errorf("%w: %v", errHandlerPanic, p)
			}
		}()

		done <- fn(hctx)
	}()

	select {
	case err := <-done:
		return err
	case <-hctx.Done():
		if err := ctx.Err(); err != nil {
			return err
		}

		return fmt.Errorf("%w after %v: %w", errHandlerTimeout, r.cfg.HandlerTimeout, hctx.Err())
	}
}

// mirror queues a write for the storage mirror without blocking the event
// loop. When the backend falls behind, new writes are dropped.
func (r *Router) mirror(what string, store func(ctx context.Context) error) {
	select {
	case r.mirrorQ <- mirrorJob{what: what, store: store}:
	default:
		log.Printf("Mirror queue full, dropping %s", what)
	}
}

func (r *Router) runMirror(ctx context.Context) {
	// writes queued before shutdown still get their own deadline
	base := context.WithoutCancel(ctx)

	for job := range r.mirrorQ {
		jctx, cancel := context.WithTimeout(base, mirrorTimeout)

		if err := job.store(jctx); err != nil {
			log.Printf("Failed to mirror %s: %v", job.what, err)
		}

		cancel()
	}
}

func (r *Router) handleNodeUpdated(info *models.NodeInfo) {
	if info == nil || info.User == nil {
		return
	}

	user := *info.User
	if user.ID == "" {
		user.ID = models.FormatNodeID(info.Num)
	}

	created, err := r.Nodes.Upsert(&user, info.Position, info.DeviceMetrics)
	if err != nil {
		log.Printf("Failed to store node %s: %v", user.ID, err)

		return
	}

	r.Telemetry.Touch(user.ID, info.LastHeard)

	if r.Mirror != nil {
		r.mirror("node "+user.ID.String(), func(ctx context.Context) error {
			return r.Mirror.StoreNode(ctx, &user)
		})
	}

	if created && r.InitComplete() {
		heard := "never"
		if !info.LastHeard.IsZero() {
			heard = telemetry.FormatAgo(info.LastHeard, r.now())
		}

		log.Printf("New node discovered: %s [%s] %s (last heard %s)", user.LongName, user.ShortName, user.ID, heard)

		r.publish(Event{Type: EventNodeDiscovered, NodeID: user.ID, Text: user.LongName})

		return
	}

	r.publish(Event{Type: EventNodeUpdated, NodeID: user.ID})
}

// ResetCounters logs who sent packets since the last reset and then clears
// the daily counters. It is used by the schedule and by admin commands.
func (r *Router) ResetCounters() {
	since := r.Telemetry.CounterResetTime()
	busiest := r.Telemetry.Busiest(0)

	if len(busiest) == 0 {
		log.Printf("Resetting packet counters, no packets since %s", since.Format(time.RFC3339))
	} else {
		parts := make([]string, 0, len(busiest))
		total := 0

		for _, nc := range busiest {
			parts = append(parts, fmt.Sprintf("%s=%d", r.displayName(nc.ID), nc.Count))
			total += nc.Count
		}

		log.Printf("Resetting packet counters, %d packets from %d nodes since %s: %s",
			total, len(busiest), since.Format(time.RFC3339), strings.Join(parts, ", "))
	}

	r.Telemetry.ResetDaily()

	r.publish(Event{Type: EventCountersReset, Count: len(busiest)})
}

func (r *Router) displayName(id models.NodeID) string {
	u, err := r.Nodes.GetByID(id)
	if err != nil || u.ShortName == "" {
		return id.String()
	}

	return u.ShortName
}

func (r *Router) publish(ev Event) {
	if r.Sink == nil {
		return
	}

	if ev.Time.IsZero() {
		ev.Time = r.now()
	}

	r.Sink.Publish(ev)
}
