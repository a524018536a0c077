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

// Package bot pkg/bot/bot.go wires the transport, router, stores and
// handlers into a lifecycle.Service.
package bot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"sync"
	"time"

	"github.com/mfreeman451/meshbot/pkg/api"
	"github.com/mfreeman451/meshbot/pkg/commands"
	"github.com/mfreeman451/meshbot/pkg/config"
	"github.com/mfreeman451/meshbot/pkg/db"
	"github.com/mfreeman451/meshbot/pkg/lifecycle"
	"github.com/mfreeman451/meshbot/pkg/nodes"
	"github.com/mfreeman451/meshbot/pkg/responders"
	"github.com/mfreeman451/meshbot/pkg/router"
	"github.com/mfreeman451/meshbot/pkg/storage"
	"github.com/mfreeman451/meshbot/pkg/telemetry"
	"github.com/mfreeman451/meshbot/pkg/transport"
)

const (
	cleanupInterval = 6 * time.Hour
)

// Option customizes a Bot.
type Option func(*Bot)

// WithDialer replaces the TCP dialer used to reach the radio.
func WithDialer(d transport.Dialer) Option {
	return func(b *Bot) {
		b.dialer = d
	}
}

// Bot owns every long-lived component of the process.
type Bot struct {
	cfg    *config.Config
	dialer transport.Dialer

	db        *db.DB
	nodes     nodes.Directory
	memory    *nodes.Memory
	telemetry *telemetry.Store
	transport *transport.Transport
	router    *router.Router
	commands  *commands.Registry
	api       *api.Server

	// runMu guards the handoff between Start and Stop, which the lifecycle
	// server may run concurrently on shutdown.
	runMu       sync.Mutex
	stopped     bool
	unsubscribe func()
	wg          sync.WaitGroup

	healthMu   sync.Mutex
	healthHook func(serving bool)
}

var (
	_ lifecycle.Service        = (*Bot)(nil)
	_ lifecycle.HealthReporter = (*Bot)(nil)
)

// New builds the bot from cfg. Nothing touches the network until Start.
func New(cfg *config.Config, opts ...Option) (*Bot, error) {
	b := &Bot{
		cfg:    cfg,
		dialer: transport.TCPDialer{},
	}

	for _, opt := range opts {
		opt(b)
	}

	if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w %s: %w", errDataDir, cfg.Data.Dir, err)
	}

	database, err := db.New(cfg.Data.Path(cfg.Data.Database))
	if err != nil {
		return nil, err
	}

	b.db = database

	if err := b.build(); err != nil {
		_ = database.Close()

		return nil, err
	}

	return b, nil
}

func (b *Bot) build() error {
	cfg := b.cfg

	if cfg.Data.NodeStore == config.NodeStoreSQLite {
		b.nodes = b.db
	} else {
		b.memory = nodes.NewMemory()
		b.nodes = b.memory
	}

	b.telemetry = telemetry.NewStore(cfg.Router.OnlineThreshold)

	tr, err := transport.New(cfg.TransportConfig(), b.dialer, transport.WithStateHook(b.onTransportState))
	if err != nil {
		return err
	}

	b.transport = tr

	b.commands = commands.NewDefaultRegistry(&commands.Deps{
		Sender:        tr,
		Nodes:         b.nodes,
		Telemetry:     b.telemetry,
		Prefs:         b.db,
		Admins:        cfg.Admins(),
		ResetCounters: b.resetCounters,
	})

	if cfg.Data.TemplatesFile != "" {
		defs, err := commands.LoadTemplates(cfg.Data.Path(cfg.Data.TemplatesFile))
		if err != nil {
			return err
		}

		if err := b.commands.RegisterTemplates(defs); err != nil {
			return err
		}

		log.Printf("Registered %d template commands", len(defs))
	}

	reactions := responders.NewDefaultRegistry(&responders.Deps{
		Sender: tr,
		Prefs:  b.db,
	})

	deps := router.Deps{
		Nodes:      b.nodes,
		Telemetry:  b.telemetry,
		Commands:   b.commands,
		Responders: reactions,
		Logger:     b.db,
	}

	if cfg.Storage.Enabled {
		client, err := storage.New(cfg.StorageConfig())
		if err != nil {
			return err
		}

		deps.Mirror = client
	}

	var hub *api.Hub

	if cfg.API.Enabled {
		hub = api.NewHub()
		deps.Sink = hub
	}

	b.router, err = router.New(cfg.RouterConfig(), deps)
	if err != nil {
		return err
	}

	if hub != nil {
		b.api = api.NewServer(api.Deps{
			Nodes:     b.nodes,
			Telemetry: b.telemetry,
			Bot:       b.router,
			Link:      tr,
			Hub:       hub,
		})
	}

	return nil
}

// SetHealthHook implements lifecycle.HealthReporter. The bot reports
// serving while the radio link is connected.
func (b *Bot) SetHealthHook(fn func(serving bool)) {
	b.healthMu.Lock()
	defer b.healthMu.Unlock()

	b.healthHook = fn
}

func (b *Bot) onTransportState(s transport.State) {
	log.Printf("Radio link %s", s)

	b.healthMu.Lock()
	hook := b.healthHook
	b.healthMu.Unlock()

	if hook != nil {
		hook(s == transport.StateConnected)
	}
}

// resetCounters runs inside the router loop when an admin asks for it.
func (b *Bot) resetCounters() {
	b.router.ResetCounters()
}

// Start loads persisted state, connects to the radio and blocks until ctx
// is cancelled or the transport gives up reconnecting.
func (b *Bot) Start(ctx context.Context) error {
	b.runMu.Lock()
	if b.stopped {
		b.runMu.Unlock()

		return errStopped
	}

	b.loadSnapshots()

	b.unsubscribe = b.transport.Subscribe(b.router)

	b.wg.Add(1)
	b.runMu.Unlock()

	go func() {
		defer b.wg.Done()

		if err := b.router.Run(ctx); err != nil {
			log.Printf("Router stopped: %v", err)
		}
	}()

	if err := b.transport.Connect(ctx); err != nil {
		return fmt.Errorf("%w: %w", errConnect, err)
	}

	apiErr := make(chan error, 1)

	if b.api != nil {
		go func() {
			if err := b.api.Start(ctx, b.cfg.API.ListenAddr); err != nil {
				apiErr <- err
			}
		}()
	}

	return b.maintain(ctx, apiErr)
}

func (b *Bot) maintain(ctx context.Context, apiErr <-chan error) error {
	snapshotInterval := b.cfg.Data.SnapshotInterval
	if snapshotInterval <= 0 {
		snapshotInterval = 5 * time.Minute
	}

	snapshots := time.NewTicker(snapshotInterval)
	defer snapshots.Stop()

	cleanup := time.NewTicker(cleanupInterval)
	defer cleanup.Stop()

	b.cleanOldData()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-b.transport.Errors():
			return err
		case err := <-apiErr:
			return fmt.Errorf("%w: %w", errAPIServer, err)
		case <-snapshots.C:
			b.saveSnapshots()
		case <-cleanup.C:
			b.cleanOldData()
		}
	}
}

// Stop closes the radio link, persists state and closes the database.
func (b *Bot) Stop(_ context.Context) error {
	b.runMu.Lock()
	b.stopped = true
	unsubscribe := b.unsubscribe
	b.unsubscribe = nil
	b.runMu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}

	b.transport.Close()
	b.wg.Wait()

	b.saveSnapshots()

	return b.db.Close()
}

func (b *Bot) cleanOldData() {
	if b.cfg.Data.Retention <= 0 {
		return
	}

	if err := b.db.CleanOldData(b.cfg.Data.Retention); err != nil {
		log.Printf("Failed to clean old data: %v", err)
	}
}

type snapshotter interface {
	Load(path string) error
	Save(path string) error
}

func (b *Bot) snapshots() map[string]snapshotter {
	files := map[string]snapshotter{
		b.cfg.Data.Path(b.cfg.Data.TelemetrySnapshot): b.telemetry,
	}

	if b.memory != nil {
		files[b.cfg.Data.Path(b.cfg.Data.NodesSnapshot)] = b.memory
	}

	return files
}

// loadSnapshots starts from empty state for any file that is missing or
// unreadable.
func (b *Bot) loadSnapshots() {
	for path, s := range b.snapshots() {
		if path == "" {
			continue
		}

		err := s.Load(path)

		switch {
		case err == nil:
			log.Printf("Loaded snapshot %s", path)
		case errors.Is(err, fs.ErrNotExist):
			log.Printf("No snapshot at %s, starting empty", path)
		default:
			log.Printf("Warning: ignoring snapshot: %v", err)
		}
	}
}

func (b *Bot) saveSnapshots() {
	for path, s := range b.snapshots() {
		if path == "" {
			continue
		}

		if err := s.Save(path); err != nil {
			log.Printf("Failed to save snapshot: %v", err)
		}
	}
}
