/*
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

// Package commands implements the bot's private-message commands.
package commands

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mfreeman451/meshbot/pkg/dispatch"
	"github.com/mfreeman451/meshbot/pkg/models"
	"github.com/mfreeman451/meshbot/pkg/nodes"
	"github.com/mfreeman451/meshbot/pkg/prefs"
	"github.com/mfreeman451/meshbot/pkg/telemetry"
)

// Deps are the collaborators handed to every command.
type Deps struct {
	Sender    dispatch.Sender
	Nodes     nodes.Directory
	Telemetry *telemetry.Store
	Prefs     prefs.Store
	Admins    []models.NodeID

	// ResetCounters clears the daily packet counters. It is called from
	// within the router's event loop.
	ResetCounters func()
}

// Factory builds a Command bound to deps.
type Factory func(deps *Deps) dispatch.Command

// Registry maps command tokens such as "!ping" to factories. Commands are
// built once per registration.
type Registry struct {
	mu       sync.RWMutex
	deps     *Deps
	commands map[string]dispatch.Command
}

var _ dispatch.CommandFactory = (*Registry)(nil)

func NewRegistry(deps *Deps) *Registry {
	return &Registry{
		deps:     deps,
		commands: make(map[string]dispatch.Command),
	}
}

// NewDefaultRegistry registers the built-in commands.
func NewDefaultRegistry(deps *Deps) *Registry {
	r := NewRegistry(deps)

	builtins := []struct {
		token   string
		factory Factory
	}{
		{"!ping", newPing},
		{"!hello", newHello},
		{"!help", newHelp},
		{"!nodes", newNodes},
		{"!admin", newAdmin},
		{"!prefs", newPrefs},
		{"!enroll", newEnroll},
		{"!leave", newLeave},
		{"!whoami", newWhoAmI},
	}

	for _, b := range builtins {
		// tokens are distinct and well formed
		_ = r.Register(b.token, b.factory)
	}

	return r
}

// Register adds a command under token. Tokens are case-sensitive and must
// start with "!".
func (r *Registry) Register(token string, factory Factory) error {
	if !strings.HasPrefix(token, "!") || len(token) < 2 {
		return fmt.Errorf("%w: %q", errInvalidToken, token)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.commands[token]; ok {
		return fmt.Errorf("%w: %s", errDuplicateCommand, token)
	}

	r.commands[token] = factory(r.deps)

	return nil
}

func (r *Registry) Resolve(token string) (dispatch.Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[token]

	return cmd, ok
}

// Tokens lists the registered tokens, sorted.
func (r *Registry) Tokens() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tokens := make([]string, 0, len(r.commands))
	for t := range r.commands {
		tokens = append(tokens, t)
	}

	sort.Strings(tokens)

	return tokens
}
