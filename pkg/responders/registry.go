// Package responders implements handlers for public channel messages that
// match a trigger pattern.
package responders

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"sync"

	"github.com/mfreeman451/meshbot/pkg/dispatch"
	"github.com/mfreeman451/meshbot/pkg/prefs"
)

var (
	errInvalidPattern = errors.New("invalid trigger pattern")
	errNoPatterns     = errors.New("responder needs at least one trigger pattern")
)

// TestingPattern matches messages that open with "test" or "testing".
const TestingPattern = `(?i)^\s*test(ing)?\b`

// DefaultReactions are the emoji the testing responder picks from.
var DefaultReactions = []string{"👍", "😊", "🎉"}

// Deps are the collaborators handed to every responder.
type Deps struct {
	Sender dispatch.Sender
	Prefs  prefs.Store

	// Intn returns a number in [0, n). Defaults to math/rand.
	Intn func(n int) int
}

// Factory builds a Responder bound to deps.
type Factory func(deps *Deps) dispatch.Responder

type entry struct {
	patterns  []*regexp.Regexp
	responder dispatch.Responder
}

// Registry matches message text against trigger patterns in registration
// order; the first responder with a matching pattern wins.
type Registry struct {
	mu      sync.RWMutex
	deps    *Deps
	entries []entry
}

var _ dispatch.ResponderFactory = (*Registry)(nil)

func NewRegistry(deps *Deps) *Registry {
	if deps.Intn == nil {
		deps.Intn = rand.Intn
	}

	return &Registry{deps: deps}
}

// NewDefaultRegistry registers the reaction responder for "test"/"testing".
func NewDefaultRegistry(deps *Deps) *Registry {
	r := NewRegistry(deps)

	_ = r.Register([]string{TestingPattern}, func(d *Deps) dispatch.Responder {
		return NewReactionResponder(d, DefaultReactions)
	})

	return r
}

func (r *Registry) Register(patterns []string, factory Factory) error {
	if len(patterns) == 0 {
		return errNoPatterns
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("%w %q: %w", errInvalidPattern, p, err)
		}

		compiled = append(compiled, re)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry{patterns: compiled, responder: factory(r.deps)})

	return nil
}

func (r *Registry) Match(text string) (dispatch.Responder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		for _, re := range e.patterns {
			if re.MatchString(text) {
				return e.responder, true
			}
		}
	}

	return nil, false
}
