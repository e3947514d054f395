// internal/app/system/viewstate/registry.go
package viewstate

import (
	"sync"
	"time"

	"github.com/dalemusser/peopledir/internal/app/roster"
)

// Registry holds the directory state of every active visitor.
//
// Events for one visitor are applied one at a time. The lock is only held
// while the reducer runs, never across a backend or upload call: a handler
// applies a *Started event, makes its call, then applies the result with
// the generation it got back.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

type entry struct {
	mu      sync.Mutex
	state   roster.State
	touched time.Time
	dead    bool // swept; callers holding it must look the visitor up again
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry), now: time.Now}
}

func (r *Registry) entry(id string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		e = &entry{touched: r.now()}
		r.entries[id] = e
	}
	return e
}

// locked runs fn on the visitor's live entry with its lock held. An entry
// swept between lookup and lock is skipped and the lookup retried, so the
// change lands on the entry the map holds.
func (r *Registry) locked(id string, fn func(e *entry)) {
	for {
		e := r.entry(id)
		e.mu.Lock()
		if e.dead {
			e.mu.Unlock()
			continue
		}
		fn(e)
		e.touched = r.now()
		e.mu.Unlock()
		return
	}
}

// Apply runs events through roster.Update for the visitor and returns the
// resulting state.
func (r *Registry) Apply(id string, events ...roster.Event) roster.State {
	var s roster.State
	r.locked(id, func(e *entry) {
		for _, ev := range events {
			e.state = roster.Update(e.state, ev)
		}
		s = e.state
	})
	return s
}

// Snapshot returns the visitor's current state.
func (r *Registry) Snapshot(id string) roster.State {
	var s roster.State
	r.locked(id, func(e *entry) { s = e.state })
	return s
}

// Has reports whether the visitor has state.
func (r *Registry) Has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[id]
	return ok
}

// Len is the number of visitors held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep drops visitors untouched for longer than idle and returns how many
// were dropped.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.entries {
		e.mu.Lock()
		if e.touched.Before(cutoff) {
			e.dead = true
			delete(r.entries, id)
			n++
		}
		e.mu.Unlock()
	}
	return n
}
