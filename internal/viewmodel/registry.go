package viewmodel

import (
	"context"
	"sync"
	"time"
)

type screenKey struct {
	session string
	screen  string
}

type entry struct {
	value    any
	lastSeen time.Time
}

// Registry keeps the screen containers of each browser session so a screen re-mounted by the
// next request sees its last-good data.
type Registry struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	screens map[screenKey]*entry
}

// NewRegistry creates a registry whose idle sessions are evicted after ttl.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		ttl:     ttl,
		now:     time.Now,
		screens: make(map[screenKey]*entry),
	}
}

// Screen returns the value registered for (sessionID, key), creating it with factory on first use.
func Screen[T any](r *Registry, sessionID, key string, factory func() T) T {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := screenKey{session: sessionID, screen: key}
	if e, ok := r.screens[k]; ok {
		if v, ok := e.value.(T); ok {
			e.lastSeen = r.now()
			return v
		}
	}
	v := factory()
	r.screens[k] = &entry{value: v, lastSeen: r.now()}
	return v
}

// Drop forgets every screen of a session, on logout.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.screens {
		if k.session == sessionID {
			delete(r.screens, k)
		}
	}
}

// Len returns the number of live screens.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.screens)
}

// Sweep removes screens not touched within the ttl and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-r.ttl)
	removed := 0
	for k, e := range r.screens {
		if e.lastSeen.Before(cutoff) {
			delete(r.screens, k)
			removed++
		}
	}
	return removed
}

// Run sweeps on every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
