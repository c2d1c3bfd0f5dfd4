// Package cache is the client's request-scoped memo of server resources.
// Entries are keyed by (resource, mode) so the authenticated and guest data
// universes never mix, and mutations discard exactly the entries they may
// have staled. There is no push channel: consistency comes entirely from the
// invalidation rules the operation layer applies.
package cache

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Key identifies one cached resource within one session mode.
type Key struct {
	Resource string
	Mode     string
}

// Coordinator memoizes successful fetches per (resource, mode) and collapses
// concurrent fetches for the same key into a single network call. Failures
// are shared by the callers of the in-flight call but never memoized: the
// next fetch re-executes.
//
// Invalidation wins over an in-flight fetch: each key carries a generation
// that invalidation bumps, and a flight only memoizes its result if the
// generation it started under is still current. The very next fetch after an
// invalidation therefore always goes to the network, even when the
// invalidation landed mid-flight.
type Coordinator struct {
	mu      sync.Mutex
	entries map[Key]any
	gens    map[Key]uint64
	flight  singleflight.Group
}

// New creates an empty Coordinator.
func New() *Coordinator {
	return &Coordinator{
		entries: make(map[Key]any),
		gens:    make(map[Key]uint64),
	}
}

// Fetch returns the memoized value for key, or runs fn to produce it.
// Concurrent calls for the same key while fn is in flight share its outcome.
func (c *Coordinator) Fetch(ctx context.Context, key Key, fn func(ctx context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if v, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	v, err, _ := c.flight.Do(flightKey(key), func() (any, error) {
		// Re-check: an earlier flight may have populated the entry between
		// the miss above and this callback running.
		c.mu.Lock()
		if v, ok := c.entries[key]; ok {
			c.mu.Unlock()
			return v, nil
		}
		// Register the key so an invalidation issued while fn runs is
		// observable at store time.
		gen := c.gens[key]
		c.gens[key] = gen
		c.mu.Unlock()

		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		// An invalidation during fn bumped the generation: hand the value to
		// the callers that were already in flight, but do not memoize it.
		if c.gens[key] == gen {
			c.entries[key] = v
		}
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Invalidate discards the entry for resource in every mode, so the next
// fetch re-executes against the network. A fetch in flight for the resource
// has its result discarded rather than memoized.
func (c *Coordinator) Invalidate(resource string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.gens {
		if k.Resource == resource {
			c.invalidateKeyLocked(k)
		}
	}
}

// InvalidatePrefix discards every entry whose resource starts with prefix.
func (c *Coordinator) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.gens {
		if strings.HasPrefix(k.Resource, prefix) {
			c.invalidateKeyLocked(k)
		}
	}
}

// InvalidateAll discards every entry. Used when the session mode changes:
// the two modes are disjoint data universes.
func (c *Coordinator) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]any)
	for k := range c.gens {
		c.gens[k]++
		c.flight.Forget(flightKey(k))
	}
}

// invalidateKeyLocked drops one key: the memoized entry goes, the generation
// advances so a concurrent flight cannot store a stale result, and the flight
// key is forgotten so a later fetch starts fresh instead of joining it.
// Caller holds c.mu.
func (c *Coordinator) invalidateKeyLocked(k Key) {
	delete(c.entries, k)
	c.gens[k]++
	c.flight.Forget(flightKey(k))
}

// Len returns the number of memoized entries.
func (c *Coordinator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Fetch is the typed wrapper over Coordinator.Fetch.
func Fetch[T any](ctx context.Context, c *Coordinator, key Key, fn func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// flightKey flattens a Key for singleflight's string keys. Resources never
// contain NUL, so the separator is unambiguous.
func flightKey(k Key) string {
	return k.Mode + "\x00" + k.Resource
}
