package reactive

import "sync"

// Computed is a read-only value derived from a fixed set of sources. It is
// recomputed on Get only when a source has changed since the last run.
// Dependencies are declared up front, so cycles cannot be built.
type Computed[T any] struct {
	mu      sync.Mutex
	deps    []Source
	compute func() T
	value   T
	seen    []uint64
	valid   bool
}

// NewComputed creates a derived value over deps.
func NewComputed[T any](compute func() T, deps ...Source) *Computed[T] {
	return &Computed[T]{
		deps:    deps,
		compute: compute,
		seen:    make([]uint64, len(deps)),
	}
}

// Get returns the cached value, recomputing it if any dependency moved.
func (c *Computed[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Versions are read before computing, so a concurrent write during
	// compute leaves the cache stale and forces another run next time.
	versions := make([]uint64, len(c.deps))
	stale := !c.valid
	for i, d := range c.deps {
		versions[i] = d.Version()
		if versions[i] != c.seen[i] {
			stale = true
		}
	}
	if stale {
		c.value = c.compute()
		c.seen = versions
		c.valid = true
	}
	return c.value
}

// Version is the sum of the dependency versions.
func (c *Computed[T]) Version() uint64 {
	var v uint64
	for _, d := range c.deps {
		v += d.Version()
	}
	return v
}

// Observe runs fn after any dependency changes.
func (c *Computed[T]) Observe(fn func()) (cancel func()) {
	cancels := make([]func(), 0, len(c.deps))
	for _, d := range c.deps {
		cancels = append(cancels, d.Observe(fn))
	}
	return func() {
		for _, cancel := range cancels {
			cancel()
		}
	}
}
