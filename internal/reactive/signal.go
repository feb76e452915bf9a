// Package reactive provides small observable values used by the note store.
//
// A Signal holds a value and notifies observers after every change. A
// Computed derives a value from one or more sources and recomputes lazily
// when any source version moves.
package reactive

import (
	"sync"
)

// Source is anything a Computed can depend on.
type Source interface {
	// Version increases on every change.
	Version() uint64
	// Observe registers fn to run after every change and returns a func
	// that unregisters it.
	Observe(fn func()) (cancel func())
}

// Signal is a concurrency-safe observable value.
type Signal[T any] struct {
	mu        sync.RWMutex
	value     T
	version   uint64
	equal     func(a, b T) bool
	observers observers
}

// NewSignal creates a signal holding initial.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial}
}

// NewSignalFunc creates a signal that skips updates for which equal
// reports true.
func NewSignalFunc[T any](initial T, equal func(a, b T) bool) *Signal[T] {
	return &Signal[T]{value: initial, equal: equal}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Version returns the change counter.
func (s *Signal[T]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Set replaces the value and notifies observers.
func (s *Signal[T]) Set(v T) {
	s.Update(func(T) T { return v })
}

// Update replaces the value with fn(current) atomically with respect to
// other writers. Observers run after the lock is released, so they may
// read or write the signal.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	next := fn(s.value)
	if s.equal != nil && s.equal(s.value, next) {
		s.mu.Unlock()
		return
	}
	s.value = next
	s.version++
	s.mu.Unlock()

	s.observers.notify()
}

// Observe registers fn to run after every change.
func (s *Signal[T]) Observe(fn func()) (cancel func()) {
	return s.observers.add(fn)
}

type observers struct {
	mu   sync.Mutex
	next int
	fns  map[int]func()
}

func (o *observers) add(fn func()) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fns == nil {
		o.fns = make(map[int]func())
	}
	id := o.next
	o.next++
	o.fns[id] = fn
	return func() {
		o.mu.Lock()
		delete(o.fns, id)
		o.mu.Unlock()
	}
}

func (o *observers) notify() {
	o.mu.Lock()
	fns := make([]func(), 0, len(o.fns))
	for _, fn := range o.fns {
		fns = append(fns, fn)
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
