package reactive

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignal_SetNotifies(t *testing.T) {
	s := NewSignal(1)
	var calls int
	cancel := s.Observe(func() { calls++ })

	s.Set(2)
	s.Update(func(v int) int { return v + 1 })

	assert.Equal(t, 3, s.Get())
	assert.Equal(t, uint64(2), s.Version())
	assert.Equal(t, 2, calls)

	cancel()
	s.Set(4)
	assert.Equal(t, 2, calls, "cancelled observer must not run")
}

func TestSignalFunc_SkipsEqual(t *testing.T) {
	s := NewSignalFunc(1, func(a, b int) bool { return a == b })
	var calls int
	s.Observe(func() { calls++ })

	s.Set(1)
	assert.Equal(t, 0, calls)
	assert.Equal(t, uint64(0), s.Version())

	s.Set(2)
	assert.Equal(t, 1, calls)
}

func TestSignal_ObserverMayWrite(t *testing.T) {
	a := NewSignal(0)
	b := NewSignal(0)
	a.Observe(func() { b.Set(a.Get() * 10) })

	a.Set(3)
	assert.Equal(t, 30, b.Get())
}

func TestSignal_ConcurrentUpdates(t *testing.T) {
	s := NewSignal(0)
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(func(v int) int { return v + 1 })
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Get())
}

func TestComputed_Lazy(t *testing.T) {
	a := NewSignal(2)
	b := NewSignal(3)
	var runs atomic.Int32
	sum := NewComputed(func() int {
		runs.Add(1)
		return a.Get() + b.Get()
	}, a, b)

	require.Equal(t, 5, sum.Get())
	require.Equal(t, 5, sum.Get())
	assert.Equal(t, int32(1), runs.Load(), "unchanged deps must reuse the cache")

	b.Set(10)
	assert.Equal(t, 12, sum.Get())
	assert.Equal(t, int32(2), runs.Load())
}

func TestComputed_Chained(t *testing.T) {
	a := NewSignal(1)
	double := NewComputed(func() int { return a.Get() * 2 }, a)
	plusOne := NewComputed(func() int { return double.Get() + 1 }, double)

	assert.Equal(t, 3, plusOne.Get())
	a.Set(5)
	assert.Equal(t, 11, plusOne.Get())
}

func TestComputed_Observe(t *testing.T) {
	a := NewSignal(1)
	b := NewSignal(1)
	c := NewComputed(func() int { return a.Get() + b.Get() }, a, b)

	var calls int
	cancel := c.Observe(func() { calls++ })
	a.Set(2)
	b.Set(2)
	assert.Equal(t, 2, calls)

	cancel()
	a.Set(3)
	assert.Equal(t, 2, calls)
}
