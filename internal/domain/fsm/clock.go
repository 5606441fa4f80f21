// Package fsm runs screen state machines: pure reducers whose delayed
// transitions and celebrations are carried out by a lifecycle-owned runtime.
package fsm

import (
	"sort"
	"sync"
	"time"
)

// Timer is a scheduled callback that can be stopped before it fires.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Implementations must run f at most once.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// RealClock returns a Clock backed by the time package.
func RealClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// ManualClock is a Clock that only moves when Advance is called. Callbacks
// run synchronously on the goroutine calling Advance, in deadline order.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	seq     uint64
	pending []*manualTimer
}

type manualTimer struct {
	clock *ManualClock
	when  time.Time
	seq   uint64
	f     func()
	done  bool
}

// NewManualClock returns a ManualClock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the clock's current time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc registers f to run once the clock has advanced by d.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &manualTimer{clock: c, when: c.now.Add(d), seq: c.seq, f: f}
	c.pending = append(c.pending, t)
	sort.SliceStable(c.pending, func(i, j int) bool {
		if c.pending[i].when.Equal(c.pending[j].when) {
			return c.pending[i].seq < c.pending[j].seq
		}
		return c.pending[i].when.Before(c.pending[j].when)
	})
	return t
}

// Advance moves the clock forward by d, firing every callback that falls due.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		if len(c.pending) == 0 || c.pending[0].when.After(target) {
			c.now = target
			c.mu.Unlock()
			return
		}
		t := c.pending[0]
		c.pending = c.pending[1:]
		t.done = true
		c.now = t.when
		c.mu.Unlock()

		t.f()
	}
}

// Pending returns the number of callbacks waiting to fire.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (t *manualTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	for i, p := range c.pending {
		if p == t {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			break
		}
	}
	return true
}
