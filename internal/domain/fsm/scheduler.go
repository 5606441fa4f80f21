package fsm

import (
	"sync"
	"time"

	"github.com/okian/classplay/pkg/metrics"
)

// Scheduler keeps at most one pending timer per key. Each scheduled timer
// carries a token; a firing timer must Claim its token, so a timer that was
// replaced or cancelled while already on its way never takes effect.
type Scheduler struct {
	mu     sync.Mutex
	clock  Clock
	timers map[string]scheduled
	next   uint64
	closed bool
}

type scheduled struct {
	token uint64
	timer Timer
}

// NewScheduler creates a Scheduler on clock.
func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = RealClock()
	}
	return &Scheduler{clock: clock, timers: make(map[string]scheduled)}
}

// Schedule arranges for fire(token) to run after d, replacing any timer
// already pending under key. It is a no-op once the scheduler is stopped.
func (s *Scheduler) Schedule(key string, d time.Duration, fire func(token uint64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if prev, ok := s.timers[key]; ok {
		prev.timer.Stop()
		metrics.AddTimersPending(-1)
	}
	s.next++
	token := s.next
	s.timers[key] = scheduled{token: token, timer: s.clock.AfterFunc(d, func() { fire(token) })}
	metrics.AddTimersPending(1)
}

// Cancel stops the timer pending under key, if any.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.timers[key]
	if !ok {
		return false
	}
	prev.timer.Stop()
	delete(s.timers, key)
	metrics.AddTimersPending(-1)
	return true
}

// Claim consumes the pending entry for key when token is still current.
func (s *Scheduler) Claim(key string, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.timers[key]
	if !ok || cur.token != token {
		return false
	}
	delete(s.timers, key)
	metrics.AddTimersPending(-1)
	return true
}

// Pending returns the number of timers waiting to fire.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending timer and refuses new ones. It returns the
// number of timers cancelled.
func (s *Scheduler) Stop() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	n := len(s.timers)
	for key, cur := range s.timers {
		cur.timer.Stop()
		delete(s.timers, key)
	}
	metrics.AddTimersPending(-n)
	return n
}
