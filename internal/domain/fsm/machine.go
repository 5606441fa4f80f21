package fsm

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/classplay/pkg/logger"
)

// Reducer computes the next state for one event. It must not have side
// effects; everything else is expressed as commands.
type Reducer[S, E any] func(state S, event E) (S, []Command)

// Machine owns the state of one screen. Every event, whether sent by a
// caller or delivered by a timer, is applied under the same mutex.
type Machine[S, E any] struct {
	mu     sync.Mutex
	state  S
	reduce Reducer[S, E]
	timers *Scheduler
	closed bool

	celebrate func(Burst)
	onChange  func()
	logger    logger.Logger
}

type settings struct {
	clock     Clock
	celebrate func(Burst)
	onChange  func()
	logger    logger.Logger
}

// Option configures a Machine.
type Option func(*settings)

// WithClock sets the clock used for delayed transitions.
func WithClock(clock Clock) Option {
	return func(s *settings) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithCelebrate sets the sink for Celebrate commands.
func WithCelebrate(fn func(Burst)) Option {
	return func(s *settings) {
		s.celebrate = fn
	}
}

// WithOnChange sets a callback run after every applied event, outside the lock.
func WithOnChange(fn func()) Option {
	return func(s *settings) {
		s.onChange = fn
	}
}

// WithLogger sets the machine logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Machine in state initial.
func New[S, E any](initial S, reduce Reducer[S, E], opts ...Option) *Machine[S, E] {
	cfg := settings{clock: RealClock(), logger: logger.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Machine[S, E]{
		state:     initial,
		reduce:    reduce,
		timers:    NewScheduler(cfg.clock),
		celebrate: cfg.celebrate,
		onChange:  cfg.onChange,
		logger:    cfg.logger,
	}
}

// Send applies event and returns the resulting state. It reports false when
// the machine is closed, in which case the state is left untouched.
func (m *Machine[S, E]) Send(event E) (S, bool) {
	_, next, ok := m.Step(event)
	return next, ok
}

// Step is Send that also returns the state the event was applied to.
func (m *Machine[S, E]) Step(event E) (prev, next S, ok bool) {
	m.mu.Lock()
	prev = m.state
	if m.closed {
		m.mu.Unlock()
		return prev, prev, false
	}
	bursts := m.apply(event)
	next = m.state
	m.mu.Unlock()

	m.notify(bursts)
	return prev, next, true
}

// State returns the current state.
func (m *Machine[S, E]) State() S {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Pending returns the number of delayed transitions waiting to fire.
func (m *Machine[S, E]) Pending() int {
	return m.timers.Pending()
}

// Close cancels every outstanding timer. No event changes the state afterwards.
func (m *Machine[S, E]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	if n := m.timers.Stop(); n > 0 {
		m.logger.Debug(context.Background(), "cancelled pending timers", logger.Int("timers", n))
	}
}

// Closed reports whether Close was called.
func (m *Machine[S, E]) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *Machine[S, E]) fire(key string, token uint64, event E) {
	m.mu.Lock()
	if m.closed || !m.timers.Claim(key, token) {
		m.mu.Unlock()
		return
	}
	bursts := m.apply(event)
	m.mu.Unlock()

	m.notify(bursts)
}

// apply must be called with m.mu held.
func (m *Machine[S, E]) apply(event E) []Burst {
	next, cmds := m.reduce(m.state, event)
	m.state = next

	var bursts []Burst
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case Schedule[E]:
			key, ev := c.Key, c.Event
			m.timers.Schedule(key, c.After, func(token uint64) { m.fire(key, token, ev) })
		case Cancel:
			m.timers.Cancel(c.Key)
		case Celebrate:
			bursts = append(bursts, c.Burst)
		default:
			m.logger.Warn(context.Background(), "unsupported command", logger.String("type", fmt.Sprintf("%T", cmd)))
		}
	}
	return bursts
}

func (m *Machine[S, E]) notify(bursts []Burst) {
	if m.celebrate != nil {
		for _, b := range bursts {
			m.celebrate(b)
		}
	}
	if m.onChange != nil {
		m.onChange()
	}
}
