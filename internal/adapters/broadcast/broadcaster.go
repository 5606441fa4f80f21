// Package broadcast fans session updates out to stream subscribers.
package broadcast

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/classplay/internal/domain/types"
	"github.com/okian/classplay/pkg/metrics"
)

// Event names carried by messages.
const (
	EventView      = "view"
	EventCelebrate = "celebrate"
)

const defaultBufferSize = 16

// Message is one update for a session's subscribers.
type Message struct {
	ID    uint64    `json:"id"`
	Event string    `json:"event"`
	Data  any       `json:"data"`
	At    time.Time `json:"at"`
}

type subscriber struct {
	ch chan Message
}

// Broadcaster delivers messages to per-session subscribers. Slow subscribers
// lose messages instead of blocking publishers.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[string]map[*subscriber]struct{}
	closed bool

	bufferSize int
	sequence   atomic.Uint64
	dropped    atomic.Int64
}

// New creates a broadcaster whose subscriber channels hold bufferSize messages.
func New(bufferSize int) *Broadcaster {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Broadcaster{subs: make(map[string]map[*subscriber]struct{}), bufferSize: bufferSize}
}

// Subscribe registers a subscriber for session. The channel is closed when
// cancel is called, the session is closed, or the broadcaster shuts down.
func (b *Broadcaster) Subscribe(session string) (<-chan Message, func()) {
	sub := &subscriber{ch: make(chan Message, b.bufferSize)}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}
	}
	set, ok := b.subs[session]
	if !ok {
		set = make(map[*subscriber]struct{})
		b.subs[session] = set
	}
	set[sub] = struct{}{}
	b.mu.Unlock()
	metrics.AddStreamSubscribers(1)

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() { b.remove(session, sub) })
	}
}

func (b *Broadcaster) remove(session string, sub *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	set, ok := b.subs[session]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(b.subs, session)
	}
	close(sub.ch)
	metrics.AddStreamSubscribers(-1)
}

// Publish sends a message to every subscriber of session.
func (b *Broadcaster) Publish(session, event string, data any) {
	msg := Message{ID: b.sequence.Add(1), Event: event, Data: data, At: time.Now()}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs[session] {
		select {
		case sub.ch <- msg:
		default:
			b.dropped.Add(1)
		}
	}
}

// Deliver publishes a celebration. It satisfies the worker sink contract.
func (b *Broadcaster) Deliver(_ context.Context, c types.Celebration) error { //nolint:gocritic // hugeParam: sink signature
	b.Publish(c.SessionID, EventCelebrate, c)
	return nil
}

// CloseSession drops every subscriber of session.
func (b *Broadcaster) CloseSession(session string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeSessionLocked(session)
}

func (b *Broadcaster) closeSessionLocked(session string) {
	set := b.subs[session]
	for sub := range set {
		close(sub.ch)
	}
	metrics.AddStreamSubscribers(-len(set))
	delete(b.subs, session)
}

// Subscribers returns the number of live subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, set := range b.subs {
		n += len(set)
	}
	return n
}

// Dropped returns the number of messages lost to full subscriber buffers.
func (b *Broadcaster) Dropped() int64 { return b.dropped.Load() }

// Close drops every subscriber and refuses new ones.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for session := range b.subs {
		b.closeSessionLocked(session)
	}
}
