// Package repository keeps the live screen sessions of the process.
package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/classplay/internal/screen"
)

// Eviction reasons passed to the eviction hook.
const (
	ReasonIdle     = "idle"
	ReasonDeleted  = "deleted"
	ReasonShutdown = "shutdown"
)

// Session is one hosted screen.
type Session struct {
	ID        string
	Kind      screen.Kind
	Screen    screen.Screen
	CreatedAt time.Time

	lastActive atomic.Int64
	actions    sync.Mutex
}

// NewSession wraps a screen created at now.
func NewSession(id string, s screen.Screen, now time.Time) *Session {
	sess := &Session{ID: id, Kind: s.Kind(), Screen: s, CreatedAt: now}
	sess.Touch(now)
	return sess
}

// Touch marks the session as used at t.
func (s *Session) Touch(t time.Time) { s.lastActive.Store(t.UnixNano()) }

// Exclusive runs fn while holding the session's action lock.
func (s *Session) Exclusive(fn func()) {
	s.actions.Lock()
	defer s.actions.Unlock()
	fn()
}

// LastActive returns the time of the last Touch.
func (s *Session) LastActive() time.Time { return time.Unix(0, s.lastActive.Load()) }

// Snapshot is an immutable view of the store's counters.
type Snapshot struct {
	Total  int
	ByKind map[string]int
	At     time.Time
}

// Store provides access to live sessions.
type Store interface {
	// Put adds a session. Returns ErrCapacity when the store is full.
	Put(ctx context.Context, s *Session) error
	// Get returns the session and marks it active. Returns ErrNotFound if unknown.
	Get(ctx context.Context, id string) (*Session, error)
	// Delete removes the session and closes its screen.
	Delete(ctx context.Context, id string) error
	// Sweep evicts every session idle since before now minus the idle TTL.
	Sweep(ctx context.Context, now time.Time) int
	// List returns the live sessions, oldest first.
	List(ctx context.Context) []*Session
	// Count returns the number of live sessions.
	Count(ctx context.Context) int
	// Snapshot returns the counters published by the last change.
	Snapshot() Snapshot
	// Close stops background sweeping and evicts every session.
	Close() error
}
