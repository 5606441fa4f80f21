package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryStore is an in-memory Store that sweeps idle sessions in the background.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	closed   bool

	capacity      int
	idleTTL       time.Duration
	sweepInterval time.Duration
	onEvict       func(*Session, string)
	now           func() time.Time

	snapshot atomic.Pointer[Snapshot]

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore constructs a store and starts its sweeper. The sweeper stops
// when ctx is done or Close is called. No sweeper runs when the idle TTL is zero.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		sessions:      make(map[string]*Session),
		capacity:      1000,
		idleTTL:       30 * time.Minute,
		sweepInterval: time.Minute,
		now:           time.Now,
		stopChan:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.publishSnapshot()
	s.startSweeper(ctx)
	return s
}

func (s *MemoryStore) startSweeper(ctx context.Context) {
	if s.idleTTL <= 0 {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.Sweep(ctx, s.now())
			}
		}
	}()
}

func (s *MemoryStore) Put(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if _, ok := s.sessions[sess.ID]; ok {
		return fmt.Errorf("%w: %s", ErrExists, sess.ID)
	}
	if s.capacity > 0 && len(s.sessions) >= s.capacity {
		return fmt.Errorf("%w: %d sessions", ErrCapacity, s.capacity)
	}
	s.sessions[sess.ID] = sess
	s.publishSnapshotLocked()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	sess.Touch(s.now())
	return sess, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
		s.publishSnapshotLocked()
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.evict(sess, ReasonDeleted)
	return nil
}

func (s *MemoryStore) Sweep(_ context.Context, now time.Time) int {
	if s.idleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-s.idleTTL)

	s.mu.Lock()
	var idle []*Session
	for id, sess := range s.sessions {
		if sess.LastActive().Before(cutoff) {
			idle = append(idle, sess)
			delete(s.sessions, id)
		}
	}
	if len(idle) > 0 {
		s.publishSnapshotLocked()
	}
	s.mu.Unlock()

	for _, sess := range idle {
		s.evict(sess, ReasonIdle)
	}
	return len(idle)
}

func (s *MemoryStore) List(_ context.Context) []*Session {
	s.mu.RLock()
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *MemoryStore) Snapshot() Snapshot {
	return *s.snapshot.Load()
}

// Close stops the sweeper and evicts every remaining session.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	rest := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		rest = append(rest, sess)
	}
	clear(s.sessions)
	s.publishSnapshotLocked()
	s.mu.Unlock()

	for _, sess := range rest {
		s.evict(sess, ReasonShutdown)
	}
	return nil
}

func (s *MemoryStore) evict(sess *Session, reason string) {
	sess.Screen.Close()
	if s.onEvict != nil {
		s.onEvict(sess, reason)
	}
}

func (s *MemoryStore) publishSnapshot() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.publishSnapshotLocked()
}

// publishSnapshotLocked must be called with s.mu held.
func (s *MemoryStore) publishSnapshotLocked() {
	byKind := make(map[string]int)
	for _, sess := range s.sessions {
		byKind[string(sess.Kind)]++
	}
	s.snapshot.Store(&Snapshot{Total: len(s.sessions), ByKind: byKind, At: s.now()})
}
