package repository

import "time"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithCapacity bounds the number of live sessions. Zero or less means unbounded.
func WithCapacity(n int) Option {
	return func(s *MemoryStore) {
		s.capacity = n
	}
}

// WithIdleTTL sets how long a session may stay unused before it is evicted.
// Zero disables idle eviction.
func WithIdleTTL(ttl time.Duration) Option {
	return func(s *MemoryStore) {
		if ttl >= 0 {
			s.idleTTL = ttl
		}
	}
}

// WithSweepInterval sets how often idle sessions are looked for.
func WithSweepInterval(interval time.Duration) Option {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.sweepInterval = interval
		}
	}
}

// WithEvictHook sets a callback run for every session leaving the store.
func WithEvictHook(fn func(s *Session, reason string)) Option {
	return func(s *MemoryStore) {
		s.onEvict = fn
	}
}

// WithNow overrides the time source used by the background sweep.
func WithNow(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}
