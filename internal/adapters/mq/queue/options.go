package queue

import "time"

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum number of waiting items.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// WithNow overrides the clock used to stamp items.
func WithNow(now func() time.Time) Option {
	return func(q *InMemoryQueue) {
		if now != nil {
			q.now = now
		}
	}
}
