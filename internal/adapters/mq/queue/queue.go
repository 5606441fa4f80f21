// Package queue buffers celebration bursts between the screens that emit them
// and the workers that deliver them.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/okian/classplay/internal/domain/types"
	"github.com/okian/classplay/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Item is one queued celebration.
type Item struct {
	Celebration types.Celebration
	EnqueuedAt  time.Time
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a celebration without blocking. Returns ErrFull when the
	// queue is at capacity and ErrClosed after Close.
	Enqueue(ctx context.Context, c types.Celebration) error

	// Dequeue returns the channel items are read from. It is closed by Close
	// once every buffered item has been read.
	Dequeue(ctx context.Context) <-chan Item

	// Len returns the number of waiting items.
	Len(ctx context.Context) int

	// Cap returns the capacity.
	Cap() int

	Close() error
	IsClosed() bool
}

// InMemoryQueue implements Queue with a buffered channel.
type InMemoryQueue struct {
	items    chan Item
	capacity int
	now      func() time.Time

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.items = make(chan Item, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0, q.capacity)
	return q
}

func (q *InMemoryQueue) Enqueue(ctx context.Context, c types.Celebration) error { //nolint:gocritic // hugeParam: passed by value into the channel
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case q.items <- Item{Celebration: c, EnqueuedAt: q.now()}:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.items), q.capacity)
		return nil
	default:
		metrics.RecordCelebrationDropped()
		return ErrFull
	}
}

func (q *InMemoryQueue) Dequeue(context.Context) <-chan Item {
	return q.items
}

func (q *InMemoryQueue) Len(context.Context) int {
	size := len(q.items)
	metrics.UpdateQueueSize(size, q.capacity)
	return size
}

func (q *InMemoryQueue) Cap() int { return q.capacity }

// Close stops accepting items. Buffered items can still be dequeued.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.items)
	q.closed = true
	return nil
}

func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
