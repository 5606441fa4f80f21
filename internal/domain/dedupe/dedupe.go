// Package dedupe remembers recently applied action ids so that a click sent
// twice is applied once.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen action ids.
type Deduper interface {
	// SeenAndRecord reports whether id was already recorded and records it if not.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so that it can be retried, e.g. after the action was rejected.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper keeps the most recent ids. In bounded mode the ids sit in a
// ring and the oldest one is evicted when the ring is full.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]int // id -> ring position, -1 in unbounded mode
	ring    []string
	next    int
	maxSize int
}

// NewInMemoryDeduper creates a deduper. The default keeps 10000 ids.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: 10000}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]int)
	if d.maxSize > 0 {
		d.ring = make([]string, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	if d.maxSize <= 0 {
		d.seen[id] = -1
		return false
	}

	if old := d.ring[d.next]; old != "" {
		delete(d.seen, old)
	}
	d.ring[d.next] = id
	d.seen[id] = d.next
	d.next = (d.next + 1) % d.maxSize
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	pos, ok := d.seen[id]
	if !ok {
		return
	}
	delete(d.seen, id)
	if pos >= 0 {
		d.ring[pos] = ""
	}
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
