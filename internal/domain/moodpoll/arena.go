package moodpoll

import "fmt"

// Handle addresses one arena entry. A handle outlives its entry: once the
// slot is reused the generation differs and the handle no longer resolves.
type Handle struct {
	Index uint32 `json:"index"`
	Gen   uint32 `json:"gen"`
}

func (h Handle) String() string {
	return fmt.Sprintf("%d.%d", h.Index, h.Gen)
}

type slot[T any] struct {
	gen  uint32
	used bool
	val  T
}

// Arena stores values in reusable, generation-tagged slots.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

// Clone returns an independent copy of a.
func (a *Arena[T]) Clone() *Arena[T] {
	if a == nil {
		return &Arena[T]{}
	}
	return &Arena[T]{
		slots: append([]slot[T](nil), a.slots...),
		free:  append([]uint32(nil), a.free...),
		live:  a.live,
	}
}

// Insert stores v and returns its handle.
func (a *Arena[T]) Insert(v T) Handle {
	a.live++
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.gen++
		s.used = true
		s.val = v
		return Handle{Index: idx, Gen: s.gen}
	}
	a.slots = append(a.slots, slot[T]{gen: 1, used: true, val: v})
	return Handle{Index: uint32(len(a.slots) - 1), Gen: 1}
}

// Get returns the value behind h if it is still live.
func (a *Arena[T]) Get(h Handle) (T, bool) {
	var zero T
	if a == nil || int(h.Index) >= len(a.slots) {
		return zero, false
	}
	s := a.slots[h.Index]
	if !s.used || s.gen != h.Gen {
		return zero, false
	}
	return s.val, true
}

// Set replaces the value behind a live handle.
func (a *Arena[T]) Set(h Handle, v T) bool {
	if _, ok := a.Get(h); !ok {
		return false
	}
	a.slots[h.Index].val = v
	return true
}

// Remove frees the entry behind h. Stale handles are ignored.
func (a *Arena[T]) Remove(h Handle) bool {
	if _, ok := a.Get(h); !ok {
		return false
	}
	var zero T
	s := &a.slots[h.Index]
	s.used = false
	s.val = zero
	a.free = append(a.free, h.Index)
	a.live--
	return true
}

// Len returns the number of live entries.
func (a *Arena[T]) Len() int {
	if a == nil {
		return 0
	}
	return a.live
}

// Live returns the live values in slot order.
func (a *Arena[T]) Live() []T {
	if a == nil {
		return nil
	}
	out := make([]T, 0, a.live)
	for _, s := range a.slots {
		if s.used {
			out = append(out, s.val)
		}
	}
	return out
}
