// Package pool implements the fixed-size object pool that backs the event
// pool and the linked-list-node pool: a pre-allocated array of T, addressed
// by index, whose free indices are tracked in a queue.Circular.
package pool

import "github.com/anghd/uevloop/queue"

// Handle is an index into a Pool's backing array. It is the "arena index"
// analogue of the source's slot pointer: cheap to copy, cheap to compare,
// and stable for the lifetime of the pool.
type Handle uint32

// None is the sentinel Handle returned by Acquire when the pool is
// depleted. It is never a valid index into any Pool.
const None Handle = ^Handle(0)

// Pool is a fixed-capacity array of T. Acquire/Release move handles between
// "owned by the pool's free queue" and "owned by exactly one caller"; the
// pool does not itself enforce the single-owner invariant beyond detecting
// an already-full free queue on Release (a double-release or a foreign
// handle).
type Pool[T any] struct {
	items []T
	free  *queue.Circular[Handle]
}

// New allocates a pool of 1<<sizeLog2 items, with every slot address
// pushed onto the free queue in slot order (slot 0 first).
func New[T any](sizeLog2 uint) *Pool[T] {
	capacity := uint32(1) << sizeLog2
	p := &Pool[T]{
		items: make([]T, capacity),
		free:  queue.NewCircular[Handle](sizeLog2),
	}
	for i := Handle(0); i < Handle(capacity); i++ {
		p.free.Push(i)
	}
	return p
}

// Acquire pops a free slot. It returns (None, false) when the pool is
// depleted. Slot contents are not cleared: the caller must initialize
// whatever it acquires.
func (p *Pool[T]) Acquire() (Handle, bool) {
	return p.free.Pop()
}

// Release returns a handle to the free queue. It returns false only if the
// free queue is already full, which indicates a double-release or a handle
// that was never issued by this pool; the release is otherwise a trusted
// operation, exactly as in the source.
func (p *Pool[T]) Release(h Handle) bool {
	return p.free.Push(h)
}

// Get returns a pointer to the item at h, for reading or mutating in
// place. It performs no ownership check: callers must not call Get with a
// handle that is currently sitting in the free queue.
func (p *Pool[T]) Get(h Handle) *T {
	return &p.items[h]
}

// IsEmpty reports whether the pool is fully depleted (no free slots).
func (p *Pool[T]) IsEmpty() bool {
	return p.free.IsEmpty()
}

// Capacity returns the fixed number of slots in the pool.
func (p *Pool[T]) Capacity() int {
	return len(p.items)
}

// Outstanding returns the number of slots currently acquired (not sitting
// in the free queue).
func (p *Pool[T]) Outstanding() int {
	return len(p.items) - p.free.Count()
}
