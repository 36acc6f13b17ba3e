package pool_test

import (
	"testing"

	"github.com/anghd/uevloop/pool"
)

func TestAcquireReleaseRoundTrip(t *testing.T) {
	p := pool.New[int](2) // capacity 4

	handles := make([]pool.Handle, 0, 4)
	for i := 0; i < 4; i++ {
		h, ok := p.Acquire()
		if !ok {
			t.Fatalf("acquire %d: expected success", i)
		}
		*p.Get(h) = i * 10
		handles = append(handles, h)
	}

	if !p.IsEmpty() {
		t.Fatal("expected pool to be depleted")
	}
	if h, ok := p.Acquire(); ok {
		t.Fatalf("expected acquire on empty pool to fail, got handle %d", h)
	}

	if !p.Release(handles[0]) {
		t.Fatal("expected release to succeed")
	}
	if p.IsEmpty() {
		t.Fatal("expected pool to have a free slot after release")
	}

	h, ok := p.Acquire()
	if !ok {
		t.Fatal("expected acquire to succeed after a release")
	}
	if h != handles[0] {
		t.Fatalf("expected reacquired handle to match released one: got %d want %d", h, handles[0])
	}
}

func TestSlotContentsSurviveAcquire(t *testing.T) {
	p := pool.New[string](1)
	h, _ := p.Acquire()
	*p.Get(h) = "hello"
	p.Release(h)

	h2, _ := p.Acquire()
	if *p.Get(h2) != "hello" {
		t.Fatal("expected pool not to clear slot contents on acquire, per spec")
	}
}

func TestOutstandingInvariant(t *testing.T) {
	const n = 8
	p := pool.New[int](3) // capacity 8

	var acquired []pool.Handle
	for i := 0; i < n; i++ {
		h, ok := p.Acquire()
		if !ok {
			t.Fatalf("acquire %d failed", i)
		}
		acquired = append(acquired, h)
		if p.Outstanding() > p.Capacity() {
			t.Fatalf("outstanding %d exceeds capacity %d", p.Outstanding(), p.Capacity())
		}
		if p.IsEmpty() != (p.Outstanding() == p.Capacity()) {
			t.Fatalf("IsEmpty inconsistent with Outstanding at step %d", i)
		}
	}

	for _, h := range acquired {
		p.Release(h)
	}
	if p.Outstanding() != 0 {
		t.Fatalf("expected 0 outstanding after releasing all, got %d", p.Outstanding())
	}
}

func TestDoubleReleaseReturnsFalse(t *testing.T) {
	p := pool.New[int](1) // capacity 2
	h, _ := p.Acquire()
	_, _ = p.Acquire()

	if !p.Release(h) {
		t.Fatal("expected first release to succeed")
	}
	if p.Release(h) {
		t.Fatal("expected second release of the same handle to fail (free queue would overflow)")
	}
}

func TestBoundaryCapacity(t *testing.T) {
	p := pool.New[int](0) // capacity 1
	h, ok := p.Acquire()
	if !ok {
		t.Fatal("expected first acquire to succeed")
	}
	if _, ok := p.Acquire(); ok {
		t.Fatal("expected second acquire to fail on a capacity-1 pool")
	}
	p.Release(h)
	if _, ok := p.Acquire(); !ok {
		t.Fatal("expected acquire to succeed again after release")
	}
}
