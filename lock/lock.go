// Package lock defines the critical-section abstraction that sysqueues
// wraps around every system queue operation, since those queues are
// touched from both an ISR-style context and the main loop (spec.md §5). The bare-metal target has no OS and
// needs no real lock (interrupts are typically disabled by hardware around
// the single instruction that matters); a hosted Go build runs ISR-style
// calls on their own goroutine and needs a real one.
package lock

import "sync"

// Lock brackets a critical section. Enter must return before the
// protected section runs; Exit releases it. Implementations must be safe
// to call from any goroutine.
type Lock interface {
	Enter()
	Exit()
}

// Noop is the default Lock: single-core, cooperative, run-to-completion
// code has no concurrent access to guard against, matching the bare-metal
// target's critical section, which disables interrupts around a single
// instruction and costs nothing here because nothing preempts it.
type Noop struct{}

// Enter is a no-op.
func (Noop) Enter() {}

// Exit is a no-op.
func (Noop) Exit() {}

// Mutex is a Lock backed by sync.Mutex, for hosted builds where system
// queue operations run on more than one goroutine. Only the operations
// that take the configured Lock (the sysqueues calls) are serialized;
// pool acquire/release and the scheduler's tick counter are not.
type Mutex struct {
	mu sync.Mutex
}

// Enter acquires the mutex.
func (m *Mutex) Enter() { m.mu.Lock() }

// Exit releases the mutex.
func (m *Mutex) Exit() { m.mu.Unlock() }
