// Package sysqueues owns the two fixed-capacity circular queues shared
// system-wide: the event queue the loop drains, and the schedule queue
// timer registration calls push into from any context (spec.md
// §4.6, §5). Every operation that can be reached from both the main loop
// and an ISR-style context brackets itself with a lock.Lock.
package sysqueues

import (
	"github.com/anghd/uevloop/config"
	"github.com/anghd/uevloop/lock"
	"github.com/anghd/uevloop/pool"
	"github.com/anghd/uevloop/queue"
)

// Queues groups the system-wide event and schedule queues, each carrying
// pool.Handle references into syspools.Pools.Events.
type Queues struct {
	// EventQueue holds handles of events ready for the loop to dispatch
	// on its next Run.
	EventQueue *queue.Circular[pool.Handle]

	// ScheduleQueue holds handles of timer events registered
	// from any context, pending the scheduler draining them onto its
	// due-time list on the next ManageTimers call.
	ScheduleQueue *queue.Circular[pool.Handle]

	lock lock.Lock
}

// New allocates both queues at the sizes named in cfg, guarded by cfg's
// configured lock.
func New(cfg *config.Config) *Queues {
	return &Queues{
		EventQueue:    queue.NewCircular[pool.Handle](cfg.EventQueueSizeLog2),
		ScheduleQueue: queue.NewCircular[pool.Handle](cfg.ScheduleQueueSizeLog2),
		lock:          cfg.Lock,
	}
}

// Enqueue pushes h onto the event queue under the configured lock.
// Reports false if the event queue is full.
func (q *Queues) Enqueue(h pool.Handle) bool {
	q.lock.Enter()
	defer q.lock.Exit()
	return q.EventQueue.Push(h)
}

// DequeueAll detaches and returns up to n handles currently on the event
// queue (n is typically the count observed at loop entry, for the
// snapshot-at-entry run-to-completion semantics of evloop.Loop.Run).
func (q *Queues) DequeueAll(n uint32) []pool.Handle {
	q.lock.Enter()
	defer q.lock.Exit()
	out := make([]pool.Handle, 0, n)
	for i := uint32(0); i < n; i++ {
		h, ok := q.EventQueue.Pop()
		if !ok {
			break
		}
		out = append(out, h)
	}
	return out
}

// Schedule pushes h onto the schedule queue under the configured lock.
// Reports false if the schedule queue is full. Called by RunLater and
// RunAtIntervals, the timer registrations that may be made from an
// ISR-style context.
func (q *Queues) Schedule(h pool.Handle) bool {
	q.lock.Enter()
	defer q.lock.Exit()
	return q.ScheduleQueue.Push(h)
}

// DrainSchedule detaches and returns every handle currently on the
// schedule queue, for the scheduler to fold onto its due-time list.
func (q *Queues) DrainSchedule() []pool.Handle {
	q.lock.Enter()
	defer q.lock.Exit()
	var out []pool.Handle
	for {
		h, ok := q.ScheduleQueue.Pop()
		if !ok {
			break
		}
		out = append(out, h)
	}
	return out
}

// CountEnqueuedEvents reports how many events are currently queued for
// dispatch. Mirrors uel_sysqueues_count_enqueued_events.
func (q *Queues) CountEnqueuedEvents() uint32 {
	q.lock.Enter()
	defer q.lock.Exit()
	return uint32(q.EventQueue.Count())
}

// CountScheduledEvents reports how many timer registrations are
// waiting to be folded onto the scheduler's due-time list. Mirrors
// uel_sysqueues_count_scheduled_events.
func (q *Queues) CountScheduledEvents() uint32 {
	q.lock.Enter()
	defer q.lock.Exit()
	return uint32(q.ScheduleQueue.Count())
}
