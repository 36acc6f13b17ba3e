// Package scheduler maintains the due-time-sorted list of pending timers
// and moves due ones onto the main event queue (spec.md §4.7). Timer
// registration (RunLater, RunAtIntervals) and tick advancement
// (UpdateTimer) are safe to call from an ISR-style context; folding the
// schedule queue onto the due-time list and popping due timers
// (ManageTimers) is meant to run from the main loop's own context, once
// per tick.
package scheduler

import (
	"github.com/anghd/uevloop/closure"
	"github.com/anghd/uevloop/event"
	"github.com/anghd/uevloop/llist"
	"github.com/anghd/uevloop/pool"
	"github.com/anghd/uevloop/syspools"
	"github.com/anghd/uevloop/sysqueues"
)

// Scheduler owns the system timer tick and the due-time-sorted list of
// pending timer events.
type Scheduler struct {
	pools  *syspools.Pools
	queues *sysqueues.Queues

	timer uint32 // current tick, advanced by UpdateTimer

	// due is ordered ascending by Event.DueTime; ManageTimers only ever
	// needs to inspect and pop its head.
	due *llist.List[pool.Handle]
}

// New builds a Scheduler over shared pools and queues.
func New(pools *syspools.Pools, queues *sysqueues.Queues) *Scheduler {
	return &Scheduler{
		pools:  pools,
		queues: queues,
		due:    llist.NewList[pool.Handle](pools.Nodes),
	}
}

// UpdateTimer advances the scheduler's tick by delta. Safe to call from
// an ISR context; it does not itself touch the due-time list (that is
// ManageTimers' job, run from the main loop) so it never contends with a
// concurrent ManageTimers walk beyond reading the tick.
func (s *Scheduler) UpdateTimer(delta uint32) {
	s.timer += delta
}

// Timer returns the scheduler's current tick.
func (s *Scheduler) Timer() uint32 {
	return s.timer
}

// RunLater schedules c to run once, delay ticks from now. Returns the
// pool.Handle of the backing event and false if the event pool, node pool
// or schedule queue is exhausted. Once scheduled, a timer is immutable and
// cannot be cancelled (spec.md §1).
func (s *Scheduler) RunLater(c closure.Closure, delay uint32) (pool.Handle, bool) {
	return s.scheduleTimer(c, delay, 0, false, false)
}

// RunAtIntervals schedules c to run every period ticks. If immediate is
// true the first firing happens at the next ManageTimers call regardless
// of period; otherwise the first firing happens after one period elapses
// (spec.md §4.7 "immediate" flag).
func (s *Scheduler) RunAtIntervals(c closure.Closure, period uint32, immediate bool) (pool.Handle, bool) {
	due := period
	if immediate {
		due = 0
	}
	return s.scheduleTimer(c, due, period, true, immediate)
}

func (s *Scheduler) scheduleTimer(c closure.Closure, delay, period uint32, repeating, immediate bool) (pool.Handle, bool) {
	eh, ok := s.pools.Events.Acquire()
	if !ok {
		return pool.None, false
	}
	nh, ok := s.pools.Nodes.Acquire()
	if !ok {
		s.pools.Events.Release(eh)
		return pool.None, false
	}
	*s.pools.Nodes.Get(nh) = llist.Node[pool.Handle]{Payload: eh, Next: llist.None}
	ev := event.NewTimer(c, s.timer+delay, period, repeating, immediate)
	ev.ListNode = nh
	*s.pools.Events.Get(eh) = ev
	if !s.queues.Schedule(eh) {
		s.pools.Events.Get(eh).Destroy()
		s.pools.Events.Release(eh)
		s.pools.Nodes.Release(nh)
		return pool.None, false
	}
	return eh, true
}

// ManageTimers drains the schedule queue onto the due-time list (in
// due-time order, ties broken by arrival order — llist.InsertBefore's
// stability), then pops and re-queues every timer whose due time has
// passed onto the main event queue. A repeating timer is immediately
// rescheduled for its own previous due time plus one period — not
// timer+period — before being handed to the event queue, so a
// ManageTimers call running late by more than one period catches up
// every missed firing instead of drifting forward to "now".
func (s *Scheduler) ManageTimers() {
	for _, h := range s.queues.DrainSchedule() {
		s.insertDue(s.pools.Events.Get(h).ListNode)
	}

	for !s.due.IsEmpty() {
		nh := s.due.Head()
		h := *s.due.Payload(nh)
		ev := s.pools.Events.Get(h)
		if ev.DueTime > s.timer {
			return
		}
		s.due.PopHead()

		if ev.Repeating {
			// Advance from the timer's own previous due time, never from
			// the current tick: a late ManageTimers call must catch up
			// one period at a time rather than drift forward to "now"
			// and skip the firings in between (spec.md §3).
			ev.DueTime = ev.DueTime + ev.Period
			s.insertDue(nh)
			// A repeating timer's closure still fires this tick: borrow
			// a fresh event slot carrying the same closure so the
			// original stays owned by the due-time list.
			fireH, ok := s.pools.Events.Acquire()
			if !ok {
				continue
			}
			fire := event.NewClosure(ev.Closure)
			fire.Closure.Destructor = nil // the destructor stays with the original timer
			*s.pools.Events.Get(fireH) = fire
			if !s.queues.Enqueue(fireH) {
				// The closure's destructor, if any, belongs to the
				// original timer (still alive on the due-time list);
				// release the borrowed slot without invoking it.
				s.pools.Events.Release(fireH)
			}
			continue
		}

		s.pools.Nodes.Release(nh)
		ev.ListNode = llist.None
		if !s.queues.Enqueue(h) {
			ev.Destroy()
			s.pools.Events.Release(h)
		}
	}
}

// insertDue links the timer node nh into the due-time list.
func (s *Scheduler) insertDue(nh llist.Handle) {
	due := s.pools.Events.Get(*s.due.Payload(nh)).DueTime
	s.due.InsertBefore(nh, func(existing pool.Handle) bool {
		return s.pools.Events.Get(existing).DueTime > due
	})
}
