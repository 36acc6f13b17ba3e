package scheduler_test

import (
	"testing"

	"github.com/anghd/uevloop/closure"
	"github.com/anghd/uevloop/config"
	"github.com/anghd/uevloop/event"
	"github.com/anghd/uevloop/scheduler"
	"github.com/anghd/uevloop/syspools"
	"github.com/anghd/uevloop/sysqueues"
)

func newScheduler(t *testing.T) (*scheduler.Scheduler, *syspools.Pools, *sysqueues.Queues) {
	t.Helper()
	cfg, err := config.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pools := syspools.New(cfg)
	queues := sysqueues.New(cfg)
	return scheduler.New(pools, queues), pools, queues
}

func countingClosure(n *int) closure.Closure {
	return closure.New(func(*closure.Closure) any {
		*n++
		return nil
	}, nil, nil)
}

func TestRunLaterFiresOnceAtDueTime(t *testing.T) {
	s, pools, queues := newScheduler(t)
	var fired int
	s.RunLater(countingClosure(&fired), 10)

	s.UpdateTimer(5)
	s.ManageTimers()
	if queues.CountEnqueuedEvents() != 0 {
		t.Fatal("expected timer not due yet")
	}

	s.UpdateTimer(5) // timer now at 10, due
	s.ManageTimers()
	if queues.CountEnqueuedEvents() != 1 {
		t.Fatalf("expected exactly one due event, got %d", queues.CountEnqueuedEvents())
	}

	handles := queues.DequeueAll(1)
	pools.Events.Get(handles[0]).Closure.Invoke(nil)
	if fired != 1 {
		t.Fatalf("expected closure to fire once, got %d", fired)
	}

	s.UpdateTimer(100)
	s.ManageTimers()
	if queues.CountEnqueuedEvents() != 0 {
		t.Fatal("a one-shot timer must not fire again")
	}
}

func TestRunAtIntervalsImmediateFiresOnFirstManage(t *testing.T) {
	s, _, queues := newScheduler(t)
	var fired int
	s.RunAtIntervals(countingClosure(&fired), 10, true)

	s.ManageTimers() // timer still at 0, due time is 0: fires immediately
	if queues.CountEnqueuedEvents() != 1 {
		t.Fatalf("expected immediate recurring timer to fire on first manage, got %d", queues.CountEnqueuedEvents())
	}
}

func TestRunAtIntervalsNonImmediateWaitsOnePeriod(t *testing.T) {
	s, _, queues := newScheduler(t)
	var fired int
	s.RunAtIntervals(countingClosure(&fired), 10, false)

	s.ManageTimers()
	if queues.CountEnqueuedEvents() != 0 {
		t.Fatal("expected non-immediate recurring timer to wait one period")
	}

	s.UpdateTimer(10)
	s.ManageTimers()
	if queues.CountEnqueuedEvents() != 1 {
		t.Fatalf("expected recurring timer due after one period, got %d", queues.CountEnqueuedEvents())
	}
}

func TestRecurringTimerReschedulesItself(t *testing.T) {
	s, pools, queues := newScheduler(t)
	var fired int
	s.RunAtIntervals(countingClosure(&fired), 10, true)

	for i := 0; i < 3; i++ {
		s.ManageTimers()
		handles := queues.DequeueAll(queues.CountEnqueuedEvents())
		for _, h := range handles {
			pools.Events.Get(h).Closure.Invoke(nil)
			pools.Events.Release(h)
		}
		s.UpdateTimer(10)
	}
	if fired != 3 {
		t.Fatalf("expected 3 firings across 3 periods, got %d", fired)
	}
}

// A ManageTimers call running late by more than one period must catch up
// one period at a time from the timer's own previous due time, not drift
// forward to the current tick and lose the firings in between.
func TestLateManageTimersCatchesUpWithoutDrift(t *testing.T) {
	s, pools, queues := newScheduler(t)
	var fired int
	invokeAllQueued := func() {
		handles := queues.DequeueAll(queues.CountEnqueuedEvents())
		for _, h := range handles {
			pools.Events.Get(h).Closure.Invoke(nil)
			pools.Events.Release(h)
		}
	}

	s.RunAtIntervals(countingClosure(&fired), 300, true)

	s.ManageTimers() // due=0: fires immediately, next due=300
	invokeAllQueued()
	if fired != 1 {
		t.Fatalf("expected 1 firing after the immediate fire, got %d", fired)
	}

	s.UpdateTimer(900) // tick jumps straight to 900, skipping due=300 and due=600
	s.ManageTimers()
	invokeAllQueued()
	if fired != 4 {
		t.Fatalf("expected 4 total firings (due=0,300,600,900) by tick 900, got %d", fired)
	}
}

func TestManageTimersOrdersDueTimersByDueTime(t *testing.T) {
	s, pools, queues := newScheduler(t)
	var order []int
	record := func(n int) closure.Closure {
		return closure.New(func(*closure.Closure) any {
			order = append(order, n)
			return nil
		}, nil, nil)
	}
	s.RunLater(record(3), 30)
	s.RunLater(record(1), 10)
	s.RunLater(record(2), 20)

	s.UpdateTimer(30)
	s.ManageTimers()

	handles := queues.DequeueAll(queues.CountEnqueuedEvents())
	for _, h := range handles {
		pools.Events.Get(h).Closure.Invoke(nil)
	}
	want := []int{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected due-time order %v, got %v", want, order)
		}
	}
}

func TestEventPoolExhaustionFailsRunLater(t *testing.T) {
	cfg, _ := config.Resolve(config.WithEventPoolSizeLog2(0)) // capacity 1
	pools := syspools.New(cfg)
	queues := sysqueues.New(cfg)
	s := scheduler.New(pools, queues)

	var fired int
	// Deplete the single event slot with a closure dispatched directly
	// (not via the scheduler) so RunLater has nothing left to acquire.
	h, _ := pools.Events.Acquire()
	*pools.Events.Get(h) = event.NewClosure(countingClosure(&fired))

	if _, ok := s.RunLater(countingClosure(&fired), 1); ok {
		t.Fatal("expected RunLater to fail when the event pool is exhausted")
	}
}
