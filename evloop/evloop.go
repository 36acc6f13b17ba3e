// Package evloop implements the run-to-completion event loop: draining a
// snapshot of the event queue taken at Run's entry and dispatching each
// event by Kind (spec.md §4.8). A panic from a dispatched closure is
// recovered and logged rather than propagated, so one misbehaving
// callback never takes the whole loop down.
package evloop

import (
	"log"

	"github.com/anghd/uevloop/closure"
	"github.com/anghd/uevloop/event"
	"github.com/anghd/uevloop/pool"
	"github.com/anghd/uevloop/syspools"
	"github.com/anghd/uevloop/sysqueues"
)

// Loop dispatches events drawn from the shared event queue.
type Loop struct {
	pools  *syspools.Pools
	queues *sysqueues.Queues
}

// New builds a Loop over shared pools and queues.
func New(pools *syspools.Pools, queues *sysqueues.Queues) *Loop {
	return &Loop{pools: pools, queues: queues}
}

// EnqueueClosure acquires an event slot for c and pushes it onto the
// event queue. Reports false if the event pool or event queue is full.
func (l *Loop) EnqueueClosure(c closure.Closure) bool {
	h, ok := l.pools.Events.Acquire()
	if !ok {
		return false
	}
	*l.pools.Events.Get(h) = event.NewClosure(c)
	if !l.queues.Enqueue(h) {
		l.pools.Events.Release(h)
		return false
	}
	return true
}

// Run dispatches exactly the events present on the event queue at the
// moment Run is called — a fixed-count snapshot, not a drain-to-empty
// loop. An event enqueued by a closure this Run dispatches (e.g. a closure
// that calls EnqueueClosure) is left for the next Run, which
// bounds a single Run's duration by what was already pending (spec.md
// §4.8, "run-to-completion").
func (l *Loop) Run() {
	handles := l.queues.DequeueAll(l.queues.CountEnqueuedEvents())
	for _, h := range handles {
		l.dispatch(h)
	}
}

func (l *Loop) dispatch(h pool.Handle) {
	ev := l.pools.Events.Get(h)

	switch ev.Kind {
	case event.KindClosure, event.KindTimer:
		l.safeInvoke(ev)
		ev.Destroy()
		l.pools.Events.Release(h)

	case event.KindSignalListener:
		// The Listening flag is checked before invocation, not after:
		// a listener unlistened between emit and this Run must not
		// fire even though its event is already queued.
		if ev.Listening {
			l.safeInvoke(ev)
		}
		ev.Queued--
		// A recurring, still-listening listener's event slot is owned
		// by its listener-list node for as long as it stays attached;
		// only a one-shot firing or an unlisten releases it, and only
		// once no other queued firing of the same handle remains.
		if (!ev.Recurring || !ev.Listening) && ev.Queued == 0 {
			ev.Host.Detach(ev.ListenerNode)
			ev.Destroy()
			l.pools.Events.Release(h)
		}

	default:
		l.pools.Events.Release(h)
	}
}

func (l *Loop) safeInvoke(ev *event.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: evloop: event panicked: %v", r)
		}
	}()
	ev.Closure.Invoke(ev.Params)
}
