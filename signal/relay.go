// Package signal implements the fixed-width signal relay: a vector of
// listener lists indexed by signal ID, supporting listen, listen-once,
// emit, and unlisten (spec.md §4.9). Relay implements event.ListenerHost
// so the event package can carry a back-reference to the relay without
// importing it.
package signal

import (
	"log"

	"github.com/anghd/uevloop/closure"
	"github.com/anghd/uevloop/config"
	"github.com/anghd/uevloop/event"
	"github.com/anghd/uevloop/llist"
	"github.com/anghd/uevloop/pool"
	"github.com/anghd/uevloop/syspools"
	"github.com/anghd/uevloop/sysqueues"
)

// Relay holds width fixed listener-list slots, one per signal ID in
// [0, width).
type Relay struct {
	pools  *syspools.Pools
	queues *sysqueues.Queues

	width        uint16
	listeners    []*llist.List[pool.Handle]
	maxListeners uint16 // advisory only, per original's UEL_SIGNAL_MAX_LISTENERS
}

// New builds a Relay with width signal IDs, each backed by its own
// listener list drawn from the shared node pool. maxListeners (from
// cfg.SignalMaxListeners) is advisory: lists are pool-bounded, not
// array-bounded, so exceeding it only logs, it never fails Listen.
func New(pools *syspools.Pools, queues *sysqueues.Queues, width uint16, cfg *config.Config) *Relay {
	r := &Relay{
		pools:        pools,
		queues:       queues,
		width:        width,
		listeners:    make([]*llist.List[pool.Handle], width),
		maxListeners: cfg.SignalMaxListeners,
	}
	for i := range r.listeners {
		r.listeners[i] = llist.NewList[pool.Handle](pools.Nodes)
	}
	return r
}

// Width returns the number of distinct signal IDs this relay serves.
func (r *Relay) Width() uint16 { return r.width }

// Listen registers c to run every time signalID is emitted, until
// Unlisten is called or the relay is discarded. Returns the listener
// event's pool.Handle (for Unlisten) and false if signalID is out of
// range or either pool is exhausted.
func (r *Relay) Listen(signalID uint16, c closure.Closure) (pool.Handle, bool) {
	return r.listen(signalID, c, true)
}

// ListenOnce registers c to run exactly once, the next time signalID is
// emitted, then automatically detaches.
func (r *Relay) ListenOnce(signalID uint16, c closure.Closure) (pool.Handle, bool) {
	return r.listen(signalID, c, false)
}

func (r *Relay) listen(signalID uint16, c closure.Closure, recurring bool) (pool.Handle, bool) {
	if signalID >= r.width {
		return pool.None, false
	}
	eh, ok := r.pools.Events.Acquire()
	if !ok {
		return pool.None, false
	}
	nh, ok := r.pools.Nodes.Acquire()
	if !ok {
		r.pools.Events.Release(eh)
		return pool.None, false
	}

	listener := event.NewSignalListener(c, signalID, r, recurring)
	listener.ListenerNode = nh
	*r.pools.Events.Get(eh) = listener

	*r.pools.Nodes.Get(nh) = llist.Node[pool.Handle]{Payload: eh}
	r.listeners[signalID].PushTail(nh)

	if count := r.countListeners(signalID); count > int(r.maxListeners) {
		log.Printf("signal: signal %d has %d listeners, exceeding the advisory maximum of %d", signalID, count, r.maxListeners)
	}

	return eh, true
}

func (r *Relay) countListeners(signalID uint16) int {
	n := 0
	r.listeners[signalID].ForEach(func(pool.Handle, pool.Handle) bool {
		n++
		return true
	})
	return n
}

// Emit sets params on every currently-listening listener on signalID and
// queues it for dispatch on the loop's next Run (spec.md §4.9). A
// one-shot listener's node is removed from the list right away (it can
// only ever fire once, so there is nothing left to find on a later
// Emit); a recurring listener's node is left in place so the next Emit
// finds it again. Listening is left alone here — it still reads true up
// to the point the loop actually dispatches the queued firing, which is
// what lets Unlisten race correctly against an Emit that already
// happened (spec.md §8 scenario 5): Unlisten is the only thing that ever
// sets Listening false. Reports the number of listeners queued.
func (r *Relay) Emit(signalID uint16, params any) int {
	if signalID >= r.width {
		return 0
	}
	queued := 0
	list := r.listeners[signalID]
	list.FilterInPlace(func(eh pool.Handle) bool {
		ev := r.pools.Events.Get(eh)
		if !ev.Listening {
			return true // unlistened since the last Emit: drop now
		}
		if r.queues.Enqueue(eh) {
			queued++
			ev.Queued++
			ev.Params = params
		}
		return !ev.Recurring // one-shot: detach now; recurring: keep
	})
	return queued
}

// Unlisten detaches the listener identified by h, if it is still
// attached. Safe to call even if h has already fired and self-detached.
// If h is currently sitting in the event queue from a prior Emit, the
// handle's release is left to the loop's dispatch (which checks Queued)
// rather than reclaimed here, so a racing Run never reads a reused slot.
func (r *Relay) Unlisten(h pool.Handle) {
	ev := r.pools.Events.Get(h)
	if ev.Kind != event.KindSignalListener || !ev.Listening {
		return
	}
	ev.Listening = false
	r.Detach(ev.ListenerNode)
	if ev.Queued == 0 {
		ev.Destroy()
		r.pools.Events.Release(h)
	}
}

// Detach implements event.ListenerHost: it removes node from whichever
// signal's listener list it belongs to and releases it back to the node
// pool. The event loop calls this once a listener's event has been
// dispatched (or skipped because it was no longer Listening).
func (r *Relay) Detach(node llist.Handle) {
	for _, list := range r.listeners {
		if list.Remove(node) {
			r.pools.Nodes.Release(node)
			return
		}
	}
}

var _ event.ListenerHost = (*Relay)(nil)
